package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/master"
	"github.com/tracerfps/tracer/server/logging"
)

func main() {
	port := flag.Int("port", 8090, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logCfg := config.Log
	logCfg.Level = *logLevel
	log, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	reg := master.NewRegistry(*ttl, log)
	go reg.Run(30 * time.Second)
	defer reg.Stop()

	srv := &http.Server{Addr: fmt.Sprintf(":%d", *port), Handler: master.Handler(reg)}
	go func() {
		log.Infow("[master] starting", "addr", srv.Addr, "ttl", *ttl)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("[master] listen failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("[master] shutting down")
	_ = srv.Close()
}
