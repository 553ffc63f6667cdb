// Package core wires the simulation to the network: necs websocket transport,
// router callbacks, replication, the fixed-rate game loop, the admin HTTP
// endpoints and master server registration.
package core

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/sim"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Level   *ServerLevel // nil runs without physics
	Logger  *zap.SugaredLogger
	Version string
}

// Server owns the simulation and the client connections feeding it.
type Server struct {
	world        donburi.World
	sim          *sim.Context
	level        *ServerLevel
	log          *zap.SugaredLogger
	version      string
	loop         *GameLoop
	transport    *transports.WsServerTransport
	admin        *http.Server
	registration *Registration

	// Router callbacks run on necs goroutines; the loop reads peers when
	// sending. Both sides go through mu.
	mu       sync.RWMutex
	clients  map[*router.NetworkClient]sim.ConnID
	peers    map[sim.ConnID]*router.NetworkClient
	nextConn atomic.Uint64

	closeClient func(client *router.NetworkClient, reason string)
}

// NewServer creates the world, spawns the enemy pack and registers router
// callbacks. Call Start to begin serving.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := newServer(donburi.NewWorld(), opts.Level, log)
	s.version = opts.Version
	s.loop = NewGameLoop(s, config.Server.TickRate, log)

	srvsync.UseEsync(s.world)
	s.setupRouterCallbacks()

	spawned := sim.SpawnEnemies(s.sim)
	log.Infow("[server] enemies spawned", "count", spawned)
	return s
}

// newServer builds the Server and its simulation context without touching
// the global router.
func newServer(world donburi.World, level *ServerLevel, log *zap.SugaredLogger) *Server {
	s := &Server{
		world:   world,
		level:   level,
		log:     log,
		clients: make(map[*router.NetworkClient]sim.ConnID),
		peers:   make(map[sim.ConnID]*router.NetworkClient),

		closeClient: closeWebsocket,
	}

	stats := &sim.Stats{}
	opts := sim.Options{
		Net:    s,
		Logger: log,
		Queue:  sim.NewQueue(config.Server.InboundBuffer, stats),
		Stats:  stats,
	}
	if level != nil {
		opts.Physics = level.Physics
		opts.PlayerSpawns = level.PlayerSpawns
		opts.EnemySpawns = level.EnemySpawns
	}
	s.sim = sim.New(world, opts)
	return s
}

// Start begins the game loop, the admin endpoints and master registration,
// then serves websocket clients on port until the transport fails.
func (s *Server) Start(port uint) error {
	s.loop.Start()

	if addr := config.Server.AdminAddr; addr != "" {
		s.admin = &http.Server{Addr: addr, Handler: s.AdminHandler()}
		go func() {
			s.log.Infow("[admin] listening", "addr", addr)
			if err := s.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Errorw("[admin] listen failed", "error", err)
			}
		}()
	}

	if config.Server.MasterURL != "" {
		s.registration = NewRegistration(RegistrationConfig{
			MasterURL:  config.Server.MasterURL,
			Name:       config.Server.Name,
			Address:    config.Server.PublicAddress,
			Version:    s.version,
			Region:     config.Server.Region,
			MaxPlayers: config.Server.MaxPlayers,
			Interval:   config.Server.HeartbeatEvery,
		}, s, s.log)
		s.registration.Start()
	}

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
	if s.registration != nil {
		s.registration.Stop()
	}
	if s.admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.admin.Shutdown(ctx)
	}
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		conn := s.addPeer(client)
		s.log.Infow("[server] client connected", "client", client.Id(), "conn", conn)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		conn, ok := s.removePeer(client, err)
		if !ok {
			return
		}
		if err != nil {
			s.log.Infow("[server] client disconnected", "client", client.Id(), "conn", conn, "error", err)
		} else {
			s.log.Infow("[server] client disconnected", "client", client.Id(), "conn", conn)
		}
	})

	router.On(func(client *router.NetworkClient, msg messages.RotationInput) {
		s.push(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.MovementInput) {
		s.push(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.ShootEvent) {
		s.push(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Warnw("[server] client error", "client", client.Id(), "error", err)
	})
}

// addPeer assigns the next connection id to client and queues its join.
func (s *Server) addPeer(client *router.NetworkClient) sim.ConnID {
	conn := sim.ConnID(s.nextConn.Add(1))

	s.mu.Lock()
	s.clients[client] = conn
	s.peers[conn] = client
	s.mu.Unlock()

	s.sim.Queue.PushLifecycle(conn, sim.Connected{})
	return conn
}

// removePeer forgets client and queues its despawn.
func (s *Server) removePeer(client *router.NetworkClient, err error) (sim.ConnID, bool) {
	s.mu.Lock()
	conn, ok := s.clients[client]
	if ok {
		delete(s.clients, client)
		delete(s.peers, conn)
	}
	s.mu.Unlock()

	if ok {
		s.sim.Queue.PushLifecycle(conn, sim.Disconnected{Err: err})
	}
	return conn, ok
}

// push queues a client message under the connection id the transport
// assigned. Identity is never read from the payload.
func (s *Server) push(client *router.NetworkClient, msg any) {
	s.mu.RLock()
	conn, ok := s.clients[client]
	s.mu.RUnlock()

	if !ok {
		s.sim.Stats.Unresolved.Add(1)
		s.log.Warnw("[server] message from unregistered client dropped")
		return
	}
	if !s.sim.Queue.Push(conn, msg) {
		s.log.Debugw("[server] inbound queue full, input dropped", "conn", conn)
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of spawned players. Safe from any goroutine.
func (s *Server) PlayerCount() int {
	return int(s.sim.Stats.Players.Load())
}
