package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PlayerCounter reports the live player count for heartbeats.
type PlayerCounter interface {
	PlayerCount() int
}

// RegistrationConfig describes how this server advertises itself.
type RegistrationConfig struct {
	MasterURL  string
	Name       string
	Address    string
	Version    string
	Region     string
	MaxPlayers int
	Interval   time.Duration
}

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	cfg      RegistrationConfig
	players  PlayerCounter
	log      *zap.SugaredLogger
	client   *http.Client
	stopCh   chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	serverID string
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

func NewRegistration(cfg RegistrationConfig, players PlayerCounter, log *zap.SugaredLogger) *Registration {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Registration{
		cfg:     cfg,
		players: players,
		log:     log,
		client:  &http.Client{Timeout: 5 * time.Second},
		stopCh:  make(chan struct{}),
	}
}

func (r *Registration) Start() {
	if err := r.register(); err != nil {
		r.log.Warnw("[registration] initial registration failed", "error", err)
	}
	go r.heartbeatLoop()
}

func (r *Registration) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// ServerID returns the id assigned by the master, or "" before registration.
func (r *Registration) ServerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serverID
}

func (r *Registration) register() error {
	body, err := json.Marshal(regRequest{
		Name:       r.cfg.Name,
		Address:    r.cfg.Address,
		Players:    r.players.PlayerCount(),
		MaxPlayers: r.cfg.MaxPlayers,
		Version:    r.cfg.Version,
		Region:     r.cfg.Region,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.cfg.MasterURL+"/servers/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result regResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.mu.Lock()
	r.serverID = result.ID
	r.mu.Unlock()
	r.log.Infow("[registration] registered with master", "id", result.ID)
	return nil
}

func (r *Registration) heartbeatLoop() {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(); err != nil {
				r.log.Warnw("[registration] heartbeat failed", "error", err)
			}
		}
	}
}

func (r *Registration) sendHeartbeat() error {
	body, err := json.Marshal(heartbeatRequest{
		ID:      r.ServerID(),
		Players: r.players.PlayerCount(),
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.cfg.MasterURL+"/servers/heartbeat", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.log.Info("[registration] master lost our registration, re-registering")
		return r.register()
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
