// Package master is the server browser: game servers register and heartbeat,
// clients list the live ones.
package master

import (
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServerInfo describes a game server visible to clients.
type ServerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

// Full reports whether the server has no free player slot.
func (s ServerInfo) Full() bool {
	return s.MaxPlayers > 0 && s.Players >= s.MaxPlayers
}

type serverRecord struct {
	ServerInfo
	lastSeen time.Time
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Region   string
	Version  string
	HideFull bool
}

func (f Filter) match(s ServerInfo) bool {
	if f.Region != "" && s.Region != f.Region {
		return false
	}
	if f.Version != "" && s.Version != f.Version {
		return false
	}
	return !(f.HideFull && s.Full())
}

// Registry is an in-memory store of live game servers. Records that miss
// heartbeats for longer than ttl are expired.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
	log     *zap.SugaredLogger
	stopCh  chan struct{}
	stopped sync.Once
}

func NewRegistry(ttl time.Duration, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
		stopCh:  make(chan struct{}),
	}
}

// Run expires stale servers every interval until Stop is called.
func (r *Registry) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}

func (r *Registry) Stop() {
	r.stopped.Do(func() { close(r.stopCh) })
}

// Register stores info under a fresh random id and returns it.
func (r *Registry) Register(info ServerInfo) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	info.ID = fmt.Sprintf("%x", b)

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{ServerInfo: info, lastSeen: r.now()}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a server and its player count. It returns false for
// unknown or expired ids.
func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.lastSeen = r.now()
	rec.Players = players
	return true
}

// List returns matching servers ordered by name, then id.
func (r *Registry) List(f Filter) []ServerInfo {
	r.mu.RLock()
	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		if f.match(rec.ServerInfo) {
			result = append(result, rec.ServerInfo)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Expire drops every server not seen within the ttl and returns how many
// were removed.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, rec := range r.servers {
		if age := now.Sub(rec.lastSeen); age >= r.ttl {
			r.log.Infow("[master] expired server", "name", rec.Name, "id", id, "last_seen", age.Round(time.Second))
			delete(r.servers, id)
			removed++
		}
	}
	return removed
}
