package core

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leap-fish/necs/router"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/sim"
	"github.com/tracerfps/tracer/shared/leveldata"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/yohamta/donburi"
	"go.uber.org/zap/zaptest"
)

// quietNet stands in for necs replication. Drops go to the real server so
// peer bookkeeping is exercised.
type quietNet struct {
	server    *Server
	sent      atomic.Int64
	published atomic.Int64
}

func (n *quietNet) Track(donburi.Entity) error { return nil }
func (n *quietNet) Send(sim.ConnID, any) error {
	n.sent.Add(1)
	return nil
}
func (n *quietNet) Broadcast(any) error { return nil }
func (n *quietNet) Drop(conn sim.ConnID, reason string) error {
	return n.server.Drop(conn, reason)
}
func (n *quietNet) Publish(*sim.Snapshot) error {
	n.published.Add(1)
	return nil
}

func newTestServer(t *testing.T, level *ServerLevel) (*Server, *quietNet) {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)

	s := newServer(donburi.NewWorld(), level, zaptest.NewLogger(t).Sugar())
	s.closeClient = func(*router.NetworkClient, string) {}
	net := &quietNet{server: s}
	s.sim.Net = net
	return s, net
}

func TestPeerLifecycleFeedsSimulation(t *testing.T) {
	s, net := newTestServer(t, nil)
	alice := &router.NetworkClient{}
	mallory := &router.NetworkClient{}

	conn := s.addPeer(alice)
	if conn != 1 {
		t.Fatalf("first conn id = %d, want 1", conn)
	}
	s.push(alice, messages.MovementInput{Forward: 1})
	s.push(mallory, messages.MovementInput{Forward: 1})
	if got := s.sim.Stats.Unresolved.Load(); got != 1 {
		t.Fatalf("unresolved = %d, want 1", got)
	}

	s.sim.Tick(1.0 / 30)
	if s.PlayerCount() != 1 {
		t.Fatalf("player count = %d, want 1", s.PlayerCount())
	}
	if net.sent.Load() != 1 {
		t.Fatalf("join reply not sent")
	}
	if s.sim.Stats.InputsAccepted.Load() != 1 {
		t.Fatalf("accepted = %d, want 1", s.sim.Stats.InputsAccepted.Load())
	}

	if _, ok := s.removePeer(alice, nil); !ok {
		t.Fatalf("removePeer did not find client")
	}
	if _, ok := s.removePeer(alice, nil); ok {
		t.Fatalf("second removePeer should be a no-op")
	}
	s.sim.Tick(1.0 / 30)
	if s.PlayerCount() != 0 {
		t.Fatalf("player count after disconnect = %d", s.PlayerCount())
	}
	if err := s.Send(conn, messages.JoinRejected{}); err == nil {
		t.Fatalf("send to removed peer should fail")
	}
}

func TestRejectedClientIsDropped(t *testing.T) {
	s, _ := newTestServer(t, nil)
	config.Server.MaxPlayers = 1

	closed := make(chan *router.NetworkClient, 1)
	s.closeClient = func(client *router.NetworkClient, reason string) {
		closed <- client
	}

	alice := &router.NetworkClient{}
	bob := &router.NetworkClient{}
	s.addPeer(alice)
	bobConn := s.addPeer(bob)
	s.sim.Tick(1.0 / 30)

	if s.PlayerCount() != 1 {
		t.Fatalf("player count = %d, want 1", s.PlayerCount())
	}
	select {
	case got := <-closed:
		if got != bob {
			t.Fatalf("closed the wrong client")
		}
	case <-time.After(time.Second):
		t.Fatalf("rejected client was not closed")
	}

	s.mu.RLock()
	_, inPeers := s.peers[bobConn]
	_, inClients := s.clients[bob]
	s.mu.RUnlock()
	if inPeers || inClients {
		t.Fatalf("rejected client still registered (peers %v, clients %v)", inPeers, inClients)
	}
	if _, ok := s.removePeer(bob, nil); ok {
		t.Fatalf("disconnect of a dropped client should be a no-op")
	}
	if err := s.Drop(bobConn, "again"); !errors.Is(err, sim.ErrUnknownConnection) {
		t.Fatalf("second drop error = %v", err)
	}
}

func TestGameLoopStop(t *testing.T) {
	s, _ := newTestServer(t, nil)

	idle := NewGameLoop(s, 30, s.log)
	idle.Stop()
	idle.Stop()

	loop := NewGameLoop(s, 30, s.log)
	loop.Start()
	loop.Start()
	loop.Stop()
	loop.Stop()
	select {
	case <-loop.done:
	default:
		t.Fatalf("loop still running after Stop")
	}
}

func TestAdminEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)
	sim.SpawnEnemies(s.sim)
	s.addPeer(&router.NetworkClient{})
	s.sim.Tick(1.0 / 30)

	srv := httptest.NewServer(s.AdminHandler())
	defer srv.Close()

	get := func(path string) []byte {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		return body
	}

	if string(get("/healthz")) != "ok" {
		t.Fatalf("healthz body mismatch")
	}

	var metrics struct {
		Server  string         `json:"server"`
		Metrics map[string]any `json:"metrics"`
	}
	if err := json.Unmarshal(get("/metrics"), &metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics.Server != config.Server.Name {
		t.Fatalf("server = %q", metrics.Server)
	}
	if metrics.Metrics["tick_count"] != float64(1) || metrics.Metrics["players"] != float64(1) {
		t.Fatalf("metrics = %v", metrics.Metrics)
	}

	var snap sim.Snapshot
	if err := json.Unmarshal(get("/state"), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.Tick != 1 || len(snap.Players) != 1 || len(snap.Enemies) != 1 {
		t.Fatalf("state = %+v", snap)
	}

	resp, err := http.Post(srv.URL+"/state", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST /state status = %d", resp.StatusCode)
	}
}

func TestGameLoopClampsLongTicks(t *testing.T) {
	s, net := newTestServer(t, nil)
	loop := NewGameLoop(s, 30, s.log)

	loop.tick(10)
	if got := s.sim.LastSnapshot().Time; math.Abs(got-4.0/30) > 1e-9 {
		t.Fatalf("elapsed = %v, want %v", got, 4.0/30)
	}
	loop.tick(0.02)
	if got := s.sim.LastSnapshot().Time; math.Abs(got-(4.0/30+0.02)) > 1e-9 {
		t.Fatalf("elapsed = %v", got)
	}
	if net.published.Load() != 2 {
		t.Fatalf("published %d snapshots, want 2", net.published.Load())
	}
}

func TestNewServerLevel(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	arena := &leveldata.Arena{
		Name:         "test",
		Width:        20,
		Depth:        10,
		Obstacles:    []leveldata.Obstacle{{MinX: -1, MinZ: -1, MaxX: 1, MaxZ: 1}},
		PlayerSpawns: []leveldata.Spawn{{X: 2, Z: 3}},
		EnemySpawns:  []leveldata.Spawn{{X: -4, Z: 4}, {X: 4, Z: -4}},
	}
	level := NewServerLevel(arena, zaptest.NewLogger(t).Sugar())

	boxes := level.Physics.Obstacles()
	if len(boxes) != 1 {
		t.Fatalf("got %d obstacles", len(boxes))
	}
	if boxes[0].Min.Y() != config.Physics.GroundHeight || boxes[0].Max.Y() != config.Physics.GroundHeight+config.Physics.ObstacleHeight {
		t.Fatalf("obstacle height = %v..%v", boxes[0].Min.Y(), boxes[0].Max.Y())
	}
	if len(level.PlayerSpawns) != 1 || level.PlayerSpawns[0].Y() != config.Player.SpawnHeight || level.PlayerSpawns[0].Z() != 3 {
		t.Fatalf("player spawns = %v", level.PlayerSpawns)
	}
	if len(level.EnemySpawns) != 2 || level.EnemySpawns[1].Y() != config.Enemy.GroundHeight {
		t.Fatalf("enemy spawns = %v", level.EnemySpawns)
	}

	s, _ := newTestServer(t, level)
	if n := sim.SpawnEnemies(s.sim); n != 2 {
		t.Fatalf("spawned %d enemies from level, want 2", n)
	}
}
