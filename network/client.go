// Package network is the client side of the protocol: a necs websocket
// connection with typed event channels, used by the headless bot.
package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/tracerfps/tracer/shared/messages"
	"go.uber.org/zap"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("ClientState(%d)", int(s))
	}
}

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu  sync.RWMutex
	log *zap.SugaredLogger

	state      ClientState
	lastError  error
	join       messages.JoinAccepted
	conn       *websocket.Conn
	joinedCh   chan messages.JoinAccepted
	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	hitCh     chan messages.HitEvent
	killCh    chan messages.KillEvent
	respawnCh chan messages.RespawnEvent
}

func NewClient(log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		log:        log,
		state:      StateDisconnected,
		joinedCh:   make(chan messages.JoinAccepted, 1),
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		hitCh:      make(chan messages.HitEvent, 16),
		killCh:     make(chan messages.KillEvent, 16),
		respawnCh:  make(chan messages.RespawnEvent, 16),
	}
}

// Connect dials the server in a background goroutine. The server spawns a
// player on connect and answers with JoinAccepted, delivered on Joined.
func (c *Client) Connect(address string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Info("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.log.Infow("[client] join accepted",
			"player", msg.PlayerID, "network_id", msg.NetworkID,
			"server", msg.ServerName, "tick_rate", msg.TickRate)
		c.mu.Lock()
		c.join = msg
		c.state = StateJoinedGame
		c.mu.Unlock()
		select {
		case c.joinedCh <- msg:
		default:
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.log.Warnw("[client] join rejected", "reason", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.HitEvent) {
		offer(c.hitCh, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.KillEvent) {
		offer(c.killCh, evt)
	})
	router.On(func(_ *router.NetworkClient, evt messages.RespawnEvent) {
		offer(c.respawnCh, evt)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.Infow("[client] disconnected", "error", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.Warnw("[client] error", "error", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Joined delivers the JoinAccepted reply once.
func (c *Client) Joined() <-chan messages.JoinAccepted {
	return c.joinedCh
}

// Join returns the last JoinAccepted, zero before joining.
func (c *Client) Join() messages.JoinAccepted {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.join
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) SendRotation(yaw, pitch float64) error {
	return c.SendMessage(messages.RotationInput{Yaw: yaw, Pitch: pitch})
}

func (c *Client) SendMovement(forward, right float64) error {
	return c.SendMessage(messages.MovementInput{Forward: forward, Right: right})
}

func (c *Client) SendShot(origin, direction mgl64.Vec3) error {
	return c.SendMessage(messages.ShootEvent{Origin: origin, Direction: direction})
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainHitEvents returns all pending hit events, non-blocking.
func (c *Client) DrainHitEvents() []messages.HitEvent {
	return drainChan(c.hitCh)
}

// DrainKillEvents returns all pending kill events, non-blocking.
func (c *Client) DrainKillEvents() []messages.KillEvent {
	return drainChan(c.killCh)
}

// DrainRespawnEvents returns all pending respawn events, non-blocking.
func (c *Client) DrainRespawnEvents() []messages.RespawnEvent {
	return drainChan(c.respawnCh)
}

// offer drops evt when the channel is full.
func offer[T any](ch chan T, evt T) {
	select {
	case ch <- evt:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
