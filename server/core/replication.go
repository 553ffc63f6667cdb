package core

import (
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/tracerfps/tracer/server/sim"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// Track marks an actor for necs replication. Players interpolate position and
// rotation; enemies interpolate position only.
func (s *Server) Track(e donburi.Entity) error {
	entry := s.world.Entry(e)

	var err error
	switch {
	case entry.HasComponent(tags.Player):
		err = srvsync.NetworkSync(s.world, &e,
			srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetRotation),
			netcomponents.NetPlayer,
			netcomponents.NetHealth,
		)
	case entry.HasComponent(tags.Enemy):
		err = srvsync.NetworkSync(s.world, &e,
			srvsync.WithInterp(netcomponents.NetPosition),
			netcomponents.NetEnemy,
		)
	default:
		return fmt.Errorf("track entity %v: not an actor", e)
	}
	if err != nil {
		return fmt.Errorf("network sync: %w", err)
	}
	return nil
}

// Send delivers msg to one client.
func (s *Server) Send(conn sim.ConnID, msg any) error {
	s.mu.RLock()
	client, ok := s.peers[conn]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("send to %d: %w", conn, sim.ErrUnknownConnection)
	}
	return client.SendMessage(msg)
}

// Broadcast delivers msg to every connected client.
func (s *Server) Broadcast(msg any) error {
	s.mu.RLock()
	peers := make(map[sim.ConnID]*router.NetworkClient, len(s.peers))
	for conn, client := range s.peers {
		peers[conn] = client
	}
	s.mu.RUnlock()

	var errs []error
	for conn, client := range peers {
		if err := client.SendMessage(msg); err != nil {
			errs = append(errs, fmt.Errorf("send to %d: %w", conn, err))
		}
	}
	return errors.Join(errs...)
}

// Drop forgets conn and closes its websocket. The disconnect callback that
// follows finds no peer and queues nothing.
func (s *Server) Drop(conn sim.ConnID, reason string) error {
	s.mu.Lock()
	client, ok := s.peers[conn]
	if ok {
		delete(s.peers, conn)
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("drop %d: %w", conn, sim.ErrUnknownConnection)
	}
	s.log.Infow("[server] dropping client", "client", client.Id(), "conn", conn, "reason", reason)
	// Close waits for the peer's close frame; keep it off the loop goroutine.
	go s.closeClient(client, reason)
	return nil
}

func closeWebsocket(client *router.NetworkClient, reason string) {
	_ = client.Conn.Close(websocket.StatusTryAgainLater, reason)
}

// Publish pushes the tick's replicated component state to clients.
func (s *Server) Publish(*sim.Snapshot) error {
	return srvsync.DoSync()
}
