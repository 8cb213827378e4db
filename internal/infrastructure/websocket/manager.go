package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"mhhf/pkg/logger"
)

// Client wraps one admin console connection.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	closeOnce sync.Once
}

// Manager tracks all active console connections so they can be torn
// down together on shutdown.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.SessionID] = client
				m.mutex.Unlock()
				logger.Debug("Console connected: %s", client.SessionID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.SessionID]; ok {
					delete(m.clients, client.SessionID)
					client.close()
				}
				m.mutex.Unlock()
				logger.Debug("Console disconnected: %s", client.SessionID)

			case <-ctx.Done():
				m.mutex.Lock()
				for id, client := range m.clients {
					delete(m.clients, id)
					client.close()
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Count reports active console connections, for health reporting.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump reads command frames from the connection and hands them to
// handle. It returns when the connection drops.
func (c *Client) ReadPump(m *Manager, handle func(message []byte)) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Console read error: %v", err)
			}
			break
		}
		handle(message)
	}
}

// WritePump sends queued frames to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("Console write error: %v", err)
			return
		}
	}
}
