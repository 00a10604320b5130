package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lushtech/eldercare-web/pkg/domain"
)

const wsWriteTimeout = 10 * time.Second

// Notifier pushes messages to every connected websocket client.
// Binary messages carry jpeg frames, text messages carry json events.
type Notifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// wsClient serializes writes to a single connection
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// settingsEvent is sent to clients after settings changed
type settingsEvent struct {
	Type     string             `json:"type"`
	Settings domain.SettingsDTO `json:"settings"`
}

// NewNotifier makes an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{clients: make(map[*wsClient]struct{})}
}

// Register adds a connection to the broadcast set
func (n *Notifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	n.mu.Unlock()
	return client
}

// Unregister removes the client and closes its connection
func (n *Notifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Clients returns the number of connected clients
func (n *Notifier) Clients() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

// SendBytes broadcasts a binary message
func (n *Notifier) SendBytes(msg []byte) {
	n.broadcast(websocket.BinaryMessage, msg)
}

// SendString broadcasts a text message
func (n *Notifier) SendString(msg string) {
	n.broadcast(websocket.TextMessage, []byte(msg))
}

// sendSettings broadcasts a settings change event
func (n *Notifier) sendSettings(settings domain.SettingsDTO) {
	data, err := json.Marshal(settingsEvent{Type: "settings", Settings: settings})
	if err != nil {
		log.Printf("[WARN] can't marshal settings event: %v", err)
		return
	}
	n.SendString(string(data))
}

// Close sends a close frame to all clients and drops them
func (n *Notifier) Close() {
	n.mu.Lock()
	clients := n.clients
	n.clients = make(map[*wsClient]struct{})
	n.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
	for client := range clients {
		client.mu.Lock()
		_ = client.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		client.mu.Unlock()
		_ = client.conn.Close()
	}
}

func (n *Notifier) broadcast(messageType int, payload []byte) {
	n.mu.Lock()
	clients := make([]*wsClient, 0, len(n.clients))
	for client := range n.clients {
		clients = append(clients, client)
	}
	n.mu.Unlock()

	for _, client := range clients {
		if err := client.write(messageType, payload); err != nil {
			log.Printf("[DEBUG] dropping websocket client %s: %v", client.conn.RemoteAddr(), err)
			n.Unregister(client)
		}
	}
}

func (c *wsClient) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

// wsHandler upgrades the request and keeps the client registered until it disconnects.
// Incoming messages are read and discarded.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{HandshakeTimeout: 5 * time.Second}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}

	client := s.notifier.Register(conn)
	log.Printf("[DEBUG] websocket client %s connected", conn.RemoteAddr())
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] websocket client %s closed unexpectedly: %v", conn.RemoteAddr(), err)
			}
			return
		}
	}
}
