package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

const (
	KIND_STATUS = "status"
	KIND_FRAME  = "frame"
)

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 40 * time.Second
	sendBuffer   = 32
)

type status struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32
}

type message struct {
	Kind   string      `json:"kind"`
	Status *status     `json:"status,omitempty"`
	Frame  interface{} `json:"frame,omitempty"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				c.hub.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				c.hub.unregister(c)
				return
			}
		}
	}
}

// readPump only watches for the peer going away, viewers send nothing.
func (c *Client) readPump() {
	defer c.hub.unregister(c)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans messages out to websocket clients. A client that can not keep up
// loses messages instead of stalling the sender.
type Hub struct {
	lock        sync.Mutex
	clients     map[*Client]bool
	lastMessage []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// NewClient starts pumps for conn, the client first receives the last status.
func (h *Hub) NewClient(conn *websocket.Conn) *Client {
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.lock.Lock()
	h.clients[c] = true
	if h.lastMessage != nil {
		c.send <- h.lastMessage
	}
	h.lock.Unlock()

	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) unregister(c *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ClientsCount() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(data []byte, remember bool) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if remember {
		h.lastMessage = data
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) publish(m *message, remember bool) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("[status] marshal %s error: %v", m.Kind, err)
		return
	}
	h.broadcast(data, remember)
}

func (h *Hub) Status(msg string, _type int, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	h.publish(&message{
		Kind: KIND_STATUS,
		Status: &status{
			Message:  msg,
			Time:     time.Now(),
			Type:     _type,
			Progress: progress,
		},
	}, true)
}

// Frame sends v to every connected viewer. Nothing is sent without viewers.
func (h *Hub) Frame(v interface{}) {
	if h.ClientsCount() == 0 {
		return
	}
	h.publish(&message{Kind: KIND_FRAME, Frame: v}, false)
}

func (h *Hub) Info(format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func (h *Hub) Error(format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func (h *Hub) Progress(progress float32, format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}

var defaultHub = NewHub()

func Default() *Hub { return defaultHub }

func Error(format string, a ...interface{}) { defaultHub.Error(format, a...) }
