// Package ws provides a one-way WebSocket feed built on gorilla/websocket.
// formbus uses it to stream form-alter audit records to connected clients:
//
//	var feed = ws.NewFeed()
//	func init() { go feed.Run() }
//
//	router.Get("/ws/form-events", "ws.form_events", func(w http.ResponseWriter, r *http.Request) {
//	    feed.Upgrade(w, r)
//	})
//
//	feed.PublishJSON(record)
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/formbus/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// client is one connected feed subscriber.
type client struct {
	feed *Feed
	conn *websocket.Conn
	send chan []byte
}

// readPump drains the connection so control frames are processed; the feed
// is one-way and inbound text frames are discarded.
func (c *client) readPump() {
	defer func() {
		c.feed.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Feed fans broadcast messages out to every connected subscriber.
type Feed struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewFeed creates a Feed. Call feed.Run() in a goroutine at startup.
func NewFeed() *Feed {
	return &Feed{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the feed event loop. Must run in its own goroutine.
func (f *Feed) Run() {
	for {
		select {
		case c := <-f.register:
			f.clients[c] = true
			logger.Debug("ws: subscriber connected", "total", len(f.clients))

		case c := <-f.unregister:
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				close(c.send)
				logger.Debug("ws: subscriber disconnected", "total", len(f.clients))
			}

		case msg := <-f.broadcast:
			for c := range f.clients {
				select {
				case c.send <- msg:
				default:
					// Slow subscriber: drop it rather than block the feed.
					close(c.send)
					delete(f.clients, c)
				}
			}
		}
	}
}

// Publish queues raw bytes for every subscriber. Never blocks; when the
// feed's own buffer is full the message is dropped.
func (f *Feed) Publish(data []byte) {
	select {
	case f.broadcast <- data:
	default:
	}
}

// PublishJSON marshals v and publishes it.
func (f *Feed) PublishJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("ws: marshal feed record", "error", err)
		return
	}
	f.Publish(data)
}

// Upgrade upgrades an HTTP connection and subscribes it to the feed.
func (f *Feed) Upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	c := &client{feed: f, conn: conn, send: make(chan []byte, 256)}
	f.register <- c
	go c.writePump()
	go c.readPump()
}
