// Package events pushes back-office activity (orders placed, bulk
// assignments, payment proofs) to connected admin dashboards over
// websocket. The feed is one-way: clients only listen.
package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"bookhub/pkg/models"
)

type Hub struct {
	mu        sync.Mutex
	sendChans map[*websocket.Conn]chan []byte

	publish    chan models.ActivityEvent
	unregister chan *websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		sendChans:  make(map[*websocket.Conn]chan []byte),
		publish:    make(chan models.ActivityEvent, 64),
		unregister: make(chan *websocket.Conn),
	}
}

// attach registers a connection and returns its send channel.
func (h *Hub) attach(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 256)
	h.mu.Lock()
	h.sendChans[conn] = ch
	h.mu.Unlock()
	log.Printf("activity feed: client %s connected", conn.RemoteAddr())
	return ch
}

// Publish enqueues an event without blocking the caller; the feed is
// advisory and full buffers drop.
func (h *Hub) Publish(evt models.ActivityEvent) {
	select {
	case h.publish <- evt:
	default:
		log.Println("warn: activity feed full, drop event")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.unregister:
			h.drop(conn)

		case evt := <-h.publish:
			data, err := json.Marshal(evt)
			if err != nil {
				log.Println("activity feed marshal:", err)
				continue
			}
			h.mu.Lock()
			for conn, ch := range h.sendChans {
				select {
				case ch <- data:
				default:
					// slow consumer, cut it loose
					delete(h.sendChans, conn)
					close(ch)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.sendChans[conn]; ok {
		close(ch)
		delete(h.sendChans, conn)
		conn.Close()
		log.Printf("activity feed: client %s disconnected", conn.RemoteAddr())
	}
}
