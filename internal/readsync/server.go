// Package readsync streams reading-progress changes to TCP consumers
// (analytics collectors) as newline-delimited JSON.
package readsync

import (
	"bufio"
	"encoding/json"
	"log"
	"net"
	"sync"

	"bookhub/pkg/models"
)

type Server struct {
	addr string

	mu      sync.Mutex
	clients map[net.Conn]struct{}

	events <-chan models.ReadingEvent
}

func New(addr string, events <-chan models.ReadingEvent) *Server {
	return &Server{
		addr:    addr,
		clients: make(map[net.Conn]struct{}),
		events:  events,
	}
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	log.Printf("reading sync listening on %s", s.addr)

	go s.broadcastLoop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("readsync accept:", err)
			continue
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		log.Printf("readsync client connected: %s", conn.RemoteAddr())

		go s.watchDisconnect(conn)
	}
}

// watchDisconnect reads (and ignores) incoming lines purely to detect
// the peer closing.
func (s *Server) watchDisconnect(conn net.Conn) {
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
	}
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
	log.Printf("readsync client disconnected: %s", conn.RemoteAddr())
}

func (s *Server) broadcastLoop() {
	for evt := range s.events {
		b, err := json.Marshal(evt)
		if err != nil {
			log.Println("readsync marshal:", err)
			continue
		}
		b = append(b, '\n')

		s.mu.Lock()
		for conn := range s.clients {
			if _, err := conn.Write(b); err != nil {
				delete(s.clients, conn)
				_ = conn.Close()
			}
		}
		s.mu.Unlock()
	}
}
