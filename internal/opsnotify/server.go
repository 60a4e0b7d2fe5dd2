// Package opsnotify fans operational notices (low stock, pending
// payment proofs, staff broadcasts) out to UDP subscribers. Clients
// send "SUBSCRIBE"/"UNSUBSCRIBE" datagrams; everything else is ignored.
package opsnotify

import (
	"encoding/json"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"bookhub/pkg/models"
)

type Server struct {
	addr string

	mu      sync.Mutex
	clients map[string]*net.UDPAddr // key = ip:port

	conn *net.UDPConn
}

func New(addr string) *Server {
	return &Server{
		addr:    addr,
		clients: make(map[string]*net.UDPAddr),
	}
}

func (s *Server) Start() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn
	log.Printf("ops notify listening on %s", s.addr)

	buf := make([]byte, 2048)
	for {
		n, clientAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			log.Println("opsnotify read:", err)
			continue
		}

		switch strings.ToUpper(strings.TrimSpace(string(buf[:n]))) {
		case "SUBSCRIBE":
			s.mu.Lock()
			s.clients[clientAddr.String()] = clientAddr
			s.mu.Unlock()
			log.Printf("opsnotify subscribed: %s (total=%d)", clientAddr, s.count())
		case "UNSUBSCRIBE":
			s.mu.Lock()
			delete(s.clients, clientAddr.String())
			s.mu.Unlock()
			log.Printf("opsnotify unsubscribed: %s (total=%d)", clientAddr, s.count())
		}
	}
}

func (s *Server) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends a typed notice to every subscriber.
func (s *Server) Broadcast(noticeType, message string) {
	if s.conn == nil {
		log.Println("opsnotify conn not started yet")
		return
	}

	b, err := json.Marshal(models.OpsNotice{
		Type:      noticeType,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Println("opsnotify marshal:", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, addr := range s.clients {
		if _, err := s.conn.WriteToUDP(b, addr); err != nil {
			log.Printf("opsnotify send to %s failed: %v", key, err)
		}
	}
}
