package server

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"
	statusInternal = "HTTP/1.1 500 INTERNAL SERVER ERROR"
)

// handleConn is the body of a connection job. It runs on an arbitrary
// worker, owns the connection for its whole lifetime, and closes it on
// the way out.
func (s *Server) handleConn(connID string, conn net.Conn) {
	defer conn.Close()

	log := s.log.With(zap.String("conn_id", connID))

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Warn("failed to read request line", zap.Error(err))
		return
	}
	requestLine := strings.TrimRight(line, "\r\n")

	// Consume the header block. Routing only needs the request line,
	// but closing with unread data in the socket buffer would reset
	// the connection and could discard the response.
	for {
		header, err := reader.ReadString('\n')
		if err != nil || header == "\r\n" || header == "\n" {
			break
		}
	}

	status, page := s.route(requestLine)

	body, err := os.ReadFile(filepath.Join(s.cfg.StaticDir, page))
	if err != nil {
		log.Error("failed to read page", zap.String("page", page), zap.Error(err))
		status, body = statusInternal, []byte("internal server error\n")
	}

	if _, err := fmt.Fprintf(conn, "%s\r\nContent-Length: %d\r\n\r\n%s", status, len(body), body); err != nil {
		log.Warn("failed to write response", zap.Error(err))
		return
	}

	log.Info("handled connection",
		zap.String("request", requestLine),
		zap.String("status", status),
	)
}

// route maps a request line to a status line and page, mirroring the
// server's tiny routing table: the root page, a deliberately slow
// endpoint, and a catch-all 404.
func (s *Server) route(requestLine string) (status, page string) {
	switch requestLine {
	case "GET / HTTP/1.1":
		return statusOK, "hello.html"
	case "GET /sleep HTTP/1.1":
		time.Sleep(s.cfg.Sleep)
		return statusOK, "hello.html"
	default:
		return statusNotFound, "404.html"
	}
}
