package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bezmoradi/sinkswitch/internal/logger"
)

// Path is the websocket endpoint.
const Path = "/ws"

const writeTimeout = 5 * time.Second

// HandlerFunc serves one method. The result is marshalled as the response.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

type conn struct {
	id      string
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(msg)
}

// Server dispatches requests from local clients to registered handlers and
// pushes events to every connected client.
type Server struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	clients  map[string]*conn

	upgrader websocket.Upgrader
	httpSrv  *http.Server
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		handlers: make(map[string]HandlerFunc),
		clients:  make(map[string]*conn),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     isLocalOrigin,
	}
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Register adds a handler; a second registration of a name replaces the first.
func (s *Server) Register(method string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// methods lists the registered method names, sorted.
func (s *Server) methods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	methods := make([]string, 0, len(s.handlers))
	for m := range s.handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	return mux
}

// Listen binds addr. Failure usually means another instance owns it.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	return nil
}

// Addr is the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts connections until Shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("ipc server is not listening")
	}
	logger.Info("[IPC] Listening on ws://%s%s", s.Addr(), Path)
	logger.Debug("[IPC] Methods: %s", strings.Join(s.methods(), ", "))

	err := s.httpSrv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting, closes every client and waits for the HTTP
// server to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for id, c := range s.clients {
		c.writeMu.Lock()
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		c.ws.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()

	err := s.httpSrv.Shutdown(ctx)
	if s.listener != nil {
		// Shutdown only closes listeners that reached Serve.
		s.listener.Close()
	}
	return err
}

// Notify pushes an event to every connected client. Clients that cannot be
// written to are dropped.
func (s *Server) Notify(event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("[IPC] Failed to encode %s event: %v", event, err)
		return
	}
	msg := Message{Event: event, Data: raw}

	s.mu.RLock()
	clients := make([]*conn, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			logger.Warn("[IPC] Dropping client %s: %v", c.id, err)
			s.drop(c)
		}
	}
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) drop(c *conn) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	c.ws.Close()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("[IPC] Upgrade failed: %v", err)
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws}
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	logger.Info("[IPC] Client %s connected from %s", c.id, r.RemoteAddr)

	defer func() {
		s.drop(c)
		logger.Debug("[IPC] Client %s disconnected", c.id)
	}()

	for {
		var req Message
		if err := ws.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("[IPC] Client %s read failed: %v", c.id, err)
			}
			return
		}
		if req.Method == "" {
			continue
		}

		resp := s.Dispatch(s.ctx, req)
		if err := c.send(resp); err != nil {
			logger.Warn("[IPC] Failed to answer %s on %s: %v", req.Method, c.id, err)
			return
		}
	}
}

// Dispatch runs the handler for req and builds its response.
func (s *Server) Dispatch(ctx context.Context, req Message) Message {
	resp := Message{ID: req.ID}

	s.mu.RLock()
	h, ok := s.handlers[req.Method]
	s.mu.RUnlock()
	if !ok {
		resp.Error = &Error{Code: CodeMethodNotFound, Message: req.Method}
		return resp
	}

	result, err := h(ctx, req.Params)
	if err != nil {
		var ipcErr *Error
		if errors.As(err, &ipcErr) {
			resp.Error = ipcErr
		} else {
			resp.Error = &Error{Code: CodeInternal, Message: err.Error()}
		}
		logger.Warn("[IPC] %s failed: %v", req.Method, err)
		return resp
	}

	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			resp.Error = &Error{Code: CodeInternal, Message: fmt.Sprintf("encode result: %v", err)}
			return resp
		}
		resp.Result = raw
	}
	return resp
}

// isLocalOrigin accepts non-browser clients and pages served from loopback.
func isLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
