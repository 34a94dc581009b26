package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/export"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/session"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 16
)

// ErrStopped is returned to requests that arrive after the loop exited.
var ErrStopped = errors.New("live server stopped")

// Message is an event sent by a browser client.
type Message struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Frame is what the server pushes to every client after each change.
type Frame struct {
	Type string       `json:"type"`
	View session.View `json:"view"`
	Text string       `json:"text"`
}

// Options configures a live server.
type Options struct {
	// Source is the watched input file; empty disables watching.
	Source   string
	Title    string
	Dark     bool
	Debounce time.Duration
}

// Server pushes one session to any number of browser clients. The session
// is only touched by the goroutine running Run; everything else posts work
// to it through the inbox.
type Server struct {
	opts     Options
	sess     *session.Session
	upgrader websocket.Upgrader

	clients map[*client]bool
	mu      sync.RWMutex

	inbox chan func()
	done  chan struct{}
	once  sync.Once
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New wraps sess. Run must be running before the handler serves requests.
func New(sess *session.Session, opts Options) *Server {
	if opts.Title == "" {
		opts.Title = "graphlens"
	}
	return &Server{
		opts: opts,
		sess: sess,
		upgrader: websocket.Upgrader{
			CheckOrigin:     sameHost,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]bool),
		inbox:   make(chan func(), 64),
		done:    make(chan struct{}),
	}
}

// sameHost accepts requests without an Origin header and those whose
// Origin matches the requested host.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// Handler returns the HTTP routes: the page, the websocket and a JSON view.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/view", s.handleView)
	return mux
}

// ListenAndServe runs the event loop and an HTTP server on addr until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(gctx) })
	g.Go(func() error {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// post queues fn for the loop goroutine.
func (s *Server) post(fn func()) error {
	select {
	case s.inbox <- fn:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// do runs fn on the loop goroutine and waits for it.
func (s *Server) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := s.post(func() { fn(); close(finished) }); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrStopped
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var page string
	err := s.do(r.Context(), func() {
		page = export.HTML(s.sess.View(), export.PageOptions{
			Title: s.opts.Title,
			Dark:  s.opts.Dark,
			Live:  true,
			Text:  s.sess.Text(),
		})
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var data []byte
	if err := s.do(r.Context(), func() { data = s.frame() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	log.Printf("[live] client connected (%d total)", s.ClientCount())

	go c.writer()
	s.post(func() { s.deliver(c, s.frame()) })

	defer s.remove(c)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] unexpected close: %v", err)
			}
			return
		}
		if err := s.post(func() { s.apply(msg) }); err != nil {
			return
		}
	}
}

// ClientCount reports connected browsers.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// apply runs one client event against the session and broadcasts the
// result. Rejected events still broadcast so the sender resyncs.
func (s *Server) apply(msg Message) {
	if err := s.dispatch(msg); err != nil && !errors.Is(err, graph.ErrParse) {
		log.Printf("[live] %s: %v", msg.Type, err)
	}
	s.broadcast()
}

func (s *Server) dispatch(msg Message) error {
	switch msg.Type {
	case "tapNode":
		return s.sess.TapNode(graph.NodeID(msg.ID))
	case "tapBackground":
		s.sess.TapBackground()
	case "hoverEdge":
		return s.sess.HoverEdge(msg.ID)
	case "unhoverEdge":
		s.sess.UnhoverEdge()
	case "setMode":
		m, err := display.ParseMode(msg.Value)
		if err != nil {
			return err
		}
		return s.sess.SetMode(m)
	case "setFilter":
		f, err := interact.ParseFilter(msg.Value)
		if err != nil {
			return err
		}
		s.sess.SetFilter(f)
	case "edit":
		return s.sess.Edit(msg.Text)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Server) frame() []byte {
	data, err := json.Marshal(Frame{Type: "view", View: s.sess.View(), Text: s.sess.Text()})
	if err != nil {
		log.Printf("[live] encoding view: %v", err)
		return nil
	}
	return data
}

func (s *Server) broadcast() {
	data := s.frame()
	if data == nil {
		return
	}

	var slow []*client
	s.mu.RLock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range slow {
		log.Printf("[live] dropping slow client")
		s.remove(c)
	}
}

func (s *Server) deliver(c *client, data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.clients[c] || data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// remove unregisters c and closes its send channel exactly once.
func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// writer drains the send channel and keeps the connection alive.
func (c *client) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
