package events

import (
	"YouthHealth/realtime"
	"YouthHealth/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const sendBuffer = 64

// HubOptions configures the Socket.IO endpoint.
type HubOptions struct {
	PingInterval   time.Duration
	PingTimeout    time.Duration
	ConnectTimeout time.Duration
	AllowedOrigins []string
	// Roles allowed to subscribe. Empty allows any authenticated user.
	Roles []string
}

// Hub is a minimal Socket.IO v4 server for the default namespace over the
// websocket transport. Connected dashboards authenticate with a session
// token and receive every published event.
type Hub struct {
	tokens   *utils.TokenMaker
	opts     HubOptions
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*hubClient
	closed  bool

	connected prometheus.Gauge
	published *prometheus.CounterVec
	dropped   prometheus.Counter
}

type hubClient struct {
	sid    string
	userID string
	conn   *websocket.Conn
	send   chan string
	done   chan struct{}
	once   sync.Once
}

func (c *hubClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func NewHub(tokens *utils.TokenMaker, opts HubOptions, logger *logrus.Logger, reg prometheus.Registerer) *Hub {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 25 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 20 * time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	h := &Hub{
		tokens:  tokens,
		opts:    opts,
		logger:  logger,
		clients: make(map[string]*hubClient),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "youthhealth",
			Subsystem: "hub",
			Name:      "connected_clients",
			Help:      "Dashboards currently connected to the real-time hub.",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "hub",
			Name:      "events_published_total",
			Help:      "Events broadcast by the real-time hub, by event name.",
		}, []string{"event"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "hub",
			Name:      "slow_clients_dropped_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
	}
	h.upgrader = websocket.Upgrader{
		HandshakeTimeout: opts.ConnectTimeout,
		CheckOrigin:      h.checkOrigin,
	}
	if reg != nil {
		reg.MustRegister(h.connected, h.published, h.dropped)
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts the event to every connected dashboard.
func (h *Hub) Publish(_ context.Context, event string, payload interface{}) error {
	frame, err := realtime.EventFrame(event, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	return h.broadcast(event, frame)
}

// PublishRaw broadcasts an already encoded payload.
func (h *Hub) PublishRaw(event string, payload json.RawMessage) error {
	return h.Publish(context.Background(), event, payload)
}

func (h *Hub) broadcast(event, packet string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return errors.New("hub is closed")
	}
	for _, c := range h.clients {
		select {
		case c.send <- packet:
		default:
			h.dropped.Inc()
			h.logger.WithField("sid", c.sid).Warn("dropping slow realtime client")
			go c.close()
		}
	}
	h.published.WithLabelValues(event).Inc()
	return nil
}

// ServeHTTP upgrades Engine.IO websocket requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("EIO") != "4" {
		writeEngineError(w, http.StatusBadRequest, 5, "Unsupported protocol version")
		return
	}
	if q.Get("transport") != "websocket" {
		writeEngineError(w, http.StatusBadRequest, 0, "Transport unknown")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &hubClient{
		sid:  uuid.New().String(),
		conn: conn,
		send: make(chan string, sendBuffer),
		done: make(chan struct{}),
	}
	go h.serve(c, bearerToken(r.Header.Get("Authorization")))
}

func (h *Hub) serve(c *hubClient, headerToken string) {
	defer c.close()

	open, _ := json.Marshal(map[string]interface{}{
		"sid":          c.sid,
		"upgrades":     []string{},
		"pingInterval": h.opts.PingInterval.Milliseconds(),
		"pingTimeout":  h.opts.PingTimeout.Milliseconds(),
		"maxPayload":   1000000,
	})
	if err := h.write(c, "0"+string(open)); err != nil {
		return
	}

	userID, err := h.awaitConnect(c, headerToken)
	if err != nil {
		msg, _ := json.Marshal(map[string]string{"message": err.Error()})
		_ = h.write(c, "44"+string(msg))
		h.logger.WithFields(logrus.Fields{"sid": c.sid, "error": err}).Info("realtime connect rejected")
		return
	}
	c.userID = userID

	ack, _ := json.Marshal(map[string]string{"sid": c.sid})
	if err := h.write(c, "40"+string(ack)); err != nil {
		return
	}

	if !h.register(c) {
		return
	}
	defer h.unregister(c)

	go h.readLoop(c)
	h.writeLoop(c)
}

// awaitConnect reads the namespace CONNECT packet and authenticates it.
func (h *Hub) awaitConnect(c *hubClient, headerToken string) (string, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(h.opts.ConnectTimeout))
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("connect not received: %w", err)
		}
		packet := string(msg)
		if !strings.HasPrefix(packet, "40") {
			continue
		}

		token := headerToken
		if body := strings.TrimPrefix(packet, "40"); body != "" {
			var auth struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal([]byte(body), &auth); err == nil && auth.Token != "" {
				token = auth.Token
			}
		}
		if token == "" {
			return "", errors.New("unauthorized")
		}
		claims, err := h.tokens.Validate(token, h.opts.Roles...)
		if err != nil {
			return "", errors.New("unauthorized")
		}
		return claims.UserID, nil
	}
}

func (h *Hub) register(c *hubClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.sid] = c
	h.connected.Inc()
	h.logger.WithFields(logrus.Fields{"sid": c.sid, "userID": c.userID}).Info("realtime client connected")
	return true
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.sid]; ok {
		delete(h.clients, c.sid)
		h.connected.Dec()
		h.logger.WithField("sid", c.sid).Info("realtime client disconnected")
	}
}

func (h *Hub) readLoop(c *hubClient) {
	defer c.close()
	deadline := h.opts.PingInterval + h.opts.PingTimeout
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		switch packet := string(msg); {
		case packet == "3":
			_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
		case packet == "1", strings.HasPrefix(packet, "41"):
			return
		}
	}
}

func (h *Hub) writeLoop(c *hubClient) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case packet := <-c.send:
			if err := h.write(c, packet); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.write(c, "2"); err != nil {
				return
			}
		}
	}
}

func (h *Hub) write(c *hubClient, packet string) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(packet))
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	return nil
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func writeEngineError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": code, "message": message})
}
