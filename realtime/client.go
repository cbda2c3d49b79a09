package realtime

import (
	"YouthHealth/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Handler receives every event of the connection, including the synthetic
// connect and disconnect events.
type Handler func(ctx context.Context, eventName string, payload json.RawMessage) error

// Options tunes the connection. Zero values fall back to defaults.
type Options struct {
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	// Transports lists the transports in negotiation order.
	Transports []string
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 500 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 10 * time.Second
	}
	if len(o.Transports) == 0 {
		o.Transports = []string{transportWebsocket, transportPolling}
	}
	return o
}

var dialers = map[string]dialFunc{
	transportWebsocket: dialWebsocket,
	transportPolling:   dialPolling,
}

// Client is a Socket.IO v4 client for the default namespace. It negotiates
// a transport, authenticates with a token and reconnects with exponential
// backoff until its context ends.
type Client struct {
	baseURL string
	token   string
	opts    Options
	logger  *logrus.Logger
}

func NewClient(baseURL, token string, opts Options, logger *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("realtime URL is required")
	}
	opts = opts.withDefaults()
	for _, name := range opts.Transports {
		if _, ok := dialers[name]; !ok {
			return nil, fmt.Errorf("unknown transport %q", name)
		}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{baseURL: baseURL, token: token, opts: opts, logger: logger}, nil
}

// Run keeps a connection open until ctx is done, delivering events to h.
func (c *Client) Run(ctx context.Context, h Handler) error {
	if h == nil {
		return errors.New("handler is required")
	}
	backoff := c.opts.InitialBackoff
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		connected, err := c.RunOnce(ctx, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = c.opts.InitialBackoff
		}

		c.logger.WithFields(logrus.Fields{
			"error":   err,
			"backoff": backoff,
		}).Warn("realtime connection lost, reconnecting")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if backoff < c.opts.MaxBackoff {
			backoff *= 2
			if backoff > c.opts.MaxBackoff {
				backoff = c.opts.MaxBackoff
			}
		}
	}
}

// RunOnce negotiates a transport and serves one session. connected reports
// whether the namespace connect was acknowledged before the session ended.
func (c *Client) RunOnce(ctx context.Context, h Handler) (connected bool, err error) {
	t, err := c.negotiate(ctx)
	if err != nil {
		return false, err
	}
	return c.serve(ctx, t, h)
}

func (c *Client) negotiate(ctx context.Context) (transport, error) {
	var errs []error
	for _, name := range c.opts.Transports {
		t, err := dialers[name](ctx, c.baseURL, c.token, c.opts)
		if err == nil {
			c.logger.WithField("transport", name).Debug("realtime transport established")
			return t, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WithFields(logrus.Fields{"transport": name, "error": err}).Debug("realtime transport failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, fmt.Errorf("no realtime transport available: %w", errors.Join(errs...))
}

func (c *Client) serve(ctx context.Context, t transport, h Handler) (connected bool, err error) {
	defer t.Close()

	// Unblock pending reads when ctx ends.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = t.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	defer func() {
		if !connected {
			return
		}
		reason := "transport close"
		if err != nil {
			reason = err.Error()
		}
		payload, _ := json.Marshal(map[string]string{"reason": reason})
		_ = h(context.WithoutCancel(ctx), models.EventDisconnect, payload)
	}()

	for {
		packets, err := t.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return connected, ctx.Err()
			}
			return connected, err
		}

		for _, p := range packets {
			if p == "" {
				continue
			}
			switch p[0] {
			case '0': // Engine.IO open
				if err := c.handleOpen(ctx, t, p[1:]); err != nil {
					return connected, err
				}
			case '1': // Engine.IO close
				return connected, errors.New("engine.io close")
			case '2': // ping
				if err := t.Write(ctx, "3"); err != nil {
					return connected, err
				}
			case '4': // Socket.IO message
				ack, err := c.handleMessage(ctx, p[1:], h)
				if ack {
					connected = true
				}
				if err != nil {
					return connected, err
				}
			default:
			}
		}
	}
}

func (c *Client) handleOpen(ctx context.Context, t transport, body string) error {
	var open engineIOOpen
	if err := json.Unmarshal([]byte(body), &open); err == nil && open.PingInterval > 0 {
		c.logger.WithFields(logrus.Fields{
			"sid":          open.SID,
			"pingInterval": open.PingInterval,
			"pingTimeout":  open.PingTimeout,
		}).Debug("engine.io session opened")
	}
	auth, _ := json.Marshal(map[string]string{"token": c.token})
	return t.Write(ctx, "40"+string(auth))
}

// handleMessage processes a Socket.IO packet (the leading Engine.IO '4'
// already stripped). ack is true for a namespace connect acknowledgement.
func (c *Client) handleMessage(ctx context.Context, s string, h Handler) (ack bool, err error) {
	if s == "" {
		return false, nil
	}
	switch s[0] {
	case '0': // CONNECT ack
		if err := h(ctx, models.EventConnect, json.RawMessage(strings.TrimPrefix(s, "0"))); err != nil {
			return true, err
		}
		return true, nil
	case '1': // DISCONNECT
		return false, errors.New("socket.io namespace disconnected")
	case '4': // CONNECT_ERROR
		return false, fmt.Errorf("socket.io connect error: %s", strings.TrimSpace(s[1:]))
	case '2': // EVENT
		name, payload, ok, err := decodeEventPayload([]byte(s[1:]))
		if err != nil {
			c.logger.WithError(err).Warn("dropping malformed realtime frame")
			return false, nil
		}
		if !ok {
			return false, nil
		}
		return false, h(ctx, name, payload)
	default:
		return false, nil
	}
}
