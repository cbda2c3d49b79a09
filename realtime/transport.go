package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// transport moves Engine.IO packets over one underlying connection.
type transport interface {
	Name() string
	// Read blocks until at least one packet arrives.
	Read(ctx context.Context) ([]string, error)
	Write(ctx context.Context, packet string) error
	Close() error
}

type dialFunc func(ctx context.Context, baseURL, token string, opts Options) (transport, error)

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

type websocketTransport struct {
	conn    *websocket.Conn
	opts    Options
	writeMu sync.Mutex
	once    sync.Once
}

func dialWebsocket(ctx context.Context, baseURL, token string, opts Options) (transport, error) {
	wsURL, err := endpointURL(baseURL, transportWebsocket)
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, authHeader(token))
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return &websocketTransport{conn: conn, opts: opts}, nil
}

func (t *websocketTransport) Name() string { return transportWebsocket }

func (t *websocketTransport) Read(ctx context.Context) ([]string, error) {
	_ = t.conn.SetReadDeadline(time.Now().Add(t.opts.ReadTimeout))
	_, msg, err := t.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return splitFrames(msg), nil
}

func (t *websocketTransport) Write(_ context.Context, packet string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.opts.WriteTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, []byte(packet))
}

func (t *websocketTransport) Close() error {
	var err error
	t.once.Do(func() {
		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"), time.Now().Add(2*time.Second))
		t.writeMu.Unlock()
		err = t.conn.Close()
	})
	return err
}

// pollingTransport implements Engine.IO HTTP long-polling.
type pollingTransport struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.Mutex
	pending []string
	closed  chan struct{}
	once    sync.Once
}

func dialPolling(ctx context.Context, baseURL, token string, opts Options) (transport, error) {
	endpoint, err := endpointURL(baseURL, transportPolling)
	if err != nil {
		return nil, err
	}
	t := &pollingTransport{
		token:  token,
		client: &http.Client{Timeout: opts.ReadTimeout},
		closed: make(chan struct{}),
	}

	handshakeCtx, cancel := context.WithTimeout(ctx, opts.HandshakeTimeout)
	defer cancel()
	packets, err := t.get(handshakeCtx, endpoint)
	if err != nil {
		return nil, err
	}
	if len(packets) == 0 || !strings.HasPrefix(packets[0], "0") {
		return nil, errors.New("polling handshake: missing open packet")
	}
	var open engineIOOpen
	if err := json.Unmarshal([]byte(packets[0][1:]), &open); err != nil {
		return nil, fmt.Errorf("polling handshake: %w", err)
	}
	if open.SID == "" {
		return nil, errors.New("polling handshake: empty sid")
	}

	u, _ := url.Parse(endpoint)
	q := u.Query()
	q.Set("sid", open.SID)
	u.RawQuery = q.Encode()
	t.endpoint = u.String()
	t.pending = packets
	return t, nil
}

func (t *pollingTransport) Name() string { return transportPolling }

func (t *pollingTransport) Read(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	if len(t.pending) > 0 {
		out := t.pending
		t.pending = nil
		t.mu.Unlock()
		return out, nil
	}
	t.mu.Unlock()

	for {
		select {
		case <-t.closed:
			return nil, errors.New("polling transport closed")
		default:
		}
		packets, err := t.get(ctx, t.endpoint)
		if err != nil {
			return nil, err
		}
		if len(packets) > 0 {
			return packets, nil
		}
	}
}

func (t *pollingTransport) get(ctx context.Context, endpoint string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header = authHeader(t.token)
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polling GET failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return splitFrames(body), nil
}

func (t *pollingTransport) Write(ctx context.Context, packet string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(packet))
	if err != nil {
		return err
	}
	req.Header = authHeader(t.token)
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("polling POST failed with status %d", resp.StatusCode)
	}
	return nil
}

func (t *pollingTransport) Close() error {
	t.once.Do(func() {
		close(t.closed)
		// Best effort: tell the server the session is over.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = t.Write(ctx, "1")
	})
	return nil
}
