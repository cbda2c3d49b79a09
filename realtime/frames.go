package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	transportWebsocket = "websocket"
	transportPolling   = "polling"

	recordSeparator = 0x1e
)

// engineIOOpen is the body of the Engine.IO open packet.
type engineIOOpen struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
}

// endpointURL builds the Engine.IO v4 endpoint for baseURL and transport.
func endpointURL(baseURL, transport string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", err
	}

	scheme := strings.ToLower(u.Scheme)
	switch transport {
	case transportWebsocket:
		switch scheme {
		case "http", "ws":
			u.Scheme = "ws"
		case "https", "wss":
			u.Scheme = "wss"
		default:
			return "", fmt.Errorf("invalid realtime URL scheme: %q", u.Scheme)
		}
	case transportPolling:
		switch scheme {
		case "http", "ws":
			u.Scheme = "http"
		case "https", "wss":
			u.Scheme = "https"
		default:
			return "", fmt.Errorf("invalid realtime URL scheme: %q", u.Scheme)
		}
	default:
		return "", fmt.Errorf("unknown transport %q", transport)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", transport)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// splitFrames splits a payload carrying several packets joined by 0x1e.
func splitFrames(msg []byte) []string {
	if bytes.IndexByte(msg, recordSeparator) < 0 {
		if len(msg) == 0 {
			return nil
		}
		return []string{string(msg)}
	}
	parts := bytes.Split(msg, []byte{recordSeparator})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		out = append(out, string(p))
	}
	return out
}

// EventFrame encodes a Socket.IO EVENT packet in the default namespace.
func EventFrame(event string, payload interface{}) (string, error) {
	frame, err := json.Marshal([]interface{}{event, payload})
	if err != nil {
		return "", err
	}
	return "42" + string(frame), nil
}

func decodeEventPayload(raw []byte) (eventName string, payload json.RawMessage, ok bool, err error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return "", nil, false, err
	}
	if len(arr) == 0 {
		return "", nil, false, nil
	}
	if err := json.Unmarshal(arr[0], &eventName); err != nil {
		return "", nil, false, err
	}
	if strings.TrimSpace(eventName) == "" {
		return "", nil, false, nil
	}
	if len(arr) < 2 {
		return eventName, nil, true, nil
	}
	return eventName, arr[1], true, nil
}
