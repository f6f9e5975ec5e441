package out

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	liveout "attune/internal/modules/live/port/out"
)

const dialTimeout = 5 * time.Second

// WebsocketSource dials the backend's /ws endpoint. Redial policy lives in
// the channel service; this adapter only establishes single connections.
type WebsocketSource struct {
	url    string
	dialer *websocket.Dialer
}

func NewWebsocketSource(url string) *WebsocketSource {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = dialTimeout
	return &WebsocketSource{url: url, dialer: &dialer}
}

func (s *WebsocketSource) Dial(ctx context.Context) (liveout.FrameConn, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadFrame() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
