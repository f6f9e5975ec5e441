package out

import "context"

// FrameSource dials the backend push channel. The service owns redial
// policy; the source only knows how to establish one connection.
type FrameSource interface {
	Dial(ctx context.Context) (FrameConn, error)
}

// FrameConn is one established push connection. ReadFrame blocks until a
// frame arrives or the connection fails.
type FrameConn interface {
	ReadFrame() ([]byte, error)
	Close() error
}
