package server

import (
	"bytes"
	"log/slog"
	"sync"
)

// lockedBuffer is a bytes.Buffer safe for the concurrent writes of an http.Server.
type lockedBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(b *lockedBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(b, nil))
}
