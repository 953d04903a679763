package notifications

import (
	"fmt"
	"io"
	"sync"
)

// Presenter displays notifications to the local user, e.g. as desktop
// popups or terminal lines.
type Presenter interface {
	Supported() bool
	RequestPermission() bool
	Present(n Notification)
}

// WriterPresenter prints one line per notification event.
type WriterPresenter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterPresenter writes to out.
func NewWriterPresenter(out io.Writer) *WriterPresenter {
	return &WriterPresenter{out: out}
}

func (p *WriterPresenter) Supported() bool { return p != nil && p.out != nil }

// RequestPermission always grants; a terminal needs no consent.
func (p *WriterPresenter) RequestPermission() bool { return true }

func (p *WriterPresenter) Present(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "[%s] %s: %s (%s)\n",
		n.Timestamp.Local().Format("15:04:05"), n.Title, n.Message, n.Status)
}
