package delivery

import (
	"context"
	"sync"
)

// NotifierFunc adapts a plain function to the Notifier interface
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// NotifierSwitch forwards notices to whichever front end is active.
// The CLI and the TUI install their own notifier after the app is built.
type NotifierSwitch struct {
	mu      sync.RWMutex
	current Notifier
}

func NewNotifierSwitch() *NotifierSwitch {
	return &NotifierSwitch{}
}

// Set replaces the target notifier. A nil target drops notices.
func (s *NotifierSwitch) Set(n Notifier) {
	s.mu.Lock()
	s.current = n
	s.mu.Unlock()
}

func (s *NotifierSwitch) Notify(ctx context.Context, n Notice) {
	s.mu.RLock()
	target := s.current
	s.mu.RUnlock()
	if target != nil {
		target.Notify(ctx, n)
	}
}
