// Package theme holds the console's light/dark preference.
package theme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"credit-console/internal/common/logger"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used when nothing valid has been persisted.
const Default = Light

func Parse(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark is the global visual flag derived from the theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// Applier receives every applied theme.
type Applier func(Theme)

// State is one browser's theme. The stored value always equals the applied one.
type State struct {
	mu      sync.Mutex
	current Theme
	store   Store
	apply   Applier
	logger  logger.Logger
}

type Option func(*State)

func WithApplier(fn Applier) Option {
	return func(s *State) { s.apply = fn }
}

// NewState reads the initial theme from store, falling back to Default.
func NewState(ctx context.Context, store Store, log logger.Logger, opts ...Option) *State {
	s := &State{
		current: Default,
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "theme"}),
	}
	for _, opt := range opts {
		opt(s)
	}

	saved, err := store.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn("failed to read saved theme, using default", map[string]interface{}{
			"error": err.Error(),
		})
	case saved != "":
		if t, perr := Parse(string(saved)); perr == nil {
			s.current = t
		} else {
			s.logger.Warn("ignoring invalid saved theme", map[string]interface{}{"value": saved})
		}
	}

	if s.apply != nil {
		s.apply(s.current)
	}
	return s
}

func (s *State) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set persists then applies t. On a store failure nothing changes.
func (s *State) Set(ctx context.Context, t Theme) (Theme, error) {
	if _, err := Parse(string(t)); err != nil {
		return s.Current(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, t)
}

// Toggle flips light and dark.
func (s *State) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, s.current.Other())
}

func (s *State) setLocked(ctx context.Context, t Theme) (Theme, error) {
	if err := s.store.Save(ctx, t); err != nil {
		s.logger.Error("failed to persist theme", map[string]interface{}{
			"theme": t,
			"error": err.Error(),
		})
		return s.current, fmt.Errorf("persist theme: %w", err)
	}
	s.current = t
	if s.apply != nil {
		s.apply(t)
	}
	s.logger.Debug("theme applied", map[string]interface{}{"theme": t})
	return t, nil
}
