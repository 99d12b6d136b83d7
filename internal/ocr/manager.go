package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"moneytree/internal/log"
)

// Manager owns the engine lifecycle: the engine is created lazily on
// first use, memoized for the process lifetime, and released by
// Terminate. Terminate is idempotent and safe before any init; the next
// use after it re-creates the engine.
type Manager struct {
	factory Factory

	mu     sync.Mutex
	engine Engine

	// Collapses concurrent first-use initializations into one factory
	// call; model loading is too expensive to race.
	initGroup singleflight.Group
}

func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory}
}

// acquire returns the memoized engine, initializing it if needed.
func (m *Manager) acquire(ctx context.Context) (Engine, error) {
	m.mu.Lock()
	if m.engine != nil {
		eng := m.engine
		m.mu.Unlock()
		return eng, nil
	}
	m.mu.Unlock()

	v, err, _ := m.initGroup.Do("init", func() (any, error) {
		m.mu.Lock()
		if m.engine != nil {
			eng := m.engine
			m.mu.Unlock()
			return eng, nil
		}
		m.mu.Unlock()

		eng, err := m.factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: initialize engine: %v", ErrRecognition, err)
		}

		m.mu.Lock()
		m.engine = eng
		m.mu.Unlock()

		slog.InfoContext(ctx, "Recognition engine initialized", log.FieldComponent, log.ComponentOCR)
		return eng, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Engine), nil
}

// Recognize runs text recognition through the managed engine. Failures
// carry ErrRecognition so callers can distinguish them from a successful
// scan with no detected amount.
func (m *Manager) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	eng, err := m.acquire(ctx)
	if err != nil {
		return "", err
	}
	text, err := eng.Recognize(ctx, image, mimeType)
	if err != nil {
		if errors.Is(err, ErrRecognition) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	return text, nil
}

// Terminate releases the engine's resources. A no-op when nothing was
// initialized; the manager stays usable and will lazily re-create the
// engine on next use.
func (m *Manager) Terminate() error {
	m.mu.Lock()
	eng := m.engine
	m.engine = nil
	m.mu.Unlock()

	if eng == nil {
		return nil
	}
	if err := eng.Close(); err != nil {
		return fmt.Errorf("close recognition engine: %w", err)
	}
	slog.Info("Recognition engine terminated", log.FieldComponent, log.ComponentOCR)
	return nil
}
