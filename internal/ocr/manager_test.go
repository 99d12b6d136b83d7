package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeEngine struct {
	text      string
	err       error
	closed    atomic.Int32
	recognize atomic.Int32
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	f.recognize.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeEngine) Close() error {
	f.closed.Add(1)
	return nil
}

func TestManagerMemoizesInit(t *testing.T) {
	var inits atomic.Int32
	eng := &fakeEngine{text: "TOTAL 45.90"}
	m := NewManager(func(ctx context.Context) (Engine, error) {
		inits.Add(1)
		return eng, nil
	})

	for i := 0; i < 3; i++ {
		text, err := m.Recognize(context.Background(), []byte{1}, "image/png")
		if err != nil {
			t.Fatalf("recognize: %v", err)
		}
		if text != "TOTAL 45.90" {
			t.Fatalf("text = %q", text)
		}
	}
	if got := inits.Load(); got != 1 {
		t.Fatalf("factory called %d times, want 1", got)
	}
}

func TestManagerConcurrentFirstUse(t *testing.T) {
	var inits atomic.Int32
	m := NewManager(func(ctx context.Context) (Engine, error) {
		inits.Add(1)
		return &fakeEngine{text: "ok"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Recognize(context.Background(), []byte{1}, ""); err != nil {
				t.Errorf("recognize: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inits.Load(); got != 1 {
		t.Fatalf("factory called %d times, want 1", got)
	}
}

func TestManagerTerminateIdempotentAndReinit(t *testing.T) {
	var inits atomic.Int32
	var engines []*fakeEngine
	m := NewManager(func(ctx context.Context) (Engine, error) {
		inits.Add(1)
		e := &fakeEngine{text: "ok"}
		engines = append(engines, e)
		return e, nil
	})

	// Terminate before any init is a no-op.
	if err := m.Terminate(); err != nil {
		t.Fatalf("terminate before init: %v", err)
	}

	if _, err := m.Recognize(context.Background(), []byte{1}, ""); err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if err := m.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if err := m.Terminate(); err != nil {
		t.Fatalf("second terminate: %v", err)
	}
	if engines[0].closed.Load() != 1 {
		t.Fatalf("engine closed %d times, want 1", engines[0].closed.Load())
	}

	// Next use re-creates the engine.
	if _, err := m.Recognize(context.Background(), []byte{1}, ""); err != nil {
		t.Fatalf("recognize after terminate: %v", err)
	}
	if got := inits.Load(); got != 2 {
		t.Fatalf("factory called %d times, want 2", got)
	}
}

func TestManagerWrapsFailuresAsRecognitionErrors(t *testing.T) {
	m := NewManager(func(ctx context.Context) (Engine, error) {
		return nil, errors.New("model download failed")
	})
	if _, err := m.Recognize(context.Background(), []byte{1}, ""); !errors.Is(err, ErrRecognition) {
		t.Fatalf("init failure not marked as recognition error: %v", err)
	}

	m = NewManager(func(ctx context.Context) (Engine, error) {
		return &fakeEngine{err: errors.New("blurry image")}, nil
	})
	if _, err := m.Recognize(context.Background(), []byte{1}, ""); !errors.Is(err, ErrRecognition) {
		t.Fatalf("engine failure not marked as recognition error: %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"```\nTOTAL 9.99\n```", "TOTAL 9.99"},
		{"```text\nline one\nline two\n```", "line one\nline two"},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
