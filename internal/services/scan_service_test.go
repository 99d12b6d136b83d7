package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytree/internal/log"
	"moneytree/internal/ocr"
)

type stubEngine struct {
	text string
	err  error
}

func (e *stubEngine) Recognize(context.Context, []byte, string) (string, error) {
	return e.text, e.err
}

func (e *stubEngine) Close() error { return nil }

func newScanService(engine *stubEngine) *ScanService {
	manager := ocr.NewManager(func(context.Context) (ocr.Engine, error) {
		return engine, nil
	})
	return NewScanService(manager, log.New(log.DefaultConfig()))
}

func TestScanExtractsAmount(t *testing.T) {
	svc := newScanService(&stubEngine{text: "Supermarkt Berlin\nGESAMT 45.90 EUR\nDanke"})

	result, err := svc.Scan(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, result.Detected())
	assert.Equal(t, "45.90", result.Amount)
	assert.Contains(t, result.RawText, "GESAMT")
}

func TestScanNoCandidateIsNotAnError(t *testing.T) {
	svc := newScanService(&stubEngine{text: "Danke fuer Ihren Einkauf"})

	result, err := svc.Scan(context.Background(), []byte{0x01}, "image/png")
	require.NoError(t, err)
	assert.False(t, result.Detected())
	assert.Empty(t, result.Amount)
	assert.Equal(t, "Danke fuer Ihren Einkauf", result.RawText)
}

func TestScanRejectsEmptyImage(t *testing.T) {
	svc := newScanService(&stubEngine{text: "irrelevant"})
	_, err := svc.Scan(context.Background(), nil, "image/jpeg")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestScanWrapsEngineFailure(t *testing.T) {
	svc := newScanService(&stubEngine{err: errors.New("model crashed")})
	_, err := svc.Scan(context.Background(), []byte{0x01}, "image/jpeg")
	assert.ErrorIs(t, err, ocr.ErrRecognition)
}

func TestShutdownIsIdempotent(t *testing.T) {
	svc := newScanService(&stubEngine{text: "GESAMT 10.00"})
	_, err := svc.Scan(context.Background(), []byte{0x01}, "image/jpeg")
	require.NoError(t, err)

	assert.NoError(t, svc.Shutdown())
	assert.NoError(t, svc.Shutdown())
}
