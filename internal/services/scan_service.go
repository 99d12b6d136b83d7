package services

import (
	"context"
	"errors"

	"moneytree/internal/log"
	"moneytree/internal/ocr"
	"moneytree/internal/scan"
)

// ErrEmptyImage is returned when the scan request carries no image data.
var ErrEmptyImage = errors.New("empty image")

// ScanService runs a bill image through text recognition and the amount
// extraction cascade. Recognition blocks the calling request; the engine
// itself is initialized lazily on first use.
type ScanService struct {
	manager   *ocr.Manager
	templates []scan.Template
	logger    *log.Logger
}

func NewScanService(manager *ocr.Manager, logger *log.Logger) *ScanService {
	return &ScanService{
		manager:   manager,
		templates: scan.Templates(),
		logger:    logger.WithComponent(log.ComponentScan),
	}
}

// Scan recognizes text in the image and extracts a payable amount. A
// result with an empty Amount means recognition worked but no candidate
// survived validation; recognition failures return ocr.ErrRecognition.
func (s *ScanService) Scan(ctx context.Context, image []byte, mimeType string) (scan.Result, error) {
	if len(image) == 0 {
		return scan.Result{}, ErrEmptyImage
	}

	text, err := s.manager.Recognize(ctx, image, mimeType)
	if err != nil {
		return scan.Result{}, err
	}

	result := scan.Result{
		Amount:  scan.ExtractAmount(text, s.templates),
		RawText: text,
	}
	if result.Detected() {
		s.logger.InfoContext(ctx, "amount extracted",
			log.FieldOperation, log.OpScan, "amount", result.Amount)
	} else {
		s.logger.InfoContext(ctx, "no amount detected",
			log.FieldOperation, log.OpScan, "text_len", len(text))
	}
	return result, nil
}

// Shutdown releases the recognition engine. Safe to call more than once.
func (s *ScanService) Shutdown() error {
	return s.manager.Terminate()
}
