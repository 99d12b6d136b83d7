package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"moneytree/internal/log"
)

// Image uploads beyond this are rejected before recognition.
const maxImageBytes = 10 << 20

// handleScan accepts a multipart bill image, runs recognition, and
// returns the extracted amount. An empty amount with a 200 means the
// image was readable but no payable amount survived validation.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.scanTimeout)
	defer cancel()

	result, err := s.scanner.Scan(ctx, image, mimeType)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "recognition timed out")
			return
		}
		s.logger.ErrorContext(r.Context(), "scan failed",
			log.FieldError, err, "image_bytes", len(image))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount":   result.Amount,
		"detected": result.Detected(),
		"rawText":  result.RawText,
	})
}
