package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/finchapp/finch/internal/common"
)

// Content types accepted for receipt uploads, keyed to the stored file
// extension. The type is sniffed from the bytes, never trusted from the
// client's filename or Content-Type header.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type uploadResponse struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	TextPreview string `json:"textPreview,omitempty"`
}

// handleUpload handles POST /api/upload (multipart, field "file").
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	maxSize := s.app.Config.Upload.MaxSizeBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+4096)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("file exceeds the %dMB limit", maxSize>>20))
		return
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		s.logger.Error().Err(err).Msg("Upload read failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	contentType := http.DetectContentType(head[:n])
	// DetectContentType can append a charset suffix.
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}

	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		WriteError(w, http.StatusBadRequest,
			"unsupported file type; accepted: JPEG, PNG, GIF, WebP, PDF")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.logger.Error().Err(err).Msg("Upload seek failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := os.MkdirAll(s.app.Config.Upload.Dir, 0755); err != nil {
		s.logger.Error().Err(err).Msg("Upload directory creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	destPath := filepath.Join(s.app.Config.Upload.Dir, filename)

	dest, err := os.Create(destPath)
	if err != nil {
		s.logger.Error().Err(err).Msg("Upload file creation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer dest.Close()

	size, err := io.Copy(dest, file)
	if err != nil {
		os.Remove(destPath)
		s.logger.Error().Err(err).Msg("Upload write failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := uploadResponse{
		URL:         s.app.Config.Upload.PublicPath + "/" + filename,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}

	if contentType == "application/pdf" {
		if text, err := extractPDFText(destPath); err == nil && text != "" {
			resp.TextPreview = text
		} else if err != nil {
			s.logger.Debug().Err(err).Msg("PDF text extraction failed")
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("filename", filename).
		Int64("size", size).
		Str("content_type", contentType).
		Msg("Receipt uploaded")

	WriteJSON(w, http.StatusCreated, resp)
}

const maxTextPreview = 1000

// extractPDFText pulls plain text from a PDF receipt so it can feed the
// AI categorization, truncated to a preview length.
func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		if sb.Len() > maxTextPreview {
			break
		}
	}

	return truncateUTF8(strings.TrimSpace(sb.String()), maxTextPreview), nil
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
