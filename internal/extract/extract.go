package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Sentinel errors for the extraction stage.
var (
	ErrUnsupportedFormat   = errors.New("unsupported document format")
	ErrInsufficientContent = errors.New("insufficient readable content")
	ErrCorruptDocument     = errors.New("corrupt or unreadable document")
)

// Supported MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePPT  = "application/vnd.ms-powerpoint"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// extractFunc converts a document byte stream into raw text. Each format is
// an independent strategy; a failure in one must not affect the others.
type extractFunc func(data []byte) (string, error)

// strategies maps declared MIME types to their extraction strategy.
var strategies = map[string]extractFunc{
	MimePDF:  extractPDF,
	MimeDOC:  extractLegacyWord,
	MimeDOCX: extractDOCX,
	MimePPT:  extractLegacyPowerPoint,
	MimePPTX: extractPPTX,
}

// extByMime resolves a strategy from the filename extension. Used as a
// fallback when the client declares a generic content type.
var extToMime = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
	".ppt":  MimePPT,
	".pptx": MimePPTX,
}

// Service dispatches document byte streams to format-specific strategies
// and normalizes the extracted text. All strategies operate on in-memory
// readers; no temporary file touches disk at any point.
type Service struct {
	minTextLength int
	log           zerolog.Logger
}

// NewService creates an extraction Service. minTextLength is the minimum
// cleaned-text length (runes) below which a document is rejected.
func NewService(minTextLength int, log zerolog.Logger) *Service {
	return &Service{
		minTextLength: minTextLength,
		log:           log.With().Str("component", "extract").Logger(),
	}
}

// Extract converts a document into normalized plain text.
// Returns ErrUnsupportedFormat when the declared type matches no strategy,
// ErrCorruptDocument when the matched strategy cannot read the bytes, and
// ErrInsufficientContent when the cleaned text is too short to be useful.
func (s *Service) Extract(data []byte, declaredType, filename string) (string, error) {
	mime := normalizeMime(declaredType, filename)

	strategy, ok := strategies[mime]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, declaredType)
	}

	raw, err := strategy(data)
	if err != nil {
		s.log.Debug().Err(err).Str("mime", mime).Str("file", filename).Msg("Extraction failed")
		return "", err
	}

	text := CleanText(raw)
	if len([]rune(text)) < s.minTextLength {
		return "", fmt.Errorf("%w: %d chars after cleanup (min %d)",
			ErrInsufficientContent, len([]rune(text)), s.minTextLength)
	}

	s.log.Debug().
		Str("mime", mime).
		Str("file", filename).
		Int("chars", len(text)).
		Msg("Text extracted")
	return text, nil
}

// normalizeMime resolves the effective MIME type, falling back to the file
// extension when the declared type is generic or absent.
func normalizeMime(declaredType, filename string) string {
	mime := strings.TrimSpace(strings.ToLower(declaredType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || mime == "application/octet-stream" {
		if m, ok := extToMime[strings.ToLower(filepath.Ext(filename))]; ok {
			return m
		}
	}
	return mime
}
