// Package ocr scans display frames for configured negative text patterns
// ("NO SIGNAL", input-source banners, and similar on-screen diagnostics).
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// minWordConfidence filters low-quality recognition results (0-100 scale).
const minWordConfidence = 30

// Result is one scan outcome.
type Result struct {
	Detected   bool    `json:"detected"`
	Text       string  `json:"text"`
	Pattern    string  `json:"pattern,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Scanner recognizes on-screen text and matches it against negative
// patterns. Not safe for concurrent use; the capture loop owns it.
type Scanner struct {
	client   *gosseract.Client
	patterns []string
}

// NewScanner creates a scanner for the given negative-text patterns.
func NewScanner(patterns []string) (*Scanner, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}

	return &Scanner{client: client, patterns: patterns}, nil
}

// Close releases the OCR client.
func (s *Scanner) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Scan runs OCR over a frame and reports any negative-pattern match.
func (s *Scanner) Scan(frame gocv.Mat) (Result, error) {
	if frame.Empty() {
		return Result{}, fmt.Errorf("empty frame")
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, frame)
	if err != nil {
		return Result{}, fmt.Errorf("encode frame for OCR: %w", err)
	}
	defer buf.Close()

	if err := s.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return Result{}, fmt.Errorf("set OCR image: %w", err)
	}

	boxes, err := s.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{}, fmt.Errorf("run OCR: %w", err)
	}

	var words []string
	var pattern string
	var maxConf float64
	for _, box := range boxes {
		if box.Confidence < minWordConfidence {
			continue
		}
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		words = append(words, word)
		if pattern == "" {
			pattern = s.matchPattern(word)
		}
		if box.Confidence > maxConf {
			maxConf = box.Confidence
		}
	}

	text := strings.Join(words, " ")
	if pattern == "" {
		// Patterns with spaces only match across word boundaries.
		pattern = s.matchPattern(text)
	}

	return Result{
		Detected:   pattern != "",
		Text:       text,
		Pattern:    pattern,
		Confidence: maxConf / 100,
	}, nil
}

// matchPattern returns the first negative pattern contained in the text,
// case-insensitively.
func (s *Scanner) matchPattern(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, p := range s.patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}
