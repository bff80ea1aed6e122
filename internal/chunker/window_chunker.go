package chunker

import (
	"strings"

	"resumerag/internal/domain"
)

// WindowChunker splits text into fixed-size character windows with overlap,
// pulling each cut back to the last sentence terminator when one exists past
// the window's midpoint.
type WindowChunker struct {
	maxSize int
	overlap int
}

// NewWindowChunker validates the window settings and returns a chunker.
// overlap must be smaller than maxSize or the cursor could never advance.
func NewWindowChunker(maxSize, overlap int) (*WindowChunker, error) {
	if maxSize <= 0 {
		return nil, domain.ConfigurationError("chunk size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, domain.ConfigurationError("chunk overlap must be in [0, %d), got %d", maxSize, overlap)
	}
	return &WindowChunker{maxSize: maxSize, overlap: overlap}, nil
}

// Chunk splits text using the configured size and overlap.
func (c *WindowChunker) Chunk(text string) []string {
	return Split(text, c.maxSize, c.overlap)
}

// Split scans text left to right, emitting windows of at most maxSize
// characters. Every chunk is trimmed and empty chunks are dropped.
func Split(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = 0
	}
	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + maxSize
		if end > n {
			end = n
		}
		window := runes[start:end]
		if end < n {
			if cut := lastPeriod(window); cut > maxSize/2 {
				window = window[:cut+1]
				end = start + cut + 1
			}
		}
		if chunk := strings.TrimSpace(string(window)); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			break
		}
		next := end - overlap
		// a sentence cut can pull end back far enough that overlap would rewind the cursor
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func lastPeriod(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' {
			return i
		}
	}
	return -1
}
