// Package textsource loads analysis input from files and streams.
package textsource

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars caps collected text.
const DefaultMaxChars = 8000

// minPieceChars drops stray one-character fragments.
const minPieceChars = 2

// LoadFile reads path and collects its lines with Collect.
func LoadFile(path string, maxChars int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return Read(file, maxChars)
}

// Read collects lines from r with Collect.
func Read(r io.Reader, maxChars int) (string, error) {
	var pieces []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		pieces = append(pieces, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return Collect(pieces, maxChars), nil
}

// Collect normalizes each piece's whitespace and joins pieces with single spaces.
// Pieces shorter than two characters are skipped. Collection stops at the first
// piece that would push the result past maxChars; maxChars <= 0 means no cap.
func Collect(pieces []string, maxChars int) string {
	var b strings.Builder
	length := 0
	for _, raw := range pieces {
		piece := Normalize(raw)
		n := utf8.RuneCountInString(piece)
		if n < minPieceChars {
			continue
		}
		sep := 0
		if length > 0 {
			sep = 1
		}
		if maxChars > 0 && length+n+sep > maxChars {
			break
		}
		if sep == 1 {
			b.WriteByte(' ')
		}
		b.WriteString(piece)
		length += n + sep
	}
	return b.String()
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
