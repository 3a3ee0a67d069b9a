package chat

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It lowercases ASCII letters, keeps runs of letters and apostrophes as
// words, emits each of ".", "!" and "?" as its own stopper token and treats
// every other character as a separator. Its behavior can be customized with
// TokenizerOption functions.
type DefaultTokenizer struct {
	tokenRegex   *regexp.Regexp
	stopperRegex *regexp.Regexp
	maxLineSize  int
}

// TokenizerOption configures a DefaultTokenizer.
type TokenizerOption func(*DefaultTokenizer)

// WithTokenRegex sets the regex used to pull tokens out of a lowercased line.
// Default: `[a-z']+|[.!?]`
func WithTokenRegex(tokenRegex string) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.tokenRegex = regexp.MustCompile(tokenRegex)
	}
}

// WithStopperRegex sets the regex that decides whether a token is a stopper.
// Default: `^[.!?]$`
func WithStopperRegex(stopperRegex string) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.stopperRegex = regexp.MustCompile(stopperRegex)
	}
}

// WithMaxLineSize sets the length, in bytes, past which a line is cut at its
// last space or tab and read as two lines. A word longer than n is cut after
// n bytes. Default: 1MB
func WithMaxLineSize(n int) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.maxLineSize = n
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can
// be overridden by providing one or more TokenizerOption functions.
func NewDefaultTokenizer(opts ...TokenizerOption) *DefaultTokenizer {
	t := &DefaultTokenizer{
		tokenRegex:   regexp.MustCompile(`[a-z']+|[.!?]`),
		stopperRegex: regexp.MustCompile(`^[.!?]$`),
		maxLineSize:  1 << 20,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewStream returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	// The scanner honours the larger of the buffer capacity and the limit.
	initial := 64 * 1024
	if t.maxLineSize < initial {
		initial = t.maxLineSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), t.maxLineSize)
	scanner.Split(splitLines(t.maxLineSize))
	return &DefaultStreamTokenizer{
		scanner:      scanner,
		tokenRegex:   t.tokenRegex,
		stopperRegex: t.stopperRegex,
	}
}

// splitLines is bufio.ScanLines for a scanner whose buffer holds limit bytes.
// When the buffer fills without a line break, it hands out the text up to the
// last space or tab instead of failing with bufio.ErrTooLong.
func splitLines(limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance > 0 || token != nil || err != nil || len(data) < limit {
			return advance, token, err
		}
		if i := bytes.LastIndexAny(data[:limit], " \t"); i >= 0 {
			return i + 1, data[:i], nil
		}
		return limit, data[:limit], nil
	}
}

// DefaultStreamTokenizer reads its input line by line, so a line break always
// ends a word.
type DefaultStreamTokenizer struct {
	scanner      *bufio.Scanner
	buffer       []string
	tokenRegex   *regexp.Regexp
	stopperRegex *regexp.Regexp
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns a nil Token and io.EOF. Any other error indicates a problem
// reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for len(s.buffer) == 0 {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.buffer = s.tokenRegex.FindAllString(lowerASCII(s.scanner.Text()), -1)
	}

	word := s.buffer[0]
	s.buffer = s.buffer[1:]

	return &Token{Text: word, Stopper: s.stopperRegex.MatchString(word)}, nil
}

// lowerASCII lowercases A-Z only, leaving every other byte for the token
// regex to discard.
func lowerASCII(line string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, line)
}
