package chat

import "io"

// Stopper is the sentence stopper that opens every generated text and that
// training appends after the last token.
const Stopper = "."

// Token is a single tokenized unit of text: either a lowercase word or one of
// the sentence stoppers ".", "!" and "?".
type Token struct {
	Text    string
	Stopper bool
}

// Tokenizer splits input text into tokens. It keeps training independent of
// the tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
}

// StreamTokenizer returns one token at a time from a stream.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}
