package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CTAG07/chatter/pkg/gram"
)

// generateOptions is used by the generate functions to configure default options.
type generateOptions struct {
	lineWidth int
	lineCount int
}

// GenerateOption is a function that configures generation parameters. It's
// used as a variadic argument in Generate, GenerateString and GenerateStream.
type GenerateOption func(*generateOptions)

// WithLineWidth sets the width a line grows to before it is broken. A line
// may exceed it by the word that closes it. Values below 1 are ignored.
func WithLineWidth(n int) GenerateOption {
	return func(o *generateOptions) {
		if n > 0 {
			o.lineWidth = n
		}
	}
}

// WithLineCount sets the maximum number of lines to generate. Values below 1
// are ignored.
func WithLineCount(n int) GenerateOption {
	return func(o *generateOptions) {
		if n > 0 {
			o.lineCount = n
		}
	}
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		lineWidth: 60,
		lineCount: 20,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate walks the model and writes the generated text to w, one line
// break per completed line. It fails if the model has never been trained.
func (c *Chatter) Generate(ctx context.Context, w io.Writer, opts ...GenerateOption) error {
	if c.closed {
		return ErrClosed
	}
	return c.generate(ctx, newGenerateOptions(opts), func(piece string) error {
		_, err := io.WriteString(w, piece)
		return err
	})
}

// GenerateString is a convenience wrapper around Generate that returns the
// generated text.
func (c *Chatter) GenerateString(ctx context.Context, opts ...GenerateOption) (string, error) {
	var builder strings.Builder
	if err := c.Generate(ctx, &builder, opts...); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// glued reports whether word is written directly after the previous output
// with no separating space. Only these words can end generation early.
func glued(word string) bool {
	return word == "." || word == "!" || word == ","
}

// generate contains the main loop. It hands every piece of output (a spaced
// word, a glued stopper or a line break) to emit.
func (c *Chatter) generate(ctx context.Context, options *generateOptions, emit func(string) error) error {
	first, err := c.dict.Get(c.rng, Stopper)
	if err != nil {
		return fmt.Errorf("could not pick an opening word: %w", err)
	}
	second, err := c.dict.GetPair(c.rng, Stopper, first)
	if err != nil {
		return fmt.Errorf("could not pick a second word: %w", err)
	}

	for line := 0; line < options.lineCount; line++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		lastLine := line == options.lineCount-1

		width := 0
		for {
			width += len(first)
			if glued(first) {
				if err = emit(first); err != nil {
					return err
				}
				if lastLine {
					c.logger.DebugContext(ctx, "Generation terminated by stopper",
						slog.Int("lines", line+1),
					)
					return emit("\n")
				}
			} else {
				if err = emit(" " + first); err != nil {
					return err
				}
				width++
			}

			var next string
			if next, err = c.follow(ctx, first, second); err != nil {
				return err
			}
			first, second = second, next

			if width+len(first) >= options.lineWidth {
				break
			}
		}

		if !lastLine {
			if err = emit("\n"); err != nil {
				return err
			}
		}
	}

	c.logger.DebugContext(ctx, "Generation terminated by reaching line count",
		slog.Int("lines", options.lineCount),
		slog.Int("line_width", options.lineWidth),
	)
	return emit(".\n")
}

// follow draws the word after the pair (first, second). The only pair a walk
// can reach without a recorded follower is "<last trained token> .", created
// by the stopper Train appends; from there the walk starts a new sentence.
func (c *Chatter) follow(ctx context.Context, first, second string) (string, error) {
	next, err := c.dict.GetPair(c.rng, first, second)
	if err == nil || !errors.Is(err, gram.ErrKeyNotFound) {
		return next, err
	}
	c.logger.DebugContext(ctx, "Pair has no followers, restarting sentence",
		slog.String("pair", gram.JoinKey(first, second)),
	)
	next, err = c.dict.Get(c.rng, Stopper)
	if err != nil {
		return "", fmt.Errorf("could not restart after %q %q: %w", first, second, err)
	}
	return next, nil
}
