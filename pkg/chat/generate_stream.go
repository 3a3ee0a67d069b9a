package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CTAG07/chatter/pkg/gram"
)

// GenerateStream walks the model in the background and returns a read-only
// channel of completed lines, without their line breaks. The channel is
// closed once generation is complete or the context is cancelled. The
// Chatter must not be used again until the channel is closed.
func (c *Chatter) GenerateStream(ctx context.Context, opts ...GenerateOption) (<-chan string, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if !c.dict.Has(Stopper) {
		return nil, fmt.Errorf("could not pick an opening word: %w: %q", gram.ErrKeyNotFound, Stopper)
	}
	options := newGenerateOptions(opts)

	lineChan := make(chan string)

	go func() {
		defer close(lineChan)

		var line strings.Builder
		err := c.generate(ctx, options, func(piece string) error {
			if !strings.HasSuffix(piece, "\n") {
				line.WriteString(piece)
				return nil
			}
			line.WriteString(strings.TrimSuffix(piece, "\n"))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case lineChan <- line.String():
			}
			line.Reset()
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				c.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			}
			c.logger.ErrorContext(ctx, "Generation stream failed", slog.Any("error", err))
		}
	}()

	return lineChan, nil
}
