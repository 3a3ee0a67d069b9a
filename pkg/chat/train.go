package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Train tokenizes data and records its transitions in the model. The window
// starts as (".", first token); every following token w is added as a
// follower of the current pair, the pair's first word gains its second word
// as a follower, and the window slides onto w. After the last token the final
// pair is recorded the same way with "." as its follower, so the end of the
// text always leads back to a sentence start.
//
// An empty stream adds nothing. Training may be repeated to extend a model;
// a cancelled context leaves the tokens read so far in the model.
func (c *Chatter) Train(ctx context.Context, data io.Reader) error {
	if c.closed {
		return ErrClosed
	}

	stream := c.tokenizer.NewStream(data)
	w1, w2 := Stopper, ""
	var tokenCount int64

	for {
		if tokenCount%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("tokenizer error: %w", err)
		}

		tokenCount++
		if tokenCount == 1 {
			w2 = token.Text
			continue
		}
		c.dict.AddPair(w1, w2, token.Text)
		c.dict.Add(w1, w2)
		w1, w2 = w2, token.Text
	}

	if tokenCount == 0 {
		c.logger.WarnContext(ctx, "Training stream contained no tokens")
		return nil
	}

	c.dict.Add(w1, w2)
	c.dict.AddPair(w1, w2, Stopper)

	stats := c.dict.Stats()
	c.logger.InfoContext(ctx, "Training completed",
		slog.Int64("tokens_processed", tokenCount),
		slog.Int("keys", stats.Entries),
		slog.Int("buckets", stats.Buckets),
		slog.Int("longest_chain", stats.LongestChain),
	)
	return nil
}
