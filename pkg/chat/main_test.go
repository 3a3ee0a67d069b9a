package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
)

const catCorpus = "The cat sat. The cat ran."

// setupChatter creates a seeded Chatter and releases it with t.Cleanup.
func setupChatter(t *testing.T, seed uint64, opts ...Option) *Chatter {
	t.Helper()
	c := NewChatter(NewDefaultTokenizer(), append([]Option{WithSeed(seed)}, opts...)...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// setupTrainedChatter is a convenience helper that also trains the Chatter.
func setupTrainedChatter(t *testing.T, seed uint64, corpus string) (context.Context, *Chatter) {
	t.Helper()
	c := setupChatter(t, seed)
	ctx := context.Background()
	if err := c.Train(ctx, strings.NewReader(corpus)); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return ctx, c
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus builds a repetitive but branching corpus.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		subjects := []string{"the cat", "a dog", "my neighbour", "the old man", "she"}
		verbs := []string{"sat on", "ran to", "looked at", "forgot about", "painted"}
		objects := []string{"the mat.", "a tree!", "the sea?", "his hat.", "the moon."}
		var sb strings.Builder
		for i := 0; i < 2000; i++ {
			sb.WriteString(subjects[i%len(subjects)])
			sb.WriteByte(' ')
			sb.WriteString(verbs[(i/5)%len(verbs)])
			sb.WriteByte(' ')
			sb.WriteString(objects[(i/25)%len(objects)])
			sb.WriteByte('\n')
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
