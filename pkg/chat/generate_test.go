package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CTAG07/chatter/pkg/gram"
)

func TestGenerateDeterministicPaths(t *testing.T) {
	// Every key in these models has exactly one follower, so the output does
	// not depend on the random generator.
	testCases := []struct {
		name      string
		corpus    string
		lineWidth int
		lineCount int
		expected  string
	}{
		{
			name:      "single stopper ends on the only line",
			corpus:    ".",
			lineWidth: 60,
			lineCount: 1,
			expected:  ".\n",
		},
		{
			name:      "stopper on the last line ends early",
			corpus:    "a b.",
			lineWidth: 60,
			lineCount: 1,
			expected:  " a b.\n",
		},
		{
			name:      "walk restarts after the closing stopper",
			corpus:    "a b.",
			lineWidth: 12,
			lineCount: 2,
			expected:  " a b.. a b.\n.\n",
		},
		{
			name:      "closing stopper when no early end",
			corpus:    "one two three four five six",
			lineWidth: 10,
			lineCount: 2,
			expected:  " one two\n three.\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, c := setupTrainedChatter(t, 7, tc.corpus)
			got, err := c.GenerateString(ctx, WithLineWidth(tc.lineWidth), WithLineCount(tc.lineCount))
			if err != nil {
				t.Fatalf("GenerateString failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestGenerateUntrained(t *testing.T) {
	ctx, c := setupTrainedChatter(t, 8, "")
	_, err := c.GenerateString(ctx)
	if !errors.Is(err, gram.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound from an empty model, got %v", err)
	}
}

func TestGenerateReproducible(t *testing.T) {
	corpus := createBenchmarkCorpus()
	ctx, c1 := setupTrainedChatter(t, 42, corpus)
	_, c2 := setupTrainedChatter(t, 42, corpus)

	out1, err := c1.GenerateString(ctx, WithLineCount(8))
	if err != nil {
		t.Fatal(err)
	}
	out2, err := c2.GenerateString(ctx, WithLineCount(8))
	if err != nil {
		t.Fatal(err)
	}
	if out1 != out2 {
		t.Errorf("same seed produced different text:\n%s\n---\n%s", out1, out2)
	}
}

func TestGenerateNeverFailsOnTrainedModel(t *testing.T) {
	corpora := []string{catCorpus, "a b", "hello", "wait... what?!", createBenchmarkCorpus()}
	for _, corpus := range corpora {
		for seed := uint64(0); seed < 50; seed++ {
			ctx, c := setupTrainedChatter(t, seed, corpus)
			if _, err := c.GenerateString(ctx, WithLineWidth(40), WithLineCount(6)); err != nil {
				t.Fatalf("corpus %.20q seed %d: %v", corpus, seed, err)
			}
		}
	}
}

func TestGenerateLineWidth(t *testing.T) {
	const lineWidth = 24
	ctx, c := setupTrainedChatter(t, 9, createBenchmarkCorpus())

	out, err := c.GenerateString(ctx, WithLineWidth(lineWidth), WithLineCount(30))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("output should end with a line break: %q", out)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) > 30 {
		t.Errorf("expected at most 30 lines, got %d", len(lines))
	}
	for i, line := range lines {
		limit := lineWidth
		if i == len(lines)-1 {
			limit++ // closing stopper
		}
		if len(line) > limit {
			t.Errorf("line %d is %d bytes, limit %d: %q", i, len(line), limit, line)
		}
	}
}

func TestGenerateLineCountOne(t *testing.T) {
	// "." is the only follower reachable from the start pair.
	ctx, c := setupTrainedChatter(t, 10, ". . .")
	got, err := c.GenerateString(ctx, WithLineCount(1))
	if err != nil {
		t.Fatal(err)
	}
	if got != ".\n" {
		t.Errorf("expected a single stopper line, got %q", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestGenerateWriteError(t *testing.T) {
	ctx, c := setupTrainedChatter(t, 11, catCorpus)
	err := c.Generate(ctx, failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "pipe closed") {
		t.Errorf("expected the write error to be returned, got %v", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	_, c := setupTrainedChatter(t, 12, catCorpus)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GenerateString(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateAfterClose(t *testing.T) {
	ctx, c := setupTrainedChatter(t, 13, catCorpus)
	_ = c.Close()
	if _, err := c.GenerateString(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := c.Stats(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Stats, got %v", err)
	}
}

func BenchmarkGenerate(b *testing.B) {
	ctx := context.Background()
	c := NewChatter(NewDefaultTokenizer(), WithSeed(1))
	if err := c.Train(ctx, strings.NewReader(createBenchmarkCorpus())); err != nil {
		b.Fatalf("Train() setup for benchmark failed: %v", err)
	}
	b.Cleanup(func() { _ = c.Close() })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := c.GenerateString(ctx, WithLineCount(20))
		if err != nil {
			b.Fatalf("Generate() failed: %v", err)
		}
		b.SetBytes(int64(len(s)))
	}
}
