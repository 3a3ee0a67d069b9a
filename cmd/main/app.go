package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/chatter/pkg/chat"
	"github.com/CTAG07/chatter/pkg/corpus"
	"github.com/CTAG07/chatter/pkg/freq"
)

// App wires the configuration, the optional corpus database and the
// dictionaries together for a single run.
type App struct {
	config *Config
	logger *slog.Logger
	stdin  io.Reader
	db     *sql.DB
	store  *corpus.Store
}

// OpenCorpus opens the corpus database, creating its directory and schema
// when needed.
func (a *App) OpenCorpus() error {
	path := a.config.Corpus.DatabasePath
	if dir := filepath.Dir(strings.SplitN(path, "?", 2)[0]); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}

	db, err := initDB(path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(a.logger)

	a.db = db
	a.store = store
	return nil
}

// Close releases the corpus database, if one was opened.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
	}
}

// openInput returns the training text for chat and freq modes: the stored
// corpus when it is enabled, followed by the input file if one was named.
// Without a corpus, the input file or stdin is read.
func (a *App) openInput(ctx context.Context, path string) (io.Reader, func(), error) {
	var readers []io.Reader
	closer := func() {}

	if a.store != nil {
		r, err := a.store.Reader(ctx, a.config.Corpus.Source)
		if err != nil {
			return nil, nil, err
		}
		readers = append(readers, r)
	}

	switch {
	case path != "":
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open input: %w", err)
		}
		closer = func() { _ = file.Close() }
		readers = append(readers, file)
	case a.store == nil:
		readers = append(readers, a.stdin)
	}

	return io.MultiReader(readers...), closer, nil
}

// Chat trains a fresh model on the input and returns the generated text.
func (a *App) Chat(ctx context.Context, inputPath string) ([]byte, error) {
	input, closeInput, err := a.openInput(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	opts := []chat.Option{chat.WithTableSize(a.config.Model.TableSize, a.config.Model.LoadFactor)}
	if a.config.Model.Seed != 0 {
		opts = append(opts, chat.WithSeed(a.config.Model.Seed))
	}
	chatter := chat.NewChatter(chat.NewDefaultTokenizer(), opts...)
	chatter.SetLogger(a.logger)
	defer func() {
		_ = chatter.Close()
	}()

	if err = chatter.Train(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}

	text, err := chatter.GenerateString(ctx,
		chat.WithLineWidth(a.config.Output.LineWidth),
		chat.WithLineCount(a.config.Output.LineCount),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}
	return []byte(text), nil
}

// Freq counts every word of the input and returns the most frequent ones,
// as aligned text or as a JSON array.
func (a *App) Freq(ctx context.Context, inputPath string) ([]byte, error) {
	input, closeInput, err := a.openInput(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	dict := freq.Build(a.config.Model.TableSize, a.config.Model.LoadFactor)
	stream := chat.NewDefaultTokenizer().NewStream(input)
	for {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		var token *chat.Token
		token, err = stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if !token.Stopper {
			dict.Increment(token.Text)
		}
	}

	stats := dict.Stats()
	a.logger.Info("Counting completed",
		slog.Int("words", dict.TotalCount()),
		slog.Int("distinct", dict.NumKeys()),
		slog.Int("buckets", stats.Buckets),
		slog.Int("longest_chain", stats.LongestChain),
	)

	entries, err := dict.Drain()
	if err != nil {
		return nil, err
	}
	if top := a.config.Output.TopWords; top > 0 && len(entries) > top {
		entries = entries[:top]
	}

	if a.config.Output.JSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%7d %s\n", e.Count, e.Word)
	}
	return buf.Bytes(), nil
}

// Import stores the input as one corpus text tagged with source. An empty
// source defaults to the input file name, or "stdin".
func (a *App) Import(ctx context.Context, inputPath, source string) error {
	var input io.Reader = a.stdin
	if inputPath != "" {
		file, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)
		input = file
	}
	if source == "" {
		source = "stdin"
		if inputPath != "" {
			source = filepath.Base(inputPath)
		}
	}

	if err := a.store.Import(ctx, source, input); err != nil {
		return err
	}

	stats, err := a.store.Stats(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Corpus updated",
		slog.String("source", source),
		slog.Int("texts", stats.Texts),
		slog.Int("bytes", stats.Bytes),
	)
	return nil
}

// writeOutput writes data to stdout, or atomically replaces the file at path.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
