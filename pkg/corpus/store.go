// Package corpus keeps training texts in a SQLite database so a model can be
// retrained from everything collected so far. Only input text is stored;
// trained models live in memory.
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaTexts = `
CREATE TABLE IF NOT EXISTS corpus_texts (
    text_id INTEGER PRIMARY KEY,
    source  TEXT NOT NULL DEFAULT '',
    body    TEXT NOT NULL
);
`
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaTexts); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store reads and appends training texts. It holds prepared statements and
// must be closed when no longer needed.
type Store struct {
	db           *sql.DB
	stmtAdd      *sql.Stmt
	stmtCount    *sql.Stmt
	stmtBodies   *sql.Stmt
	stmtBySource *sql.Stmt
	logger       *slog.Logger
}

// NewStore prepares the store's statements against db. SetupSchema must have
// been called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	stmtAdd, err := db.Prepare(`INSERT INTO corpus_texts (source, body) VALUES (?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtCount, err := db.Prepare(`SELECT COUNT(*), coalesce(SUM(length(body)), 0) FROM corpus_texts;`)
	if err != nil {
		_ = stmtAdd.Close()
		return nil, err
	}

	stmtBodies, err := db.Prepare(`SELECT body FROM corpus_texts ORDER BY text_id;`)
	if err != nil {
		_ = stmtAdd.Close()
		_ = stmtCount.Close()
		return nil, err
	}

	stmtBySource, err := db.Prepare(`SELECT body FROM corpus_texts WHERE source = ? ORDER BY text_id;`)
	if err != nil {
		_ = stmtAdd.Close()
		_ = stmtCount.Close()
		_ = stmtBodies.Close()
		return nil, err
	}

	return &Store{
		db:           db,
		stmtAdd:      stmtAdd,
		stmtCount:    stmtCount,
		stmtBodies:   stmtBodies,
		stmtBySource: stmtBySource,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtAdd.Close()
	_ = s.stmtCount.Close()
	_ = s.stmtBodies.Close()
	_ = s.stmtBySource.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Add appends one text to the corpus, tagged with source. Blank texts are
// skipped.
func (s *Store) Add(ctx context.Context, source, body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	res, err := s.stmtAdd.ExecContext(ctx, source, body)
	if err != nil {
		return fmt.Errorf("could not add text from %q: %w", source, err)
	}
	id, _ := res.LastInsertId()
	s.logger.InfoContext(ctx, "Corpus text added",
		slog.String("source", source),
		slog.Int64("text_id", id),
		slog.Int("bytes", len(body)),
	)
	return nil
}

// Import reads r to the end and adds it as a single text.
func (s *Store) Import(ctx context.Context, source string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read text from %q: %w", source, err)
	}
	return s.Add(ctx, source, string(data))
}

// Stats holds the size of the corpus.
type Stats struct {
	Texts int // Number of stored texts
	Bytes int // Total length of all texts
}

// Stats counts the stored texts and their total size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.stmtCount.QueryRowContext(ctx).Scan(&st.Texts, &st.Bytes); err != nil {
		return Stats{}, fmt.Errorf("could not count corpus texts: %w", err)
	}
	return st, nil
}

// Reader returns every stored text, oldest first, joined by line breaks. If
// source is not empty only texts tagged with it are included.
func (s *Store) Reader(ctx context.Context, source string) (io.Reader, error) {
	var rows *sql.Rows
	var err error
	if source == "" {
		rows, err = s.stmtBodies.QueryContext(ctx)
	} else {
		rows, err = s.stmtBySource.QueryContext(ctx, source)
	}
	if err != nil {
		return nil, fmt.Errorf("could not query corpus texts: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var readers []io.Reader
	for rows.Next() {
		var body string
		if err = rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("could not scan corpus text: %w", err)
		}
		readers = append(readers, strings.NewReader(body), strings.NewReader("\n"))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Corpus loaded",
		slog.String("source", source),
		slog.Int("texts", len(readers)/2),
	)
	return io.MultiReader(readers...), nil
}
