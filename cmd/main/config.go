package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/chatter/pkg/chat"
)

// ModelConfig holds the settings of the follower model used by chat mode.
type ModelConfig struct {
	TableSize  int    `json:"table_size"`
	LoadFactor int    `json:"load_factor"`
	Seed       uint64 `json:"seed"` // 0 seeds from the clock
}

// OutputConfig holds the shape of generated text and frequency tables.
type OutputConfig struct {
	LineWidth int  `json:"line_width"`
	LineCount int  `json:"line_count"`
	TopWords  int  `json:"top_words"` // 0 prints every word
	JSON      bool `json:"json"`
}

// CorpusConfig holds the settings of the training text database.
type CorpusConfig struct {
	Enabled      bool   `json:"corpus_enabled"`
	DatabasePath string `json:"corpus_database_path"`
	Source       string `json:"corpus_source"` // empty reads every source
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string        `json:"log_level"`
	Model    *ModelConfig  `json:"model_config"`
	Output   *OutputConfig `json:"output_config"`
	Corpus   *CorpusConfig `json:"corpus_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Model: &ModelConfig{
			TableSize:  chat.DefaultTableSize,
			LoadFactor: chat.DefaultLoadFactor,
			Seed:       0,
		},
		Output: &OutputConfig{
			LineWidth: 60,
			LineCount: 20,
			TopWords:  25,
			JSON:      false,
		},
		Corpus: &CorpusConfig{
			Enabled:      false,
			DatabasePath: "./data/chatter_corpus.db?_journal_mode=WAL&_busy_timeout=5000",
			Source:       "",
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable without a file on disk.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// validate fills sections missing from the file and rejects values the
// dictionaries cannot be built with.
func (c *Config) validate() error {
	defaults := DefaultConfig()
	if c.Model == nil {
		c.Model = defaults.Model
	}
	if c.Output == nil {
		c.Output = defaults.Output
	}
	if c.Corpus == nil {
		c.Corpus = defaults.Corpus
	}

	if c.Model.TableSize < 1 {
		return fmt.Errorf("table_size must be at least 1, got %d", c.Model.TableSize)
	}
	if c.Model.LoadFactor < 1 {
		return fmt.Errorf("load_factor must be at least 1, got %d", c.Model.LoadFactor)
	}
	if c.Output.LineWidth < 1 || c.Output.LineCount < 1 {
		return fmt.Errorf("line_width and line_count must be positive, got %d and %d",
			c.Output.LineWidth, c.Output.LineCount)
	}
	if c.Output.TopWords < 0 {
		return fmt.Errorf("top_words must not be negative, got %d", c.Output.TopWords)
	}
	if c.Corpus.Enabled && c.Corpus.DatabasePath == "" {
		return fmt.Errorf("corpus_database_path is required when the corpus is enabled")
	}
	return nil
}

// parseLogLevel maps the config's log_level onto a slog.Level. Unknown names
// fall back to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
