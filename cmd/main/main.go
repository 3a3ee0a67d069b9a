package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const (
	modeChat   = "chat"
	modeFreq   = "freq"
	modeImport = "import"
)

// flags holds the command line of a single run.
type flags struct {
	configPath string
	mode       string
	inputPath  string
	outputPath string
	source     string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("chatter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "./config.json", "path to the JSON config file")
	fs.StringVar(&f.mode, "mode", modeChat, "one of chat, freq or import")
	fs.StringVar(&f.inputPath, "input", "", "text file to read (default stdin)")
	fs.StringVar(&f.outputPath, "output", "", "file to write the result to (default stdout)")
	fs.StringVar(&f.source, "source", "", "corpus source tag for import mode (default the input file name)")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch f.mode {
	case modeChat, modeFreq, modeImport:
	default:
		return nil, fmt.Errorf("unknown mode %q", f.mode)
	}
	return f, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		baseLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		baseLogger.Error("Chatter failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run executes one mode end to end. It is split from main so it can be driven
// with in-memory streams.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.version {
		_, err = fmt.Fprintf(stdout, "chatter %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return err
	}

	config, err := LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	logger.Debug("Configuration loaded", "path", f.configPath, "mode", f.mode)

	app := &App{
		config: config,
		logger: logger,
		stdin:  stdin,
	}
	defer app.Close()

	if f.mode == modeImport || config.Corpus.Enabled {
		if err = app.OpenCorpus(); err != nil {
			return err
		}
	}

	var result []byte
	switch f.mode {
	case modeChat:
		result, err = app.Chat(ctx, f.inputPath)
	case modeFreq:
		result, err = app.Freq(ctx, f.inputPath)
	case modeImport:
		err = app.Import(ctx, f.inputPath, f.source)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	return writeOutput(f.outputPath, result, stdout)
}
