package chat

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/CTAG07/chatter/pkg/gram"
	"github.com/CTAG07/chatter/pkg/hashtable"
)

const (
	// DefaultTableSize is the initial bucket request for a new model.
	DefaultTableSize = 9
	// DefaultLoadFactor is the entries-per-bucket threshold of a new model.
	DefaultLoadFactor = 2
)

// ErrClosed is returned by every Chatter method called after Close.
var ErrClosed = errors.New("chat: chatter is closed")

// options holds the construction-time settings of a Chatter.
type options struct {
	tableSize  int
	loadFactor int
	rng        *rand.Rand
}

// Option configures a Chatter at construction.
type Option func(*options)

// WithTableSize sets the initial bucket request and load factor of the
// follower model. Default: 9 buckets, load factor 2. Values below 1 are
// ignored.
func WithTableSize(initialSize, loadFactor int) Option {
	return func(o *options) {
		if initialSize > 0 {
			o.tableSize = initialSize
		}
		if loadFactor > 0 {
			o.loadFactor = loadFactor
		}
	}
}

// WithSeed seeds the Chatter's random generator, making generation
// reproducible for a given model.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand hands the Chatter a random generator to own.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// Chatter is the main entry point of the package. It owns a follower model,
// the tokenizer used to train it and the random generator used to walk it.
type Chatter struct {
	dict      *gram.Dict
	tokenizer Tokenizer
	rng       *rand.Rand
	logger    *slog.Logger
	closed    bool
}

// NewChatter creates a Chatter with an empty model. Unless WithSeed or
// WithRand is given, its random generator is seeded once from the clock.
func NewChatter(tokenizer Tokenizer, opts ...Option) *Chatter {
	o := &options{
		tableSize:  DefaultTableSize,
		loadFactor: DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	return &Chatter{
		dict:      gram.Build(o.tableSize, o.loadFactor),
		tokenizer: tokenizer,
		rng:       o.rng,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Chatter. By default, all logs are
// discarded.
func (c *Chatter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Stats reports the shape of the model's hash table.
func (c *Chatter) Stats() (hashtable.Stats, error) {
	if c.closed {
		return hashtable.Stats{}, ErrClosed
	}
	return c.dict.Stats(), nil
}

// Close destroys the model. The Chatter must not be used afterwards.
func (c *Chatter) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return c.dict.Destroy()
}
