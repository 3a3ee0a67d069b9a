// Package gram stores, for every word and every ordered word pair seen in
// training, the distinct words observed directly after it.
//
// Single-word keys hold bigram transitions and "w1 w2" keys hold trigram
// transitions; both share one chained hash table.
package gram

import (
	"errors"
	"fmt"

	"github.com/CTAG07/chatter/pkg/hashtable"
)

// ErrKeyNotFound is returned by Get when a key was never added.
var ErrKeyNotFound = errors.New("gram: key not found")

// Rand is the source of randomness used by Get. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// follower is a node in an entry's follower list.
type follower struct {
	word string
	next *follower
}

// entry holds the follower list of one key.
type entry struct {
	number    int // length of the followers list
	followers *follower
	last      *follower
}

// Dict is a dictionary of word and word-pair followers. It is not safe for
// concurrent use.
type Dict struct {
	table *hashtable.Table[entry]
}

// Build creates a dictionary with at least initialSize buckets that grows
// once its entries per bucket exceed loadFactor.
func Build(initialSize, loadFactor int) *Dict {
	return &Dict{table: hashtable.New[entry](initialSize, loadFactor)}
}

// JoinKey joins a word pair into the key used for trigram transitions.
func JoinKey(w1, w2 string) string {
	return w1 + " " + w2
}

// Add records fw as a follower of key. Recording the same follower twice
// has no effect.
func (d *Dict) Add(key, fw string) {
	e, _ := d.table.FindOrCreate(key)
	for f := e.followers; f != nil; f = f.next {
		if f.word == fw {
			return
		}
	}
	f := &follower{word: fw}
	if e.last == nil {
		e.followers = f
	} else {
		e.last.next = f
	}
	e.last = f
	e.number++
}

// AddPair records fw as a follower of the pair (w1, w2).
func (d *Dict) AddPair(w1, w2, fw string) {
	d.Add(JoinKey(w1, w2), fw)
}

// Get returns a follower of key chosen uniformly among its distinct
// followers. How often a transition occurred in training does not weight the
// draw. It returns an error wrapping ErrKeyNotFound if key is unknown.
func (d *Dict) Get(r Rand, key string) (string, error) {
	if d.table.Destroyed() {
		return "", hashtable.ErrDestroyed
	}
	e, ok := d.table.Find(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	f := e.followers
	for i := r.IntN(e.number); i > 0; i-- {
		f = f.next
	}
	return f.word, nil
}

// GetPair returns a follower of the pair (w1, w2).
func (d *Dict) GetPair(r Rand, w1, w2 string) (string, error) {
	return d.Get(r, JoinKey(w1, w2))
}

// Has reports whether key has at least one follower.
func (d *Dict) Has(key string) bool {
	_, ok := d.table.Find(key)
	return ok
}

// Followers returns a copy of key's followers in the order they were first
// recorded, or nil if key is unknown.
func (d *Dict) Followers(key string) []string {
	e, ok := d.table.Find(key)
	if !ok {
		return nil
	}
	words := make([]string, 0, e.number)
	for f := e.followers; f != nil; f = f.next {
		words = append(words, f.word)
	}
	return words
}

// NumKeys returns the number of distinct words and word pairs stored.
func (d *Dict) NumKeys() int {
	return d.table.Len()
}

// Stats reports the shape of the underlying table.
func (d *Dict) Stats() hashtable.Stats {
	return d.table.Stats()
}

// Destroy releases every follower list and the table. The dictionary must
// not be used afterwards; calling Destroy twice returns hashtable.ErrDestroyed.
func (d *Dict) Destroy() error {
	if d.table.Destroyed() {
		return hashtable.ErrDestroyed
	}
	d.table.ForEach(func(_ string, e *entry) {
		for f := e.followers; f != nil; {
			next := f.next
			f.next = nil
			f = next
		}
		e.followers, e.last, e.number = nil, nil, 0
	})
	d.table.Destroy()
	return nil
}
