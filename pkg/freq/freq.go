// Package freq counts word occurrences in a chained hash table and drains
// them sorted from most to least frequent.
package freq

import (
	"sort"

	"github.com/CTAG07/chatter/pkg/hashtable"
)

// Entry is a word and the number of times it was counted.
type Entry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Dict is a word count dictionary. It is not safe for concurrent use.
type Dict struct {
	table         *hashtable.Table[int]
	numIncrements int
}

// Build creates a dictionary with at least initialSize buckets that grows
// once its entries per bucket exceed loadFactor.
func Build(initialSize, loadFactor int) *Dict {
	return &Dict{table: hashtable.New[int](initialSize, loadFactor)}
}

// Increment adds one to the count of word, creating it if needed.
func (d *Dict) Increment(word string) {
	count, _ := d.table.FindOrCreate(word)
	*count++
	d.numIncrements++
}

// GetCount returns the count of word, or 0 if it was never incremented.
func (d *Dict) GetCount(word string) int {
	count, ok := d.table.Find(word)
	if !ok {
		return 0
	}
	return *count
}

// NumKeys returns the number of distinct words.
func (d *Dict) NumKeys() int {
	return d.table.Len()
}

// TotalCount returns the sum of all counts, i.e. the number of Increment calls.
func (d *Dict) TotalCount() int {
	return d.numIncrements
}

// Stats reports the shape of the underlying table.
func (d *Dict) Stats() hashtable.Stats {
	return d.table.Stats()
}

// Drain returns every entry sorted by descending count and destroys the
// dictionary. Ties keep table visitation order, which is unspecified once
// the table has grown. A second call returns hashtable.ErrDestroyed.
func (d *Dict) Drain() ([]Entry, error) {
	if d.table.Destroyed() {
		return nil, hashtable.ErrDestroyed
	}
	entries := make([]Entry, 0, d.table.Len())
	d.table.ForEach(func(word string, count *int) {
		entries = append(entries, Entry{Word: word, Count: *count})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	d.table.Destroy()
	d.numIncrements = 0
	return entries, nil
}
