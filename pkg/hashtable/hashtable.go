package hashtable

import "errors"

// ErrDestroyed is reported when a Table is used after Destroy. Methods that
// return an error report it, the others panic with it.
var ErrDestroyed = errors.New("hashtable: use of destroyed table")

// node is a single link in a bucket chain. Each node is owned by exactly one
// chain; rehashing relinks nodes instead of copying them.
type node[V any] struct {
	key   string
	value V
	next  *node[V]
}

// Table is a chained hash table over string keys. The number of buckets is
// always prime and grows to the next prime at least twice its size once the
// load factor is exceeded. The zero value is not usable; use New.
//
// Chain order inside a bucket is insertion order until the first Rehash.
// After any rehash it is unspecified.
type Table[V any] struct {
	buckets    []*node[V]
	numEntries int
	loadFactor int
	destroyed  bool
}

// New builds an empty table with PrimeAtLeast(initialSize) buckets. Growth is
// triggered when (entries+1)/buckets exceeds loadFactor, evaluated with
// integer division, so the live ratio may overshoot loadFactor by up to one.
// A loadFactor below 1 is raised to 1.
func New[V any](initialSize, loadFactor int) *Table[V] {
	if loadFactor < 1 {
		loadFactor = 1
	}
	return &Table[V]{
		buckets:    make([]*node[V], PrimeAtLeast(initialSize)),
		loadFactor: loadFactor,
	}
}

// Len returns the number of distinct keys stored.
func (t *Table[V]) Len() int {
	t.guard()
	return t.numEntries
}

// NumBuckets returns the current bucket count.
func (t *Table[V]) NumBuckets() int {
	t.guard()
	return len(t.buckets)
}

// LoadFactor returns the configured load factor threshold.
func (t *Table[V]) LoadFactor() int {
	return t.loadFactor
}

// Find returns a pointer to the payload stored under key.
func (t *Table[V]) Find(key string) (*V, bool) {
	t.guard()
	for n := t.buckets[Hash(key, len(t.buckets))]; n != nil; n = n.next {
		if n.key == key {
			return &n.value, true
		}
	}
	return nil, false
}

// FindOrCreate returns a pointer to the payload stored under key, creating a
// zero payload at the tail of its chain if the key is new. The second result
// reports whether the entry was created. The load factor is only checked when
// a new key is about to be inserted.
func (t *Table[V]) FindOrCreate(key string) (*V, bool) {
	if v, ok := t.Find(key); ok {
		return v, false
	}
	if (t.numEntries+1)/len(t.buckets) > t.loadFactor {
		t.Rehash()
	}

	n := &node[V]{key: key}
	idx := Hash(key, len(t.buckets))
	if t.buckets[idx] == nil {
		t.buckets[idx] = n
	} else {
		tail := t.buckets[idx]
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = n
	}
	t.numEntries++
	return &n.value, true
}

// Rehash grows the bucket array to PrimeAtLeast(2*buckets) and moves every
// node into its new bucket by prepending it to that bucket's chain.
func (t *Table[V]) Rehash() {
	t.guard()
	old := t.buckets
	t.buckets = make([]*node[V], PrimeAtLeast(2*len(old)))

	for _, head := range old {
		for n := head; n != nil; {
			next := n.next
			idx := Hash(n.key, len(t.buckets))
			n.next = t.buckets[idx]
			t.buckets[idx] = n
			n = next
		}
	}
}

// ForEach calls fn for every entry, in ascending bucket order and then chain
// order. fn must not insert into the table.
func (t *Table[V]) ForEach(fn func(key string, value *V)) {
	t.guard()
	for _, head := range t.buckets {
		for n := head; n != nil; n = n.next {
			fn(n.key, &n.value)
		}
	}
}

// Destroy unlinks every node and releases the bucket array. The table must
// not be used afterwards.
func (t *Table[V]) Destroy() {
	t.guard()
	for i, head := range t.buckets {
		for n := head; n != nil; {
			next := n.next
			n.next = nil
			n = next
		}
		t.buckets[i] = nil
	}
	t.buckets = nil
	t.numEntries = 0
	t.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (t *Table[V]) Destroyed() bool {
	return t.destroyed
}

func (t *Table[V]) guard() {
	if t.destroyed {
		panic(ErrDestroyed)
	}
}
