package hashtable

// Stats is a snapshot of a table's shape.
type Stats struct {
	Buckets      int // Current (prime) bucket count
	Entries      int // Distinct keys stored
	LoadFactor   int // Configured growth threshold
	EmptyBuckets int // Buckets with no chain
	LongestChain int // Length of the longest chain
}

// Stats walks every bucket and reports the table's shape.
func (t *Table[V]) Stats() Stats {
	t.guard()
	s := Stats{
		Buckets:    len(t.buckets),
		Entries:    t.numEntries,
		LoadFactor: t.loadFactor,
	}
	for _, head := range t.buckets {
		if head == nil {
			s.EmptyBuckets++
			continue
		}
		length := 0
		for n := head; n != nil; n = n.next {
			length++
		}
		if length > s.LongestChain {
			s.LongestChain = length
		}
	}
	return s
}
