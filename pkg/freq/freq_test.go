package freq

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/CTAG07/chatter/pkg/hashtable"
)

func TestIncrementAndGetCount(t *testing.T) {
	d := Build(3, 2)
	words := strings.Fields("one fish two fish red fish blue fish")
	for _, w := range words {
		d.Increment(w)
	}

	expected := map[string]int{"one": 1, "two": 1, "red": 1, "blue": 1, "fish": 4, "green": 0}
	for w, want := range expected {
		if got := d.GetCount(w); got != want {
			t.Errorf("GetCount(%q) = %d, want %d", w, got, want)
		}
	}
	if d.NumKeys() != 5 {
		t.Errorf("expected 5 keys, got %d", d.NumKeys())
	}
	if d.TotalCount() != len(words) {
		t.Errorf("expected total count %d, got %d", len(words), d.TotalCount())
	}
}

func TestCountsMatchAcrossGrowth(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	d := Build(2, 1)
	want := make(map[string]int)
	calls := 0

	for i := 0; i < 5000; i++ {
		w := randomWord(r)
		d.Increment(w)
		want[w]++
		calls++
	}

	for w, n := range want {
		if got := d.GetCount(w); got != n {
			t.Fatalf("GetCount(%q) = %d, want %d", w, got, n)
		}
	}
	if d.NumKeys() != len(want) {
		t.Errorf("NumKeys() = %d, want %d", d.NumKeys(), len(want))
	}
	if d.TotalCount() != calls {
		t.Errorf("TotalCount() = %d, want %d", d.TotalCount(), calls)
	}
	if !hashtable.IsPrime(d.Stats().Buckets) {
		t.Errorf("bucket count %d is not prime", d.Stats().Buckets)
	}
}

func TestDrain(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	d := Build(9, 2)
	for i := 0; i < 2000; i++ {
		d.Increment(randomWord(r))
	}
	numKeys, total := d.NumKeys(), d.TotalCount()

	entries, err := d.Drain()
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if len(entries) != numKeys {
		t.Errorf("Drain returned %d entries, want %d", len(entries), numKeys)
	}

	sum := 0
	for i, e := range entries {
		sum += e.Count
		if e.Count < 1 {
			t.Errorf("entry %q has count %d", e.Word, e.Count)
		}
		if i > 0 && entries[i-1].Count < e.Count {
			t.Fatalf("entries not sorted: %d before %d at index %d", entries[i-1].Count, e.Count, i)
		}
	}
	if sum != total {
		t.Errorf("drained counts sum to %d, want %d", sum, total)
	}

	if _, err = d.Drain(); !errors.Is(err, hashtable.ErrDestroyed) {
		t.Errorf("second Drain: expected ErrDestroyed, got %v", err)
	}
}

func TestDrainStableWithoutGrowth(t *testing.T) {
	// One bucket chain per key and no growth: ties keep bucket order.
	d := Build(101, 4)
	for _, w := range []string{"c", "a", "b", "a"} {
		d.Increment(w)
	}
	entries, err := d.Drain()
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Word
	}
	if strings.Join(got, " ") != "a b c" {
		t.Errorf("expected [a b c], got %v", got)
	}
}

func TestDrainEmpty(t *testing.T) {
	entries, err := Build(5, 2).Drain()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func randomWord(r *rand.Rand) string {
	b := make([]byte, 1+r.IntN(3))
	for i := range b {
		b[i] = byte('a' + r.IntN(6))
	}
	return string(b)
}

func BenchmarkIncrement(b *testing.B) {
	r := rand.New(rand.NewPCG(5, 6))
	words := make([]string, 10000)
	for i := range words {
		words[i] = randomWord(r)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := Build(9, 2)
		for _, w := range words {
			d.Increment(w)
		}
	}
}
