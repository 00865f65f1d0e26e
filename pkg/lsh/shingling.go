// Package lsh provides reference hash-family and shingling
// implementations for the LSH partitioning builder. None of this package
// is required by that builder — it accepts any HashFamily — but most
// callers working with strings or feature vectors want a ready-made one.
package lsh

// Shingling turns a string into a set of overlapping substrings (the
// input to MinHash-based Jaccard similarity).
type Shingling interface {
	Shingle(s string) []string
}

// KShingling produces all contiguous substrings of length Size. It is the
// simplest shingling scheme and the one MinHash was originally described
// against; word-level or skip-gram shingling are straightforward variants
// callers can supply instead.
type KShingling struct {
	Size int
}

// Shingle implements Shingling.
func (k KShingling) Shingle(s string) []string {
	size := k.Size
	if size < 1 {
		size = 4
	}
	if len(s) < size {
		return []string{s}
	}
	shingles := make([]string, 0, len(s)-size+1)
	for i := 0; i+size <= len(s); i++ {
		shingles = append(shingles, s[i:i+size])
	}
	return shingles
}
