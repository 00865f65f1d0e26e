package rest

import (
	"math/bits"
	"math/rand"
	"time"

	"github.com/kgraph/kgraph/pkg/lsh"
)

// vectorHashFamily adapts lsh.SuperBitFamily (defined over []float64) to
// lsh.HashFamily[Vector], since Vector is a distinct named type and Go
// generics require an exact type match to satisfy an interface.
type vectorHashFamily struct {
	inner      *lsh.SuperBitFamily
	partitions int
}

// newVectorHashFamily hashes into partitions buckets per stage: it uses
// just enough hyperplane bits to cover partitions signatures and folds
// each signature modulo partitions.
func newVectorHashFamily(stages, partitions, dims int) *vectorHashFamily {
	if partitions < 2 {
		partitions = 2
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	nbits := bits.Len(uint(partitions - 1))
	return &vectorHashFamily{inner: lsh.NewSuperBitFamily(stages, nbits, dims, rnd), partitions: partitions}
}

func (f *vectorHashFamily) Stages() int { return f.inner.Stages() }

func (f *vectorHashFamily) Hash(v Vector, stage int) int {
	return f.inner.Hash([]float64(v), stage) % f.partitions
}
