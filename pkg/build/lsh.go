package build

import (
	"github.com/kgraph/kgraph/pkg/graph"
	"github.com/kgraph/kgraph/pkg/lsh"
)

// LSHPartitioningBuilder builds an approximate k-NN graph by hashing
// items into buckets with a locality-sensitive hash family and running an
// inner Builder over each bucket, then merging the per-bucket graphs. It
// trades the exhaustive pairwise comparisons of brute force for the hash
// family's collision probability: items that never land in the same
// bucket in any stage are never compared, however similar they actually
// are.
type LSHPartitioningBuilder[T any] struct {
	K int

	HashFamily lsh.HashFamily[T]

	// Inner builds the graph over each bucket. Defaults to a serial
	// BruteForceBuilder if nil, since buckets are expected to be small
	// enough that brute force is cheap and exact within the bucket.
	Inner Builder[T]

	Stats    *graph.StatisticsContainer
	Callback graph.Callback

	// EstimatedSpeedup is populated by Build: n divided by the average
	// non-empty bucket size across every stage, a rough estimate of how
	// many fewer comparisons this builder made versus brute force.
	EstimatedSpeedup float64
}

// Build implements Builder.
func (b *LSHPartitioningBuilder[T]) Build(items []Item[T], similarity graph.Similarity[T]) (*graph.Graph[T], error) {
	if b.K < 1 {
		return nil, graph.ErrInvalidK
	}
	if len(items) == 0 {
		return nil, graph.ErrEmptyItemSet
	}
	if b.HashFamily == nil {
		return nil, &graph.InvalidParameterError{Parameter: "HashFamily", Value: nil, Reason: "must not be nil"}
	}

	inner := b.Inner
	if inner == nil {
		inner = &BruteForceBuilder[T]{K: b.K, Stats: b.Stats}
	}

	g, err := newGraphWithNodes(items, b.K, similarity)
	if err != nil {
		return nil, err
	}

	stages := b.HashFamily.Stages()
	var totalBucketSize, bucketCount int
	for stage := 0; stage < stages; stage++ {
		buckets := make(map[int][]Item[T])
		for _, it := range items {
			key := b.HashFamily.Hash(it.Value, stage)
			buckets[key] = append(buckets[key], it)
		}
		callOrNil(b.Callback, map[string]any{"step": "stage", "stage": stage, "buckets": len(buckets)})

		for _, bucketItems := range buckets {
			totalBucketSize += len(bucketItems)
			bucketCount++
			if len(bucketItems) < 2 {
				continue
			}
			localGraph, err := inner.Build(bucketItems, similarity)
			if err != nil {
				// A bucket failing to build is a worker failure, not a
				// reason to abort the whole partitioning: the items in
				// it simply get no edges from this stage.
				b.Stats.AddWorkerFailure()
				continue
			}
			mergeInto(g, localGraph)
		}
	}
	if bucketCount > 0 {
		if avgBucketSize := float64(totalBucketSize) / float64(bucketCount); avgBucketSize > 0 {
			b.EstimatedSpeedup = float64(len(items)) / avgBucketSize
		}
	}
	return g, nil
}

// mergeInto folds src's neighbor lists into dst's, for nodes dst already
// has. Each bucket's local graph only ever names nodes dst created up
// front, so every lookup below succeeds.
func mergeInto[T any](dst, src *graph.Graph[T]) {
	for _, n := range src.Nodes() {
		srcList, ok := src.Neighbors(n.ID)
		if !ok {
			continue
		}
		dstList, ok := dst.Neighbors(n.ID)
		if !ok {
			continue
		}
		for _, nb := range srcList.ToSlice() {
			if dstNode, ok := dst.Node(nb.Node.ID); ok {
				dstList.Add(graph.Neighbor[T]{Node: dstNode, Similarity: nb.Similarity})
			}
		}
	}
}
