package rest

import (
	"math"

	"github.com/kgraph/kgraph/pkg/graph"
)

// Vector is the item payload the REST surface builds and searches graphs
// over: a fixed-format, JSON-friendly stand-in for "whatever T a library
// caller would plug in". Embedding-style float slices are the most common
// item type for approximate k-NN graphs, so the HTTP layer is instantiated
// against []float64 rather than forcing every endpoint to be generic.
type Vector []float64

// CosineSimilarity computes cosine similarity between two vectors of equal
// length. Vectors of mismatched length (or empty or zero vectors) get a
// similarity of 0 rather than causing a panic, since request payloads are
// untrusted input.
var CosineSimilarity = graph.SimilarityFunc[Vector](func(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
})
