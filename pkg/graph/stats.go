package graph

import "sync/atomic"

// StatisticsContainer accumulates counters shared by many goroutines
// during a build, search, or online update. Every field is updated with
// atomic operations so builders and the search engine can pass the same
// container to every worker without a mutex.
//
// Similarity evaluations are counted per operation rather than in one
// collapsed total: a search restart that dead-ends costs differently
// than a local join during a build, and a caller comparing GNNS against
// its exhaustive baseline needs the search-scoped count specifically.
type StatisticsContainer struct {
	searchSimilarities           atomic.Int64
	searchRestarts               atomic.Int64
	searchCrossPartitionRestarts atomic.Int64
	addSimilarities              atomic.Int64
	removeSimilarities           atomic.Int64
	computedSimilarities         atomic.Int64
	workerFailures               atomic.Int64
}

// NewStatisticsContainer returns a zeroed container.
func NewStatisticsContainer() *StatisticsContainer {
	return &StatisticsContainer{}
}

func (s *StatisticsContainer) addSearchSimilarity() {
	if s != nil {
		s.searchSimilarities.Add(1)
	}
}

func (s *StatisticsContainer) addSearchRestart() {
	if s != nil {
		s.searchRestarts.Add(1)
	}
}

func (s *StatisticsContainer) addSearchCrossPartitionRestart() {
	if s != nil {
		s.searchCrossPartitionRestarts.Add(1)
	}
}

func (s *StatisticsContainer) addAddSimilarity() {
	if s != nil {
		s.addSimilarities.Add(1)
	}
}

func (s *StatisticsContainer) addRemoveSimilarity() {
	if s != nil {
		s.removeSimilarities.Add(1)
	}
}

func (s *StatisticsContainer) AddComputedSimilarity(n int64) {
	if s != nil {
		s.computedSimilarities.Add(n)
	}
}

func (s *StatisticsContainer) AddWorkerFailure() {
	if s != nil {
		s.workerFailures.Add(1)
	}
}

// SearchSimilarities returns the number of similarity evaluations GNNS
// search performed, including restart seeds and long jumps.
func (s *StatisticsContainer) SearchSimilarities() int64 {
	if s == nil {
		return 0
	}
	return s.searchSimilarities.Load()
}

// SearchRestarts returns the number of random-jump restarts a search
// performed, whether or not each restart survived the expansion check.
func (s *StatisticsContainer) SearchRestarts() int64 {
	if s == nil {
		return 0
	}
	return s.searchRestarts.Load()
}

// SearchCrossPartitionRestarts returns the number of descents abandoned
// because they stepped onto an item this graph has no neighbor list for
// (a cross-partition reference in a sharded or merged graph).
func (s *StatisticsContainer) SearchCrossPartitionRestarts() int64 {
	if s == nil {
		return 0
	}
	return s.searchCrossPartitionRestarts.Load()
}

// AddSimilarities returns the number of similarity evaluations FastAdd
// performed wiring a new node into the graph.
func (s *StatisticsContainer) AddSimilarities() int64 {
	if s == nil {
		return 0
	}
	return s.addSimilarities.Load()
}

// RemoveSimilarities returns the number of similarity evaluations
// FastRemove performed repairing neighbor lists after a deletion.
func (s *StatisticsContainer) RemoveSimilarities() int64 {
	if s == nil {
		return 0
	}
	return s.removeSimilarities.Load()
}

// ComputedSimilarities returns the number of Similarity.Compute calls a
// build performed, regardless of which builder or bucket made them.
func (s *StatisticsContainer) ComputedSimilarities() int64 {
	if s == nil {
		return 0
	}
	return s.computedSimilarities.Load()
}

// WorkerFailures returns the number of worker failures swallowed during a
// build: recovered panics in the parallel brute-force builder and bucket
// builds that failed in the LSH builder.
func (s *StatisticsContainer) WorkerFailures() int64 {
	if s == nil {
		return 0
	}
	return s.workerFailures.Load()
}
