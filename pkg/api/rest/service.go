package rest

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kgraph/kgraph/pkg/build"
	"github.com/kgraph/kgraph/pkg/config"
	"github.com/kgraph/kgraph/pkg/graph"
	"github.com/kgraph/kgraph/pkg/observability"
)

// Service holds every named graph the server has built, in memory only.
// The REST surface does not persist graphs across restarts; GEXF export
// is the only durable output it offers.
type Service struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph[Vector]

	cfg     config.BuildConfig
	search  config.SearchConfig
	metrics *observability.Metrics
	logger  *observability.Logger
}

// NewService creates an empty graph registry.
func NewService(cfg *config.Config, metrics *observability.Metrics, logger *observability.Logger) *Service {
	return &Service{
		graphs:  make(map[string]*graph.Graph[Vector]),
		cfg:     cfg.Build,
		search:  cfg.Search,
		metrics: metrics,
		logger:  logger,
	}
}

// BuildRequest is the payload for POST /v1/graphs/{id}/build.
type BuildRequest struct {
	Strategy string            `json:"strategy"` // "brute", "threaded-brute", "nndescent", "lsh"
	K        int               `json:"k"`
	Items    map[string]Vector `json:"items"`
}

// BuildResult is the response for a successful build.
type BuildResult struct {
	GraphID                string  `json:"graph_id"`
	Strategy               string  `json:"strategy"`
	NodeCount              int     `json:"node_count"`
	DurationMS             int64   `json:"duration_ms"`
	SimilarityComputations int64   `json:"similarity_computations"`
	WorkerFailures         int64   `json:"worker_failures"`
}

// Build constructs a new graph under id, replacing any existing graph
// with that id.
func (s *Service) Build(id string, req BuildRequest) (*BuildResult, error) {
	if len(req.Items) == 0 {
		return nil, graph.ErrEmptyItemSet
	}
	k := req.K
	if k <= 0 {
		k = s.cfg.K
	}

	items := make([]build.Item[Vector], 0, len(req.Items))
	for itemID, v := range req.Items {
		items = append(items, build.Item[Vector]{ID: graph.NodeID(itemID), Value: v})
	}

	stats := graph.NewStatisticsContainer()
	var builder build.Builder[Vector]
	strategy := req.Strategy
	if strategy == "" {
		strategy = "nndescent"
	}

	switch strategy {
	case "brute":
		builder = &build.BruteForceBuilder[Vector]{K: k, Stats: stats}
	case "threaded-brute":
		builder = &build.BruteForceBuilder[Vector]{K: k, Parallel: true, NumWorkers: s.cfg.NumWorkers, Stats: stats}
	case "nndescent":
		builder = &build.NNDescentBuilder[Vector]{
			K: k, Rho: s.cfg.Rho, Delta: s.cfg.Delta, MaxIterations: s.cfg.MaxIterations,
			Parallel: s.cfg.Parallel, NumWorkers: s.cfg.NumWorkers,
			Rand: rand.New(rand.NewSource(time.Now().UnixNano())), Stats: stats,
		}
	case "lsh":
		dims := 0
		if len(items) > 0 {
			dims = len(items[0].Value)
		}
		builder = &build.LSHPartitioningBuilder[Vector]{
			K: k, HashFamily: newVectorHashFamily(s.cfg.LSHStages, s.cfg.LSHPartitions, dims), Stats: stats,
		}
	default:
		return nil, fmt.Errorf("unknown build strategy %q", strategy)
	}

	start := time.Now()
	g, err := builder.Build(items, CosineSimilarity)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordBuild(strategy, "error", duration, 0)
		return nil, err
	}

	edges := 0
	for _, n := range g.Nodes() {
		if nl, ok := g.Neighbors(n.ID); ok {
			edges += nl.Size()
		}
	}
	s.metrics.RecordBuild(strategy, "success", duration, edges)
	s.metrics.UpdateGraphSize(id, g.Size())
	if g.Size() > 0 {
		s.metrics.UpdateGraphDegree(id, float64(edges)/float64(g.Size()))
	}
	s.logger.Info("graph built", map[string]interface{}{"graph": id, "strategy": strategy, "nodes": g.Size()})

	s.mu.Lock()
	s.graphs[id] = g
	s.mu.Unlock()

	return &BuildResult{
		GraphID:                id,
		Strategy:               strategy,
		NodeCount:              g.Size(),
		DurationMS:             duration.Milliseconds(),
		SimilarityComputations: stats.ComputedSimilarities(),
		WorkerFailures:         stats.WorkerFailures(),
	}, nil
}

// SearchRequest is the payload for POST /v1/graphs/{id}/search.
type SearchRequest struct {
	Query Vector `json:"query"`
	K     int    `json:"k"`
}

// SearchHit is one entry of a search response.
type SearchHit struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// SearchResult is the response for a successful search.
type SearchResult struct {
	Hits                   []SearchHit `json:"hits"`
	SimilarityComputations int64       `json:"similarity_computations"`
	Restarts               int64       `json:"restarts"`
}

// Search runs GNNS search over the named graph.
func (s *Service) Search(id string, req SearchRequest) (*SearchResult, error) {
	g, ok := s.graph(id)
	if !ok {
		return nil, graph.ErrItemNotFound
	}

	k := req.K
	if k <= 0 {
		k = s.search.K
	}

	opts := graph.DefaultSearchOptions()
	opts.K = k
	opts.LongJumps = s.search.RandomJumps
	opts.Stats = graph.NewStatisticsContainer()

	start := time.Now()
	results := graph.Search(g, req.Query, opts)
	duration := time.Since(start)

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{ID: string(r.Node.ID), Similarity: r.Similarity})
	}
	s.metrics.RecordSearch(duration, int(opts.Stats.SearchSimilarities()), int(opts.Stats.SearchRestarts()), len(hits))

	return &SearchResult{
		Hits:                   hits,
		SimilarityComputations: opts.Stats.SearchSimilarities(),
		Restarts:               opts.Stats.SearchRestarts(),
	}, nil
}

// AddItemRequest is the payload for POST /v1/graphs/{id}/items.
type AddItemRequest struct {
	ID    string `json:"id"`
	Value Vector `json:"value"`
}

// AddItem inserts a new item into the named graph via FastAdd.
func (s *Service) AddItem(graphID string, req AddItemRequest) error {
	g, ok := s.graph(graphID)
	if !ok {
		return graph.ErrItemNotFound
	}
	opts := graph.MaintenanceOptions{
		UpdateDepth: s.search.UpdateDepth,
		RandomJumps: s.search.RandomJumps,
		Stats:       graph.NewStatisticsContainer(),
	}
	if _, err := graph.FastAdd(g, graph.NodeID(req.ID), req.Value, opts); err != nil {
		return err
	}
	s.metrics.RecordNodeAdded()
	s.metrics.UpdateGraphSize(graphID, g.Size())
	return nil
}

// RemoveItem deletes an item from the named graph via FastRemove.
func (s *Service) RemoveItem(graphID, itemID string) error {
	g, ok := s.graph(graphID)
	if !ok {
		return graph.ErrItemNotFound
	}
	opts := graph.MaintenanceOptions{UpdateDepth: s.search.UpdateDepth, Stats: graph.NewStatisticsContainer()}
	if err := graph.FastRemove(g, graph.NodeID(itemID), opts); err != nil {
		return err
	}
	s.metrics.RecordNodeRemoved(1)
	s.metrics.UpdateGraphSize(graphID, g.Size())
	return nil
}

// Export returns the named graph for the handler to write out as GEXF.
func (s *Service) Export(id string) (*graph.Graph[Vector], error) {
	g, ok := s.graph(id)
	if !ok {
		return nil, graph.ErrItemNotFound
	}
	return g, nil
}

func (s *Service) graph(id string) (*graph.Graph[Vector], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	return g, ok
}
