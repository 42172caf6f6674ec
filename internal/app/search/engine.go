// Package search ranks a video's chunk embeddings against a query.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"vidseek/internal/app/embedding/provider"
	"vidseek/internal/app/embedding/similarity"
	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/model"
)

// Relevance defaults
const (
	DefaultMinThreshold      = 0.3
	DefaultRelativeThreshold = 0.6
	DefaultMaxResults        = 8
)

// Config tunes the adaptive relevance filter
type Config struct {
	MinThreshold      float64 `yaml:"min_threshold" validate:"gte=-1,lte=1"`
	RelativeThreshold float64 `yaml:"relative_threshold" validate:"gte=0,lte=1"`
	MaxResults        int     `yaml:"max_results" validate:"gte=1"`
}

// DefaultConfig returns the standard filter settings
func DefaultConfig() Config {
	return Config{
		MinThreshold:      DefaultMinThreshold,
		RelativeThreshold: DefaultRelativeThreshold,
		MaxResults:        DefaultMaxResults,
	}
}

// Engine embeds a query and scores it against chunk embeddings
type Engine struct {
	calculator similarity.Calculator
	config     Config
	logger     *zap.Logger
}

// NewEngine creates a search engine. Zero config fields take the defaults.
func NewEngine(calculator similarity.Calculator, cfg Config, logger *zap.Logger) *Engine {
	if calculator == nil {
		calculator = similarity.NewCosine()
	}
	def := DefaultConfig()
	if cfg.MinThreshold == 0 {
		cfg.MinThreshold = def.MinThreshold
	}
	if cfg.RelativeThreshold == 0 {
		cfg.RelativeThreshold = def.RelativeThreshold
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{calculator: calculator, config: cfg, logger: logger}
}

// Search returns the relevant chunks for query, best first
func (e *Engine) Search(ctx context.Context, query string, embeddings []model.ChunkEmbedding, p provider.EmbeddingProvider) ([]model.SearchResult, error) {
	if len(embeddings) == 0 {
		return nil, apperrors.ErrNoEmbeddingsAvailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	queryVec, err := p.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored := make([]model.SearchResult, 0, len(embeddings))
	skipped := 0
	for _, ce := range embeddings {
		sim, err := e.calculator.Calculate(queryVec, ce.Embedding)
		if err != nil {
			skipped++
			continue
		}
		scored = append(scored, model.SearchResult{
			StartTime:  ce.StartTime,
			EndTime:    ce.EndTime,
			Text:       ce.Text,
			Similarity: sim,
		})
	}
	if skipped > 0 {
		e.logger.Warn("Skipped chunks with mismatched dimension",
			zap.Int("skipped", skipped),
			zap.Int("query_dimension", len(queryVec)))
	}

	results := e.Rank(scored)
	e.logger.Debug("Search complete",
		zap.Int("candidates", len(scored)),
		zap.Int("results", len(results)))
	return results, nil
}

// Threshold is max(MinThreshold, best*RelativeThreshold)
func (e *Engine) Threshold(best float64) float64 {
	return math.Max(e.config.MinThreshold, best*e.config.RelativeThreshold)
}

// Rank sorts scored results by descending similarity, keeps those strictly
// above the adaptive threshold and caps the list.
func (e *Engine) Rank(scored []model.SearchResult) []model.SearchResult {
	if len(scored) == 0 {
		return []model.SearchResult{}
	}

	ranked := make([]model.SearchResult, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Similarity > ranked[j].Similarity })

	threshold := e.Threshold(ranked[0].Similarity)
	out := make([]model.SearchResult, 0, e.config.MaxResults)
	for _, r := range ranked {
		if r.Similarity <= threshold || len(out) == e.config.MaxResults {
			break
		}
		out = append(out, r)
	}
	return out
}
