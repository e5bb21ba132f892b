package service

import (
	"context"
	"fmt"
	"sort"

	"credit-scoring/internal/domain"
	"credit-scoring/internal/metrics"
	"credit-scoring/internal/model"
)

// ImportanceService reporta las importancias de features del modelo cargado.
type ImportanceService struct {
	classifier model.Classifier
}

func NewImportanceService(classifier model.Classifier) *ImportanceService {
	return &ImportanceService{classifier: classifier}
}

// Top devuelve hasta n pares ordenados de mayor a menor importancia.
// Si el modelo no se puede descomponer devuelve ErrImportanceUnavailable.
func (s *ImportanceService) Top(_ context.Context, n int) ([]domain.FeatureImportance, error) {
	out, err := s.top(n)
	if err != nil {
		metrics.ImportanceRequests.WithLabelValues("false").Inc()
		return nil, err
	}
	metrics.ImportanceRequests.WithLabelValues("true").Inc()
	return out, nil
}

func (s *ImportanceService) top(n int) ([]domain.FeatureImportance, error) {
	intro, ok := s.classifier.(model.Introspector)
	if !ok {
		return nil, fmt.Errorf("%w: model does not expose feature names and importances", ErrImportanceUnavailable)
	}
	names, err := intro.FeatureNames()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportanceUnavailable, err)
	}
	scores, err := intro.Importances()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportanceUnavailable, err)
	}
	if len(names) == 0 || len(names) != len(scores) {
		return nil, fmt.Errorf("%w: %d names for %d scores", ErrImportanceUnavailable, len(names), len(scores))
	}

	pairs := make([]domain.FeatureImportance, len(names))
	for i := range names {
		pairs[i] = domain.FeatureImportance{Feature: names[i], Score: scores[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs, nil
}
