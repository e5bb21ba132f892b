package model

import (
	"context"
	"sync/atomic"

	"credit-scoring/internal/domain"
)

// MockClassifier permite tests sin un modelo real.
type MockClassifier struct {
	Proba []float64
	Err   error
	calls atomic.Int64
}

func (m *MockClassifier) PredictProba(ctx context.Context, record domain.ApplicationRecord) ([]float64, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Proba, nil
}

// Calls devuelve cuantas veces se llamo PredictProba.
func (m *MockClassifier) Calls() int64 {
	return m.calls.Load()
}

// MockIntrospector agrega nombres e importancias a MockClassifier.
type MockIntrospector struct {
	MockClassifier
	Names     []string
	Scores    []float64
	NamesErr  error
	ScoresErr error
}

func (m *MockIntrospector) FeatureNames() ([]string, error) {
	return m.Names, m.NamesErr
}

func (m *MockIntrospector) Importances() ([]float64, error) {
	return m.Scores, m.ScoresErr
}
