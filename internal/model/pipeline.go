package model

import (
	"context"
	"fmt"
	"math"
	"slices"

	"credit-scoring/internal/domain"
)

// Pipeline es un clasificador local: pasos de codificacion seguidos de un
// estimador logistico. Es inmutable despues de construido y seguro para uso
// concurrente.
type Pipeline struct {
	name         string
	digest       string
	inputColumns []string
	steps        []Step
	featureNames []string
	coefficients []float64
	intercept    float64
	importances  []float64
}

func newPipeline(a Artifact, digest string) (*Pipeline, error) {
	var names []string
	for _, s := range a.Steps {
		for _, col := range s.Columns {
			if !slices.Contains(a.InputColumns, col) {
				return nil, fmt.Errorf("step %s: column %q not in input_columns", s.Name, col)
			}
		}
		switch s.Kind {
		case StepOneHot:
			if len(s.Categories) != len(s.Columns) {
				return nil, fmt.Errorf("step %s: %d category lists for %d columns", s.Name, len(s.Categories), len(s.Columns))
			}
			for i, col := range s.Columns {
				for _, cat := range s.Categories[i] {
					names = append(names, s.Name+"__"+col+"_"+cat)
				}
			}
		case StepPassthrough:
			for _, col := range s.Columns {
				names = append(names, s.Name+"__"+col)
			}
		default:
			return nil, fmt.Errorf("step %s: unsupported kind %q", s.Name, s.Kind)
		}
	}

	if a.Estimator.Kind != EstimatorLogistic {
		return nil, fmt.Errorf("unsupported estimator %q", a.Estimator.Kind)
	}
	if len(a.Estimator.Coefficients) != len(names) {
		return nil, fmt.Errorf("estimator has %d coefficients for %d features", len(a.Estimator.Coefficients), len(names))
	}

	return &Pipeline{
		name:         a.Name,
		digest:       digest,
		inputColumns: slices.Clone(a.InputColumns),
		steps:        a.Steps,
		featureNames: names,
		coefficients: slices.Clone(a.Estimator.Coefficients),
		intercept:    a.Estimator.Intercept,
		importances:  slices.Clone(a.Estimator.FeatureImportances),
	}, nil
}

// Name devuelve el nombre declarado en el artefacto.
func (p *Pipeline) Name() string { return p.name }

// Digest devuelve el BLAKE2b-256 del artefacto en hex.
func (p *Pipeline) Digest() string { return p.digest }

// PredictProba transforma el registro y aplica el estimador.
func (p *Pipeline) PredictProba(ctx context.Context, record domain.ApplicationRecord) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !sameColumns(p.inputColumns, record) {
		return nil, fmt.Errorf("%w: model expects columns %v, got %v", ErrSchemaMismatch, p.inputColumns, record.Columns())
	}

	features, err := p.transform(record)
	if err != nil {
		return nil, err
	}

	z := p.intercept
	for i, x := range features {
		z += p.coefficients[i] * x
	}
	p1 := 1 / (1 + math.Exp(-z))
	return []float64{1 - p1, p1}, nil
}

func (p *Pipeline) transform(record domain.ApplicationRecord) ([]float64, error) {
	out := make([]float64, 0, len(p.featureNames))
	for _, s := range p.steps {
		for i, col := range s.Columns {
			raw, _ := record.Value(col)
			switch s.Kind {
			case StepOneHot:
				val, ok := raw.(string)
				if !ok {
					return nil, fmt.Errorf("%w: column %s is not categorical", ErrSchemaMismatch, col)
				}
				cats := s.Categories[i]
				idx := slices.Index(cats, val)
				if idx < 0 && s.HandleUnknown != HandleUnknownIgnore {
					return nil, fmt.Errorf("%w: unknown category %q for %s", ErrSchemaMismatch, val, col)
				}
				for j := range cats {
					if j == idx {
						out = append(out, 1)
					} else {
						out = append(out, 0)
					}
				}
			case StepPassthrough:
				val, ok := raw.(float64)
				if !ok {
					return nil, fmt.Errorf("%w: column %s is not numeric", ErrSchemaMismatch, col)
				}
				out = append(out, val)
			}
		}
	}
	return out, nil
}

// FeatureNames devuelve los nombres post-transformacion.
func (p *Pipeline) FeatureNames() ([]string, error) {
	return slices.Clone(p.featureNames), nil
}

// Importances devuelve las importancias declaradas en el artefacto.
func (p *Pipeline) Importances() ([]float64, error) {
	if len(p.importances) == 0 {
		return nil, fmt.Errorf("%w: estimator declares no feature_importances", ErrImportanceUnavailable)
	}
	if len(p.importances) != len(p.featureNames) {
		return nil, fmt.Errorf("%w: %d importances for %d features", ErrImportanceUnavailable, len(p.importances), len(p.featureNames))
	}
	return slices.Clone(p.importances), nil
}
