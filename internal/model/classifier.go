package model

import (
	"context"
	"errors"
	"slices"

	"credit-scoring/internal/domain"
)

var (
	// ErrModelLoad indica que el artefacto no se pudo cargar. Es fatal al arrancar.
	ErrModelLoad = errors.New("model load failure")
	// ErrSchemaMismatch indica que el registro no coincide con el esquema entrenado.
	ErrSchemaMismatch = errors.New("record does not match model schema")
	// ErrImportanceUnavailable indica que el modelo no expone importancias.
	ErrImportanceUnavailable = errors.New("feature importances unavailable")
)

// Classifier es la capacidad externa de estimacion de probabilidades.
// PredictProba devuelve [p_clase0, p_clase1] para un registro.
type Classifier interface {
	PredictProba(ctx context.Context, record domain.ApplicationRecord) ([]float64, error)
}

// Introspector expone nombres de features post-transformacion e importancias
// alineadas por posicion. Es opcional.
type Introspector interface {
	FeatureNames() ([]string, error)
	Importances() ([]float64, error)
}

// Digester identifica la version cargada del modelo.
type Digester interface {
	Digest() string
}

// DigestOf devuelve el digest del clasificador o "" si no lo expone.
func DigestOf(c Classifier) string {
	if d, ok := c.(Digester); ok {
		return d.Digest()
	}
	return ""
}

func sameColumns(expected []string, record domain.ApplicationRecord) bool {
	return slices.Equal(expected, record.Columns())
}
