package domain

import "time"

// RiskBand agrupa la probabilidad en tres niveles cualitativos.
type RiskBand string

const (
	RiskBandLow    RiskBand = "low"
	RiskBandMedium RiskBand = "medium"
	RiskBandHigh   RiskBand = "high"
)

// Rank ordena las bandas de mejor (0) a peor (2). Banda vacia devuelve -1.
func (b RiskBand) Rank() int {
	switch b {
	case RiskBandLow:
		return 0
	case RiskBandMedium:
		return 1
	case RiskBandHigh:
		return 2
	}
	return -1
}

// ScoreResult es el resultado derivado de un ApplicationRecord. No se guarda.
type ScoreResult struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	Probability float64   `json:"probability"` // probabilidad de reembolso (clase 1)
	Approved    bool      `json:"approved"`
	RiskBand    RiskBand  `json:"risk_band,omitempty"`
	Message     string    `json:"message"`
	ScoredAt    time.Time `json:"scored_at"`
}

// Decision devuelve "approve" o "refuse".
func (s ScoreResult) Decision() string {
	if s.Approved {
		return "approve"
	}
	return "refuse"
}

// RepaymentPercent devuelve la probabilidad de reembolso en porcentaje.
func (s ScoreResult) RepaymentPercent() float64 {
	return s.Probability * 100
}

// DefaultRiskPercent devuelve el complemento (riesgo de impago) en porcentaje.
func (s ScoreResult) DefaultRiskPercent() float64 {
	return (1 - s.Probability) * 100
}

// FeatureImportance es un par (feature, score) expuesto por el modelo.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}
