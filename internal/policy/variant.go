package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"credit-scoring/internal/domain"
)

// Nombres de las variantes incluidas.
const (
	VariantClassic   = "classic"
	VariantDashboard = "dashboard"
)

var ErrInvalidVariant = errors.New("invalid variant")

// DecisionPolicy aprueba cuando p > Threshold (o p >= Threshold si Inclusive).
type DecisionPolicy struct {
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
	Inclusive bool    `mapstructure:"inclusive" json:"inclusive"`
}

// Approve aplica el umbral.
func (d DecisionPolicy) Approve(p float64) bool {
	if d.Inclusive {
		return p >= d.Threshold
	}
	return p > d.Threshold
}

// RiskBandPolicy: low si p > LowAbove, medium si p > MediumAbove, si no high.
type RiskBandPolicy struct {
	LowAbove    float64 `mapstructure:"low_above" json:"low_above"`
	MediumAbove float64 `mapstructure:"medium_above" json:"medium_above"`
}

// Band clasifica la probabilidad.
func (r RiskBandPolicy) Band(p float64) domain.RiskBand {
	switch {
	case p > r.LowAbove:
		return domain.RiskBandLow
	case p > r.MediumAbove:
		return domain.RiskBandMedium
	default:
		return domain.RiskBandHigh
	}
}

// Range describe el slider de tasa de interes.
type Range struct {
	Min     float64 `mapstructure:"min" json:"min"`
	Max     float64 `mapstructure:"max" json:"max"`
	Step    float64 `mapstructure:"step" json:"step"`
	Default float64 `mapstructure:"default" json:"default"`
}

// Contains indica si v cae dentro de [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Domains son los dominios cerrados de los tres campos del formulario.
type Domains struct {
	EmploymentStatuses []string `mapstructure:"employment_statuses" json:"employment_statuses"`
	EducationLevels    []string `mapstructure:"education_levels" json:"education_levels"`
	InterestRate       Range    `mapstructure:"interest_rate" json:"interest_rate"`
}

// Messages son los textos que acompañan la decision.
type Messages struct {
	Approved string `mapstructure:"approved" json:"approved"`
	Refused  string `mapstructure:"refused" json:"refused"`
}

// Variant agrupa umbrales, dominios y opciones de presentacion.
type Variant struct {
	Name            string          `mapstructure:"name" json:"name"`
	Title           string          `mapstructure:"title" json:"title"`
	Decision        DecisionPolicy  `mapstructure:"decision" json:"decision"`
	RiskBands       *RiskBandPolicy `mapstructure:"risk_bands" json:"risk_bands,omitempty"`
	Domains         Domains         `mapstructure:"domains" json:"domains"`
	Messages        Messages        `mapstructure:"messages" json:"messages"`
	ShowSummary     bool            `mapstructure:"show_summary" json:"show_summary"`
	ShowImportances bool            `mapstructure:"show_importances" json:"show_importances"`
}

// Classify aplica decision y banda de riesgo. La banda queda vacia si la
// variante no define cortes.
func (v Variant) Classify(p float64) (approved bool, band domain.RiskBand, message string) {
	approved = v.Decision.Approve(p)
	if v.RiskBands != nil {
		band = v.RiskBands.Band(p)
	}
	message = v.Messages.Refused
	if approved {
		message = v.Messages.Approved
	}
	return approved, band, message
}

// CheckRecord verifica que el registro pertenezca a los dominios declarados.
// La comparacion distingue mayusculas.
func (v Variant) CheckRecord(r domain.ApplicationRecord) error {
	if !slices.Contains(v.Domains.EmploymentStatuses, r.EmploymentStatus) {
		return fmt.Errorf("%s %q not in %v", domain.ColumnEmploymentStatus, r.EmploymentStatus, v.Domains.EmploymentStatuses)
	}
	if !slices.Contains(v.Domains.EducationLevels, r.EducationLevel) {
		return fmt.Errorf("%s %q not in %v", domain.ColumnEducationLevel, r.EducationLevel, v.Domains.EducationLevels)
	}
	if !v.Domains.InterestRate.Contains(r.InterestRate) {
		return fmt.Errorf("%s %v outside [%v, %v]", domain.ColumnInterestRate, r.InterestRate, v.Domains.InterestRate.Min, v.Domains.InterestRate.Max)
	}
	return nil
}

// Validate revisa la coherencia interna de la variante.
func (v Variant) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVariant)
	}
	if v.Decision.Threshold < 0 || v.Decision.Threshold > 1 {
		return fmt.Errorf("%w: %s: threshold %v outside [0, 1]", ErrInvalidVariant, v.Name, v.Decision.Threshold)
	}
	if rb := v.RiskBands; rb != nil {
		if rb.LowAbove < 0 || rb.LowAbove > 1 || rb.MediumAbove < 0 || rb.MediumAbove > 1 {
			return fmt.Errorf("%w: %s: risk band cutoffs outside [0, 1]", ErrInvalidVariant, v.Name)
		}
		if rb.MediumAbove > rb.LowAbove {
			return fmt.Errorf("%w: %s: medium cutoff %v above low cutoff %v", ErrInvalidVariant, v.Name, rb.MediumAbove, rb.LowAbove)
		}
	}
	if len(v.Domains.EmploymentStatuses) == 0 || len(v.Domains.EducationLevels) == 0 {
		return fmt.Errorf("%w: %s: categorical domains must not be empty", ErrInvalidVariant, v.Name)
	}
	rate := v.Domains.InterestRate
	if rate.Min >= rate.Max {
		return fmt.Errorf("%w: %s: interest rate min %v must be below max %v", ErrInvalidVariant, v.Name, rate.Min, rate.Max)
	}
	if rate.Step <= 0 {
		return fmt.Errorf("%w: %s: interest rate step must be positive", ErrInvalidVariant, v.Name)
	}
	if !rate.Contains(rate.Default) {
		return fmt.Errorf("%w: %s: interest rate default %v outside range", ErrInvalidVariant, v.Name, rate.Default)
	}
	return nil
}

// Classic reproduce la primera version del formulario: umbral 0.6 estricto.
// La rama "entre 0.5 y 0.6" de aquella version rechazaba igual que p <= 0.5,
// asi que todo p <= 0.6 se rechaza con el mismo mensaje.
func Classic() Variant {
	return Variant{
		Name:     VariantClassic,
		Title:    "Credit Risk Scoring",
		Decision: DecisionPolicy{Threshold: 0.6},
		Domains: Domains{
			EmploymentStatuses: []string{"Self-employed", "Employed", "Unemployed", "Retired", "Student"},
			EducationLevels:    []string{"High School", "Master's", "Bachelor's", "PhD", "Other"},
			InterestRate:       Range{Min: 0, Max: 30, Step: 0.01, Default: 10},
		},
		Messages: Messages{
			Approved: "High repayment probability - good credit",
			Refused:  "Low repayment probability - refusal recommended",
		},
	}
}

// Dashboard es la version con metricas resumen y grafico de importancias.
func Dashboard() Variant {
	return Variant{
		Name:      VariantDashboard,
		Title:     "Credit Scoring Dashboard",
		Decision:  DecisionPolicy{Threshold: 0.5, Inclusive: true},
		RiskBands: &RiskBandPolicy{LowAbove: 0.7, MediumAbove: 0.5},
		Domains: Domains{
			EmploymentStatuses: []string{"Employed", "Self-Employed", "Unemployed", "Retired", "Student"},
			EducationLevels:    []string{"High School", "Bachelor's", "Master's", "PhD", "Other"},
			InterestRate:       Range{Min: 1, Max: 30, Step: 0.1, Default: 10},
		},
		Messages: Messages{
			Approved: "Credit approved",
			Refused:  "Credit refused",
		},
		ShowSummary:     true,
		ShowImportances: true,
	}
}
