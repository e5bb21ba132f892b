package http

import (
	"fmt"
	"strconv"

	"credit-scoring/internal/domain"
	"credit-scoring/internal/policy"
)

const (
	chartWidth     = 640
	chartLabelW    = 260
	chartRowHeight = 26
	chartBarHeight = 18
)

// FormValues son los valores actuales del formulario.
type FormValues struct {
	EmploymentStatus string
	InterestRate     string
	EducationLevel   string
}

// PageView es el modelo de la pagina principal.
type PageView struct {
	Variants []policy.Variant
	Variant  policy.Variant
	Form     FormValues
	Result   *ResultView
	Error    string
	Info     string
}

// ResultView agrupa lo que se muestra tras un scoring.
type ResultView struct {
	Result             domain.ScoreResult
	RepaymentPercent   string
	DefaultRiskPercent string
	RiskBand           string
	ShowSummary        bool
	Chart              *ChartView
	ChartMessage       string
}

// ChartView es un grafico de barras horizontales. Bars va en orden
// ascendente; la ultima barra (la mayor) se dibuja arriba.
type ChartView struct {
	Width  int
	Height int
	Bars   []BarView
}

type BarView struct {
	Feature string
	Score   string
	X       int
	Y       int
	Width   int
	Height  int
	LabelY  int
	ScoreX  int
}

// ScoreMetrics son las metricas resumen de un resultado.
type ScoreMetrics struct {
	RepaymentProbability string `json:"repayment_probability"`
	DefaultRisk          string `json:"default_risk"`
	RiskBand             string `json:"risk_band,omitempty"`
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func newScoreMetrics(r domain.ScoreResult) ScoreMetrics {
	return ScoreMetrics{
		RepaymentProbability: formatPercent(r.RepaymentPercent()),
		DefaultRisk:          formatPercent(r.DefaultRiskPercent()),
		RiskBand:             string(r.RiskBand),
	}
}

func newPageView(variants []policy.Variant, v policy.Variant) PageView {
	return PageView{
		Variants: variants,
		Variant:  v,
		Form: FormValues{
			EmploymentStatus: first(v.Domains.EmploymentStatuses),
			InterestRate:     strconv.FormatFloat(v.Domains.InterestRate.Default, 'f', -1, 64),
			EducationLevel:   first(v.Domains.EducationLevels),
		},
	}
}

func newResultView(v policy.Variant, r domain.ScoreResult) *ResultView {
	m := newScoreMetrics(r)
	return &ResultView{
		Result:             r,
		RepaymentPercent:   m.RepaymentProbability,
		DefaultRiskPercent: m.DefaultRisk,
		RiskBand:           m.RiskBand,
		ShowSummary:        v.ShowSummary,
	}
}

// newChartView recibe los pares en orden descendente y los invierte.
func newChartView(top []domain.FeatureImportance) *ChartView {
	n := len(top)
	if n == 0 {
		return nil
	}
	maxScore := top[0].Score
	for _, fi := range top {
		if fi.Score > maxScore {
			maxScore = fi.Score
		}
	}

	barSpace := chartWidth - chartLabelW - 60
	chart := &ChartView{Width: chartWidth, Height: n * chartRowHeight}
	for i := n - 1; i >= 0; i-- {
		fi := top[i]
		pos := n - 1 - i // posicion en orden ascendente
		w := 0
		if maxScore > 0 {
			w = int(fi.Score / maxScore * float64(barSpace))
		}
		y := (n - 1 - pos) * chartRowHeight
		chart.Bars = append(chart.Bars, BarView{
			Feature: fi.Feature,
			Score:   strconv.FormatFloat(fi.Score, 'f', 3, 64),
			X:       chartLabelW,
			Y:       y + (chartRowHeight-chartBarHeight)/2,
			Width:   w,
			Height:  chartBarHeight,
			LabelY:  y + chartRowHeight/2 + 4,
			ScoreX:  chartLabelW + w + 4,
		})
	}
	return chart
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
