package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credit-scoring/internal/domain"
	"credit-scoring/internal/service"
)

const pageTemplate = "index.html"

// ScoreHandler mantiene dependencias para el formulario y la API de scoring.
type ScoreHandler struct {
	logger      *zap.Logger
	scoring     *service.ScoringService
	importances *service.ImportanceService
	topN        int
}

// NewScoreHandler crea una instancia de ScoreHandler con dependencias necesarias.
func NewScoreHandler(logger *zap.Logger, scoring *service.ScoringService, importances *service.ImportanceService, topN int) *ScoreHandler {
	if topN <= 0 {
		topN = 10
	}
	return &ScoreHandler{
		logger:      logger,
		scoring:     scoring,
		importances: importances,
		topN:        topN,
	}
}

type scoreRequest struct {
	Variant          string   `form:"variant" json:"variant"`
	EmploymentStatus string   `form:"employment_status" json:"employment_status" binding:"required"`
	InterestRate     *float64 `form:"interest_rate" json:"interest_rate" binding:"required"`
	EducationLevel   string   `form:"education_level" json:"education_level" binding:"required"`
}

func (r scoreRequest) record() domain.ApplicationRecord {
	return domain.ApplicationRecord{
		EmploymentStatus: r.EmploymentStatus,
		InterestRate:     *r.InterestRate,
		EducationLevel:   r.EducationLevel,
	}
}

// ShowForm maneja GET /.
func (h *ScoreHandler) ShowForm(c *gin.Context) {
	page, _ := h.page(c.Query("variant"))
	c.HTML(http.StatusOK, pageTemplate, page)
}

// SubmitForm maneja POST /score.
func (h *ScoreHandler) SubmitForm(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid score form", zap.Error(err))
		page, _ := h.page(c.PostForm("variant"))
		page.Form = FormValues{
			EmploymentStatus: c.PostForm("employment_status"),
			InterestRate:     c.PostForm("interest_rate"),
			EducationLevel:   c.PostForm("education_level"),
		}
		page.Error = "Please fill in every field with a valid value."
		c.HTML(http.StatusBadRequest, pageTemplate, page)
		return
	}

	page, ok := h.page(req.Variant)
	if !ok {
		page.Info = "Unknown variant, showing the default form."
		c.HTML(http.StatusOK, pageTemplate, page)
		return
	}
	page.Form = FormValues{
		EmploymentStatus: req.EmploymentStatus,
		InterestRate:     strconv.FormatFloat(*req.InterestRate, 'f', -1, 64),
		EducationLevel:   req.EducationLevel,
	}

	result, err := h.scoring.Score(c.Request.Context(), page.Variant.Name, req.record())
	if err != nil {
		status := http.StatusOK
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.logger.Warn("score rejected", zap.Error(err))
			status = http.StatusBadRequest
			page.Error = "The submitted values are outside the allowed choices."
		case errors.Is(err, service.ErrSchemaMismatch):
			h.logger.Error("model schema mismatch", zap.Error(err))
			page.Info = "The model could not score this application: its inputs do not match the trained schema."
		default:
			h.logger.Error("score failed", zap.Error(err))
			page.Info = "The model is unavailable right now. Please try again."
		}
		c.HTML(status, pageTemplate, page)
		return
	}

	page.Result = newResultView(page.Variant, result)
	if page.Variant.ShowImportances {
		top, err := h.importances.Top(c.Request.Context(), h.topN)
		if err != nil {
			h.logger.Info("feature importances unavailable", zap.Error(err))
			page.Result.ChartMessage = "Feature importances are not available for this model."
		} else {
			page.Result.Chart = newChartView(top)
		}
	}
	c.HTML(http.StatusOK, pageTemplate, page)
}

// RejectForm responde al limite de envios en el formulario.
func (h *ScoreHandler) RejectForm(c *gin.Context) {
	page, _ := h.page(c.PostForm("variant"))
	page.Error = "Too many requests. Please wait a moment."
	c.HTML(http.StatusTooManyRequests, pageTemplate, page)
}

// ScoreJSON maneja POST /api/score.
func (h *ScoreHandler) ScoreJSON(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.scoring.Score(c.Request.Context(), req.Variant, req.record())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownVariant):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown variant"})
		case errors.Is(err, service.ErrInvalidInput):
			h.logger.Warn("score rejected", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSchemaMismatch):
			h.logger.Error("model schema mismatch", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "record does not match model schema"})
		default:
			h.logger.Error("score failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not score application"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":   result,
		"decision": result.Decision(),
		"metrics":  newScoreMetrics(result),
	})
}

// RejectJSON responde al limite de envios en la API.
func (h *ScoreHandler) RejectJSON(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": service.ErrRateLimited.Error()})
}

// Importances maneja GET /api/importances.
func (h *ScoreHandler) Importances(c *gin.Context) {
	limit := h.topN
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	top, err := h.importances.Top(c.Request.Context(), limit)
	if err != nil {
		h.logger.Info("feature importances unavailable", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"available": false,
			"message":   "feature importances are not available for this model",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "importances": top})
}

// page arma la pagina para una variante; si no existe usa la por defecto.
func (h *ScoreHandler) page(variantName string) (PageView, bool) {
	catalog := h.scoring.Catalog()
	v, err := catalog.Get(variantName)
	ok := err == nil
	if !ok {
		v = catalog.Default()
	}
	return newPageView(catalog.List(), v), ok
}
