package http

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"credit-scoring/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	scoreH *ScoreHandler,
	variantH *VariantHandler,
	limiter service.RateLimiter,
	trustedProxies []string,
	modelDigest string,
) *gin.Engine {
	r := gin.New()

	// ClientIP alimenta el rate limiter: solo se lee X-Forwarded-For de proxies listados.
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// Middlewares basicos: logging y recovery.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	// Formulario.
	r.GET("/", scoreH.ShowForm)
	r.POST("/score", RateLimitMiddleware(limiter, scoreH.RejectForm), scoreH.SubmitForm)

	api := r.Group("/api", jsonContentTypeMiddleware())
	api.GET("/variants", variantH.List)
	api.GET("/variants/:name", variantH.Get)
	api.POST("/score", RateLimitMiddleware(limiter, scoreH.RejectJSON), scoreH.ScoreJSON)
	api.GET("/importances", scoreH.Importances)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model": modelDigest})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
