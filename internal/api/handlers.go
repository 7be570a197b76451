package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
)

// #region handlers

// Handlers serves the forecast endpoints over one predictor.
type Handlers struct {
	predictor *predictor.Predictor
	now       func() time.Time
	logger    *zap.Logger
}

// IngestRequest is the body of POST /api/history.
type IngestRequest struct {
	Observations []history.Observation `json:"observations" binding:"required,min=1"`
}

// CurrentPrediction handles GET /api/current-prediction.
func (h *Handlers) CurrentPrediction(c *gin.Context) {
	now := h.now()
	pred := h.predictor.Current(now, "api")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"prediction": pred,
		"timestamp":  now.In(h.predictor.Location()).Format(time.RFC3339),
	})
}

// NumberWise handles GET /api/number-wise-predictions.
func (h *Handlers) NumberWise(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"success":                 true,
		"number_wise_predictions": h.predictor.NumberWise(now),
		"round_info":              h.predictor.Round(now),
		"timestamp":               now.In(h.predictor.Location()).Format(time.RFC3339),
	})
}

// Statistics handles GET /api/statistics.
func (h *Handlers) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"statistics": h.predictor.Statistics(),
	})
}

// Refresh handles GET and POST /api/refresh.
func (h *Handlers) Refresh(c *gin.Context) {
	h.predictor.Refresh()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data refreshed successfully",
	})
}

// Ingest handles POST /api/history.
func (h *Handlers) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.predictor.Ingest(req.Observations...); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrInvalidObservation) {
			status = http.StatusBadRequest
		} else {
			h.logger.Error("ingest failed", zap.Error(err))
		}
		fail(c, status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"ingested": len(req.Observations),
		"total":    h.predictor.History().Len(),
	})
}

// Health handles GET /healthz.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"sequence_len": h.predictor.History().Len(),
		"cache":        h.predictor.CacheStats(),
	})
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// #endregion handlers
