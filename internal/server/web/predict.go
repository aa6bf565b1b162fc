package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/server/predict"
)

func (s *Server) predictOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.predictor.Options())
}

func (s *Server) predict(c *gin.Context) {
	var in predict.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	b, err := s.predictor.Estimate(c.Request.Context(), in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true, "input": in, "breakdown": b})
	case errors.Is(err, common.ErrModelNotLoaded):
		reject(c, http.StatusServiceUnavailable, "Prediction model is not available")
	case errors.Is(err, common.ErrUnknownCategory), errors.Is(err, common.ErrValidation):
		reject(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(c.Request.Context(), "prediction failed", "error", err)
		reject(c, http.StatusInternalServerError, "internal error")
	}
}
