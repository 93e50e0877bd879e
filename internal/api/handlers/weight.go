package handlers

import (
	"net/http"

	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/service"
	"fitbattle-service/internal/units"

	"github.com/gin-gonic/gin"
)

// WeightHandler serves the caller's measurements. Weight values travel in
// the caller's preferred unit.
type WeightHandler struct {
	userService   *service.UserService
	weightService *service.WeightService
}

func NewWeightHandler(userService *service.UserService, weightService *service.WeightService) *WeightHandler {
	return &WeightHandler{userService: userService, weightService: weightService}
}

// ListWeights godoc
// @Summary List measurements
// @Description Newest first. Both bounds are optional and inclusive.
// @Tags weights
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {array} models.WeightStatResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /weights [get]
func (h *WeightHandler) ListWeights(c *gin.Context) {
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}

	stats, err := h.weightService.List(c.Request.Context(), middleware.UserID(c), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]models.WeightStatResponse, 0, len(stats))
	for i := range stats {
		out = append(out, newWeightStatResponse(&stats[i], pref))
	}
	c.JSON(http.StatusOK, out)
}

// RecordWeight godoc
// @Summary Record a measurement
// @Description Stores a measurement and updates every battle the caller takes part in.
// @Tags weights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.WeightStatRequest true "At least one field"
// @Success 201 {object} models.WeightStatResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /weights [post]
func (h *WeightHandler) RecordWeight(c *gin.Context) {
	var req models.WeightStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	pref, ok := preferenceOf(c, h.userService)
	if !ok {
		return
	}

	stat, err := h.weightService.Record(c.Request.Context(), middleware.UserID(c), &models.WeightStat{
		Weight:     units.NormalizePtr(req.Weight, models.MetricWeight, pref),
		BMI:        req.BMI,
		BodyFat:    req.BodyFat,
		MuscleMass: req.MuscleMass,
		BodyWater:  req.BodyWater,
		BoneMass:   req.BoneMass,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newWeightStatResponse(stat, pref))
}
