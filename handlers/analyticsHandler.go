package handlers

import (
	"YouthHealth/middlewares"
	"YouthHealth/models"
	"YouthHealth/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit  = 20
	defaultEngagementDays = 30
)

type AnalyticsHandler struct {
	service services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetRecentActivity(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultActivityLimit)
	if !ok {
		return
	}
	activities, err := h.service.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	c.JSON(http.StatusOK, activities)
}

func (h *AnalyticsHandler) RecordAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var achievement models.Achievement
	if !bindJSON(c, &achievement) {
		return
	}

	activity, err := h.service.RecordAchievement(c.Request.Context(), userID, achievement)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *AnalyticsHandler) GetHealthGameStats(c *gin.Context) {
	stats, err := h.service.HealthGameStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetEngagement(c *gin.Context) {
	days, ok := intQuery(c, "days", defaultEngagementDays)
	if !ok {
		return
	}
	points, err := h.service.Engagement(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	if points == nil {
		points = []models.EngagementPoint{}
	}
	c.JSON(http.StatusOK, points)
}

func intQuery(c *gin.Context, key string, defaultValue int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		middlewares.HttpError(c, "Invalid "+key, http.StatusBadRequest, err)
		return 0, false
	}
	return n, true
}
