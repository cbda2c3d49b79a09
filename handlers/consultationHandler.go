package handlers

import (
	"YouthHealth/middlewares"
	"YouthHealth/models"
	"YouthHealth/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	service services.ConsultationService
}

func NewConsultationHandler(service services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

func (h *ConsultationHandler) GetConsultations(c *gin.Context) {
	filters, err := models.ParseConsultationFilters(c.Request.URL.Query())
	if err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	consultations, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	c.JSON(http.StatusOK, consultations)
}

func (h *ConsultationHandler) BookConsultation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	consultation, err := h.service.Book(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) UpdateConsultation(c *gin.Context) {
	var patch models.ConsultationPatch
	if !bindJSON(c, &patch) {
		return
	}

	consultation, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}
