package handlers

import (
	"YouthHealth/models"
	"YouthHealth/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service services.DoctorService
}

func NewDoctorHandler(service services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	var body struct {
		Availability string `json:"availability"`
	}
	if !bindJSON(c, &body) {
		return
	}

	doctor, err := h.service.SetAvailability(c.Request.Context(), c.Param("id"), body.Availability)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}
