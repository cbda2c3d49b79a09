package controllers

import (
	"YouthHealth/handlers"
	"YouthHealth/middlewares"
	"YouthHealth/models"
	"YouthHealth/utils"

	"github.com/gin-gonic/gin"
)

// DashboardController wires the authenticated REST surface.
type DashboardController struct {
	Tokens        *utils.TokenMaker
	Consultations *handlers.ConsultationHandler
	Doctors       *handlers.DoctorHandler
	Users         *handlers.UserHandler
	Analytics     *handlers.AnalyticsHandler
	Messages      *handlers.MessageHandler
}

func (dc *DashboardController) RegisterRoutes(router gin.IRouter) {
	router.POST("/getInTouch", dc.Messages.GetInTouch)

	authed := router.Group("/", middlewares.TokenAuthMiddleware(dc.Tokens))
	{
		authed.GET("/doctors", dc.Doctors.GetAllDoctors)
		authed.POST("/consultations", dc.Consultations.BookConsultation)
		authed.GET("/user/profile", dc.Users.GetProfile)
		authed.PATCH("/user/profile", dc.Users.UpdateProfile)
		authed.POST("/messages", dc.Messages.SendMessage)
		authed.POST("/activity/achievements", dc.Analytics.RecordAchievement)
	}

	staff := router.Group("/",
		middlewares.TokenAuthMiddleware(dc.Tokens),
		middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor),
	)
	{
		staff.GET("/consultations", dc.Consultations.GetConsultations)
		staff.PATCH("/consultations/:id", dc.Consultations.UpdateConsultation)
		staff.PATCH("/users/:id/risk", dc.Users.SetRisk)
	}

	admin := router.Group("/",
		middlewares.TokenAuthMiddleware(dc.Tokens),
		middlewares.RoleAuthMiddleware(models.RoleAdmin),
	)
	{
		admin.GET("/users", dc.Users.GetAllUsers)
		admin.PATCH("/doctors/:id/availability", dc.Doctors.SetAvailability)
		admin.GET("/dashboard-stats", dc.Analytics.GetDashboardStats)
		admin.GET("/activity", dc.Analytics.GetRecentActivity)
		admin.GET("/analytics/games", dc.Analytics.GetHealthGameStats)
		admin.GET("/analytics/engagement", dc.Analytics.GetEngagement)
	}
}
