package api

import (
	"YouthHealth/models"
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &session)
	return session, err
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/users/register", nil, reg, &user)
	return user, err
}

func (c *Client) Consultations(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := c.do(ctx, http.MethodGet, "/consultations", filters.Query(), nil, &consultations)
	return consultations, err
}

func (c *Client) BookConsultation(ctx context.Context, req models.BookingRequest) (models.Consultation, error) {
	var consultation models.Consultation
	err := c.do(ctx, http.MethodPost, "/consultations", nil, req, &consultation)
	return consultation, err
}

func (c *Client) UpdateConsultation(ctx context.Context, id string, patch models.ConsultationPatch) (models.Consultation, error) {
	var consultation models.Consultation
	err := c.do(ctx, http.MethodPatch, "/consultations/"+url.PathEscape(id), nil, patch, &consultation)
	return consultation, err
}

func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &doctors)
	return doctors, err
}

func (c *Client) SetDoctorAvailability(ctx context.Context, id, availability string) (models.Doctor, error) {
	var doctor models.Doctor
	body := map[string]string{"availability": availability}
	err := c.do(ctx, http.MethodPatch, "/doctors/"+url.PathEscape(id)+"/availability", nil, body, &doctor)
	return doctor, err
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users)
	return users, err
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, http.MethodGet, "/dashboard-stats", nil, nil, &stats)
	return stats, err
}

func (c *Client) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	var activity []models.Activity
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	err := c.do(ctx, http.MethodGet, "/activity", q, nil, &activity)
	return activity, err
}

func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil, &user)
	return user, err
}

func (c *Client) UpdateProfile(ctx context.Context, patch models.UserPatch) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPatch, "/user/profile", nil, patch, &user)
	return user, err
}

func (c *Client) SendMessage(ctx context.Context, msg models.OutgoingMessage) (models.Message, error) {
	var message models.Message
	err := c.do(ctx, http.MethodPost, "/messages", nil, msg, &message)
	return message, err
}

func (c *Client) GetInTouch(ctx context.Context, req models.ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/getInTouch", nil, req, nil)
}

func (c *Client) HealthGameStats(ctx context.Context) (models.HealthGameStats, error) {
	var stats models.HealthGameStats
	err := c.do(ctx, http.MethodGet, "/analytics/games", nil, nil, &stats)
	return stats, err
}

func (c *Client) Engagement(ctx context.Context, days int) ([]models.EngagementPoint, error) {
	var points []models.EngagementPoint
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	err := c.do(ctx, http.MethodGet, "/analytics/engagement", q, nil, &points)
	return points, err
}
