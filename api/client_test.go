package api

import (
	"YouthHealth/models"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := NewClient(srv.URL+"/api/", logger)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.org", nil)
	assert.Error(t, err)
	_, err = NewClient("://nope", nil)
	assert.Error(t, err)
}

func TestConsultationsSendsFiltersAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/consultations", r.URL.Path)
		assert.Equal(t, "urgent", r.URL.Query().Get("priority"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]models.Consultation{{ID: "c1", Priority: "urgent"}})
	})
	c.SetToken("tok")

	got, err := c.Consultations(context.Background(), models.ConsultationFilters{Priority: "urgent"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
}

func TestLoginPostsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.org", creds.Email)
		_ = json.NewEncoder(w).Encode(models.Session{Token: "tok", User: models.User{ID: "u1"}})
	})

	sess, err := c.Login(context.Background(), models.Credentials{Email: "ada@example.org", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "u1", sess.User.ID)
}

func TestErrorResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/profile":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"token expired"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)

	_, err = c.DashboardStats(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestRecentActivityLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	})
	got, err := c.RecentActivity(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetInTouchIgnoresEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	assert.NoError(t, c.GetInTouch(context.Background(), models.ContactRequest{}))
}

func TestSetDoctorAvailability(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/doctors/d1/availability", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "busy", body["availability"])
		_ = json.NewEncoder(w).Encode(models.Doctor{ID: "d1", Availability: "busy"})
	})

	doctor, err := c.SetDoctorAvailability(context.Background(), "d1", "busy")
	require.NoError(t, err)
	assert.Equal(t, "busy", doctor.Availability)
}
