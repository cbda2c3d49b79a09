package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"YouthHealth/utils"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	event   string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, event string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event, payload})
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event)
	}
	return out
}

type memUsers struct {
	byID map[string]*models.User
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	if ok, _ := m.EmailExists(context.Background(), user.Email); ok {
		return repositories.ErrConflict
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetAll(context.Context) ([]models.User, error) { return nil, nil }

func (m *memUsers) Update(_ context.Context, id string, patch models.UserPatch) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	updated := patch.Apply(*u)
	m.byID[id] = &updated
	cp := updated
	return &cp, nil
}

func (m *memUsers) TouchLastActive(context.Context, string) error { return nil }

type memActivity struct {
	recorded     []models.Activity
	achievements int
}

func (m *memActivity) Record(_ context.Context, a *models.Activity) error {
	a.ID = "act-1"
	m.recorded = append(m.recorded, *a)
	return nil
}

func (m *memActivity) Recent(context.Context, int) ([]models.Activity, error) {
	return m.recorded, nil
}

func (m *memActivity) RecordAchievement(_ context.Context, _ *models.GamePlay, a *models.Activity) error {
	m.achievements++
	return m.Record(context.Background(), a)
}

type memDoctors struct{}

func (memDoctors) GetAll(context.Context) ([]models.Doctor, error) { return nil, nil }

func (memDoctors) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	if id != "d1" {
		return nil, repositories.ErrNotFound
	}
	return &models.Doctor{ID: "d1", Name: "Dr. Okafor", Availability: models.AvailabilityAvailable}, nil
}

func (memDoctors) SetAvailability(_ context.Context, id, availability string) (*models.Doctor, error) {
	return &models.Doctor{ID: id, Availability: availability}, nil
}

type memConsultations struct {
	created []*models.Consultation
}

func (m *memConsultations) List(context.Context, models.ConsultationFilters) ([]models.Consultation, error) {
	return nil, nil
}

func (m *memConsultations) GetByID(context.Context, string) (*models.Consultation, error) {
	return nil, repositories.ErrNotFound
}

func (m *memConsultations) Create(_ context.Context, c *models.Consultation) error {
	c.ID = "c1"
	m.created = append(m.created, c)
	return nil
}

func (m *memConsultations) Update(_ context.Context, id string, patch models.ConsultationPatch) (*models.Consultation, error) {
	c := patch.Apply(models.Consultation{ID: id, UserName: "Ada", DoctorName: "Dr. Okafor", Status: models.StatusScheduled, Priority: models.PriorityNormal})
	return &c, nil
}

func testDeps(pub *recordingPublisher) Deps {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Deps{Publisher: pub, Logger: logger}
}

func newUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{
		"u1": {ID: "u1", Name: "Ada", Email: "ada@example.org", Age: 19, Role: models.RoleUser},
	}}
}

func TestBookConsultation(t *testing.T) {
	pub := &recordingPublisher{}
	activity := &memActivity{}
	repo := &memConsultations{}
	svc := NewConsultationService(repo, newUsers(), memDoctors{}, activity, testDeps(pub))

	c, err := svc.Book(context.Background(), "u1", models.BookingRequest{
		DoctorID:    "d1",
		Type:        models.ConsultationTypeUrgent,
		Topic:       "anxiety",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.UserName)
	assert.Equal(t, "Dr. Okafor", c.DoctorName)
	assert.Equal(t, models.PriorityUrgent, c.Priority)
	assert.Equal(t, models.StatusScheduled, c.Status)
	assert.Len(t, activity.recorded, 1)
	assert.Equal(t, []string{models.EventConsultationNew}, pub.names())

	_, err = svc.Book(context.Background(), "u1", models.BookingRequest{
		DoctorID: "d9", Type: models.ConsultationTypeChat, Topic: "stress", ScheduledAt: time.Now(),
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Len(t, pub.names(), 1)
}

func TestUpdateConsultationStampsTimes(t *testing.T) {
	pub := &recordingPublisher{}
	activity := &memActivity{}
	svc := NewConsultationService(&memConsultations{}, newUsers(), memDoctors{}, activity, testDeps(pub))

	status := models.StatusCompleted
	c, err := svc.Update(context.Background(), "c1", models.ConsultationPatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, c.CompletedAt)
	assert.Len(t, activity.recorded, 1)

	require.Len(t, pub.events, 1)
	update, ok := pub.events[0].payload.(models.ConsultationUpdate)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, update.Status)

	status = models.StatusInProgress
	c, err = svc.Update(context.Background(), "c2", models.ConsultationPatch{Status: &status})
	require.NoError(t, err)
	assert.NotNil(t, c.StartedAt)
	assert.Nil(t, c.CompletedAt)
}

func TestSetRiskAlertsOnlyOnTransitionToHigh(t *testing.T) {
	pub := &recordingPublisher{}
	activity := &memActivity{}
	svc := NewUserService(newUsers(), activity, testDeps(pub))

	_, err := svc.SetRisk(context.Background(), "u1", "catastrophic", "")
	require.Error(t, err)

	_, err = svc.SetRisk(context.Background(), "u1", models.RiskMedium, "")
	require.NoError(t, err)
	assert.Empty(t, pub.names())

	u, err := svc.SetRisk(context.Background(), "u1", models.RiskHigh, "")
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, *u.MentalHealthRisk)
	require.Equal(t, []string{models.EventMentalHealthAlert}, pub.names())
	alert := pub.events[0].payload.(models.MentalHealthAlert)
	assert.Equal(t, "u1", alert.UserID)
	assert.Equal(t, "Ada was assessed as high risk", alert.Message)
	assert.Equal(t, models.ActivityAlert, activity.recorded[0].Type)

	_, err = svc.SetRisk(context.Background(), "u1", models.RiskHigh, "still high")
	require.NoError(t, err)
	assert.Len(t, pub.names(), 1)
}

func TestUpdateProfileIgnoresRisk(t *testing.T) {
	users := newUsers()
	svc := NewUserService(users, &memActivity{}, testDeps(&recordingPublisher{}))

	name := "Ada L."
	risk := models.RiskLow
	u, err := svc.UpdateProfile(context.Background(), "u1", models.UserPatch{Name: &name, MentalHealthRisk: &risk})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", u.Name)
	assert.Nil(t, u.MentalHealthRisk)
}

func TestLoginAndRegister(t *testing.T) {
	tokens, err := utils.NewTokenMaker("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	pub := &recordingPublisher{}
	users := newUsers()
	svc := NewAuthService(users, &memActivity{}, tokens, testDeps(pub))

	reg := models.Registration{Name: "Bo", Email: "bo@example.org", Age: 17, Password: "longenough"}
	user, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "longenough", user.Password)
	assert.Contains(t, pub.names(), models.EventUserRegistered)

	_, err = svc.Register(context.Background(), reg)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	sess, err := svc.Login(context.Background(), models.Credentials{Email: "bo@example.org", Password: "longenough"})
	require.NoError(t, err)
	claims, err := tokens.Validate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login(context.Background(), models.Credentials{Email: "bo@example.org", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), models.Credentials{Email: "nobody@example.org", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRecordAchievement(t *testing.T) {
	pub := &recordingPublisher{}
	activity := &memActivity{}
	svc := NewAnalyticsService(nil, activity, newUsers(), testDeps(pub))

	_, err := svc.RecordAchievement(context.Background(), "u1", models.Achievement{Game: "breathing"})
	require.Error(t, err)

	a, err := svc.RecordAchievement(context.Background(), "u1", models.Achievement{Game: "breathing", Title: "Calm streak", Score: 40})
	require.NoError(t, err)
	assert.Contains(t, a.Description, "Calm streak")
	assert.Equal(t, 1, activity.achievements)
	assert.Equal(t, []string{models.EventGameAchievement}, pub.names())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	failing := publisherFunc(func(context.Context, string, interface{}) error { return errors.New("broker down") })
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewDoctorService(memDoctors{}, Deps{Publisher: failing, Logger: logger})

	d, err := svc.SetAvailability(context.Background(), "d1", models.AvailabilityBusy)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityBusy, d.Availability)

	_, err = svc.SetAvailability(context.Background(), "d1", "asleep")
	assert.Error(t, err)
}

type publisherFunc func(ctx context.Context, event string, payload interface{}) error

func (f publisherFunc) Publish(ctx context.Context, event string, payload interface{}) error {
	return f(ctx, event, payload)
}
