package stores

import (
	"YouthHealth/models"
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultActivityLimit is the number of feed entries fetched when no limit
// has been requested yet.
const DefaultActivityLimit = 20

// AdminAPI is the subset of the REST client the admin store reads from.
type AdminAPI interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	Consultations(ctx context.Context, filters models.ConsultationFilters) ([]models.Consultation, error)
	Doctors(ctx context.Context) ([]models.Doctor, error)
	Users(ctx context.Context) ([]models.User, error)
	RecentActivity(ctx context.Context, limit int) ([]models.Activity, error)
}

// AdminStore backs the admin dashboard: aggregate stats plus the
// consultation, doctor, user and activity collections.
type AdminStore struct {
	base
	api AdminAPI

	stats         models.DashboardStats
	consultations []models.Consultation
	doctors       []models.Doctor
	users         []models.User
	activity      []models.Activity

	filters       models.ConsultationFilters
	activityLimit int
}

func NewAdminStore(api AdminAPI, logger *logrus.Logger) *AdminStore {
	s := &AdminStore{api: api, activityLimit: DefaultActivityLimit}
	s.init("admin", logger)
	return s
}

func (s *AdminStore) Stats() models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *AdminStore) Consultations() []models.Consultation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.consultations)
}

func (s *AdminStore) Doctors() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doctors)
}

func (s *AdminStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.users)
}

func (s *AdminStore) RecentActivity() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.activity)
}

// Filters returns the filters used by the latest consultation fetch.
func (s *AdminStore) Filters() models.ConsultationFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *AdminStore) FetchDashboardStats(ctx context.Context) error {
	return fetch(ctx, &s.base, "stats", s.api.DashboardStats, func(stats models.DashboardStats) {
		s.stats = stats
	})
}

// FetchConsultations replaces the consultation snapshot with the fetched set
// narrowed by filters. The filters are remembered for later refreshes.
func (s *AdminStore) FetchConsultations(ctx context.Context, filters models.ConsultationFilters) error {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()

	load := func(ctx context.Context) ([]models.Consultation, error) {
		return s.api.Consultations(ctx, filters)
	}
	return fetch(ctx, &s.base, "consultations", load, func(consultations []models.Consultation) {
		s.consultations = filters.Apply(consultations)
	})
}

func (s *AdminStore) FetchDoctors(ctx context.Context) error {
	return fetch(ctx, &s.base, "doctors", s.api.Doctors, func(doctors []models.Doctor) {
		s.doctors = doctors
	})
}

func (s *AdminStore) FetchUsers(ctx context.Context) error {
	return fetch(ctx, &s.base, "users", s.api.Users, func(users []models.User) {
		s.users = users
	})
}

// FetchRecentActivity loads the newest limit feed entries; limit <= 0 keeps
// the previously requested limit.
func (s *AdminStore) FetchRecentActivity(ctx context.Context, limit int) error {
	s.mu.Lock()
	if limit > 0 {
		s.activityLimit = limit
	}
	limit = s.activityLimit
	s.mu.Unlock()

	load := func(ctx context.Context) ([]models.Activity, error) {
		return s.api.RecentActivity(ctx, limit)
	}
	return fetch(ctx, &s.base, "activity", load, func(activity []models.Activity) {
		s.activity = activity
	})
}

// FetchAll loads every collection of the dashboard. It returns the first
// error but always attempts every fetch.
func (s *AdminStore) FetchAll(ctx context.Context) error {
	var firstErr error
	for _, f := range []func(context.Context) error{
		s.FetchDashboardStats,
		s.RefreshConsultations,
		s.FetchDoctors,
		s.FetchUsers,
		s.RefreshRecentActivity,
	} {
		if err := f(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RefreshConsultations refetches consultations with the last used filters.
func (s *AdminStore) RefreshConsultations(ctx context.Context) error {
	return s.FetchConsultations(ctx, s.Filters())
}

func (s *AdminStore) RefreshDashboardStats(ctx context.Context) error {
	return s.FetchDashboardStats(ctx)
}

func (s *AdminStore) RefreshDoctors(ctx context.Context) error {
	return s.FetchDoctors(ctx)
}

func (s *AdminStore) RefreshRecentActivity(ctx context.Context) error {
	return s.FetchRecentActivity(ctx, 0)
}

// UpdateConsultation merges patch into the consultation with the given id.
// An unknown id leaves the collection untouched and returns false.
func (s *AdminStore) UpdateConsultation(id string, patch models.ConsultationPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.consultations, found = updateByID(s.consultations, id, consultationID, patch.Apply)
	return found
}

func (s *AdminStore) RemoveConsultation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.consultations, found = removeByID(s.consultations, id, consultationID)
	return found
}

func (s *AdminStore) UpdateDoctor(id string, patch models.DoctorPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.doctors, found = updateByID(s.doctors, id, doctorID, patch.Apply)
	return found
}

func (s *AdminStore) UpdateUser(id string, patch models.UserPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.users, found = updateByID(s.users, id, userID, patch.Apply)
	return found
}

func (s *AdminStore) RemoveUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.users, found = removeByID(s.users, id, userID)
	return found
}

func consultationID(c models.Consultation) string { return c.ID }

func doctorID(d models.Doctor) string { return d.ID }

func userID(u models.User) string { return u.ID }
