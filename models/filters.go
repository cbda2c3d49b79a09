package models

import (
	"net/url"
	"time"
)

// ConsultationFilters narrows a consultation listing. Empty fields impose no
// constraint; all set fields must match exactly. From and To bound
// ScheduledAt inclusively.
type ConsultationFilters struct {
	Status   string
	Type     string
	Priority string
	Topic    string
	DoctorID string
	From     *time.Time
	To       *time.Time
}

// IsZero reports whether no criterion is set.
func (f ConsultationFilters) IsZero() bool {
	return f.Status == "" && f.Type == "" && f.Priority == "" && f.Topic == "" &&
		f.DoctorID == "" && f.From == nil && f.To == nil
}

// Matches reports whether c satisfies every set criterion.
func (f ConsultationFilters) Matches(c Consultation) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.Topic != "" && c.Topic != f.Topic {
		return false
	}
	if f.DoctorID != "" && c.DoctorID != f.DoctorID {
		return false
	}
	if f.From != nil && c.ScheduledAt.Before(*f.From) {
		return false
	}
	if f.To != nil && c.ScheduledAt.After(*f.To) {
		return false
	}
	return true
}

// Apply returns the consultations matching f, in their original order.
func (f ConsultationFilters) Apply(consultations []Consultation) []Consultation {
	out := make([]Consultation, 0, len(consultations))
	for _, c := range consultations {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Query encodes the filters as URL query parameters.
func (f ConsultationFilters) Query() url.Values {
	q := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIf("status", f.Status)
	setIf("type", f.Type)
	setIf("priority", f.Priority)
	setIf("topic", f.Topic)
	setIf("doctorId", f.DoctorID)
	if f.From != nil {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	return q
}

// ParseConsultationFilters is the inverse of Query.
func ParseConsultationFilters(q url.Values) (ConsultationFilters, error) {
	f := ConsultationFilters{
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Priority: q.Get("priority"),
		Topic:    q.Get("topic"),
		DoctorID: q.Get("doctorId"),
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.To = &t
	}
	return f, nil
}
