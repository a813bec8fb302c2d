package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hr-onboarding/internal/events"
	"hr-onboarding/internal/models"
	"hr-onboarding/internal/repository/onboarding"
)

type memoryStore struct {
	mu      sync.Mutex
	records []models.OnboardingRecord
	failErr error
}

func (s *memoryStore) Create(_ context.Context, rec *models.OnboardingRecord, beforeCommit func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	for _, r := range s.records {
		if r.Email == rec.Email {
			return &onboarding.DuplicateError{Field: "email", Constraint: "onboarding_records_email_key"}
		}
	}
	if rec.EmpID == "" {
		code, err := onboarding.NextCode("ATS0", 3, s.lastCode())
		if err != nil {
			return err
		}
		rec.EmpID = code
	}
	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}
	rec.ID = int64(len(s.records) + 1)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.records = append(s.records, *rec)
	return nil
}

func (s *memoryStore) lastCode() string {
	last := ""
	for _, r := range s.records {
		if strings.HasPrefix(r.EmpID, "ATS0") && (len(r.EmpID) > len(last) || (len(r.EmpID) == len(last) && r.EmpID > last)) {
			last = r.EmpID
		}
	}
	return last
}

func (s *memoryStore) match(f onboarding.Filter) []models.OnboardingRecord {
	out := []models.OnboardingRecord{}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.FullName+"|"+r.Department+"|"+r.JobRole+"|"+r.EmpID), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *memoryStore) List(_ context.Context, f onboarding.Filter) ([]models.OnboardingRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, 0, s.failErr
	}
	all := s.match(f)
	start := min(f.Offset(), len(all))
	end := min(start+f.Limit, len(all))
	return all[start:end], len(all), nil
}

func (s *memoryStore) ListAll(_ context.Context, f onboarding.Filter) ([]models.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.match(f), nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (models.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > len(s.records) {
		return models.OnboardingRecord{}, onboarding.ErrNotFound
	}
	return s.records[id-1], nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id int64, status models.Status) (models.OnboardingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !status.Valid() {
		return models.OnboardingRecord{}, onboarding.ErrInvalidStatus
	}
	if id < 1 || int(id) > len(s.records) {
		return models.OnboardingRecord{}, onboarding.ErrNotFound
	}
	r := &s.records[id-1]
	r.Status = status
	r.UpdatedAt = time.Now()
	return *r, nil
}

func (s *memoryStore) FileReference(_ context.Context, id int64, slot models.Slot) (models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.Column() == "" {
		return models.StoredFile{}, onboarding.ErrUnknownSlot
	}
	if id < 1 || int(id) > len(s.records) {
		return models.StoredFile{}, onboarding.ErrNotFound
	}
	f, ok := s.records[id-1].Document(slot)
	if !ok {
		return models.StoredFile{}, onboarding.ErrNotFound
	}
	return f, nil
}

type offboardingMemory struct {
	records []models.OffboardingRecord
	failErr error
}

func (s *offboardingMemory) Create(_ context.Context, rec *models.OffboardingRecord) error {
	if s.failErr != nil {
		return s.failErr
	}
	rec.ID = int64(len(s.records) + 1)
	rec.CreatedAt = time.Now()
	s.records = append(s.records, *rec)
	return nil
}

func (s *offboardingMemory) List(context.Context) ([]models.OffboardingRecord, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.records, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDBDown = errors.New("connection refused")
