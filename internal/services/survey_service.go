package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/internal/pkg/paginator"
	"github.com/paulexconde/surveylab/pkg/fault"
	"github.com/paulexconde/surveylab/pkg/store"
)

// SurveyService owns the canonical survey collection and the survey
// currently open in the editor. Every mutation saves the whole
// collection through the adapter before returning.
//
// The collection is an ordered list with a keyed index; the current
// survey is the same pointer as its collection entry, so question
// edits are visible through both views without reconciliation.
type SurveyService struct {
	mu      sync.Mutex
	adapter store.Adapter
	surveys []*models.Survey
	index   map[string]*models.Survey
	current *models.Survey
}

// NewSurveyService loads the persisted survey collection. A corrupted
// collection loads as empty (the adapter's contract), so construction
// only fails on adapter I/O errors.
func NewSurveyService(ctx context.Context, adapter store.Adapter) (*SurveyService, error) {
	var records []models.Survey
	if err := adapter.Load(ctx, store.CollectionSurveys, &records); err != nil {
		return nil, fault.NewInternalError("load surveys", err)
	}

	s := &SurveyService{
		adapter: adapter,
		index:   make(map[string]*models.Survey, len(records)),
	}
	for i := range records {
		survey := records[i]
		s.surveys = append(s.surveys, &survey)
		s.index[survey.ID] = &survey
	}
	return s, nil
}

// Create appends a new survey with no questions and opens it. An
// empty title is a validation rejection; nothing else fails.
func (s *SurveyService) Create(ctx context.Context, title, description string) (models.Survey, error) {
	if strings.TrimSpace(title) == "" {
		return models.Survey{}, fault.NewValidationError("survey title is required")
	}

	now := time.Now()
	survey := &models.Survey{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Questions:   []models.Question{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.surveys = append(s.surveys, survey)
	s.index[survey.ID] = survey
	s.current = survey

	if err := s.persist(ctx); err != nil {
		return models.Survey{}, err
	}
	return cloneSurvey(survey), nil
}

// Update replaces the collection entry matching survey.ID and opens
// it. An unknown id is silently ignored; use UpdateStrict to have the
// miss reported instead.
func (s *SurveyService) Update(ctx context.Context, survey models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[survey.ID]
	if !ok {
		slog.Debug("update for unknown survey ignored", "survey_id", survey.ID)
		return nil
	}
	return s.replace(ctx, entry, survey)
}

// UpdateStrict is Update with the unknown-id miss surfaced as
// fault.ErrNotFound.
func (s *SurveyService) UpdateStrict(ctx context.Context, survey models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[survey.ID]
	if !ok {
		return fault.NewClientError("survey "+survey.ID, fault.ErrNotFound)
	}
	return s.replace(ctx, entry, survey)
}

func (s *SurveyService) replace(ctx context.Context, entry *models.Survey, survey models.Survey) error {
	for i := range survey.Questions {
		sanitizeOptions(&survey.Questions[i])
	}
	survey.UpdatedAt = time.Now()
	*entry = survey
	s.current = entry
	return s.persist(ctx)
}

// Delete removes the survey from the collection. The current survey
// is deliberately not cleared here: a stale open reference is the
// caller's to clear (ClearCurrent), mirroring the view layer's
// responsibility split.
func (s *SurveyService) Delete(ctx context.Context, surveyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[surveyID]; !ok {
		return nil
	}

	delete(s.index, surveyID)
	for i, survey := range s.surveys {
		if survey.ID == surveyID {
			s.surveys = append(s.surveys[:i], s.surveys[i+1:]...)
			break
		}
	}
	return s.persist(ctx)
}

// AddQuestion appends a question to the currently open survey,
// assigning its id and creation time. Without an open survey this is
// a no-op.
func (s *SurveyService) AddQuestion(ctx context.Context, question models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		slog.Debug("add question with no open survey ignored")
		return nil
	}
	if err := validateQuestion(&question); err != nil {
		return err
	}

	question.ID = uuid.NewString()
	question.CreatedAt = time.Now()

	s.current.Questions = append(s.current.Questions, question)
	s.current.UpdatedAt = time.Now()
	return s.persist(ctx)
}

// UpdateQuestion replaces the open survey's question with a matching
// id. No open survey or no matching id is a no-op.
func (s *SurveyService) UpdateQuestion(ctx context.Context, question models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	for i := range s.current.Questions {
		if s.current.Questions[i].ID != question.ID {
			continue
		}
		if err := validateQuestion(&question); err != nil {
			return err
		}
		s.current.Questions[i] = question
		s.current.UpdatedAt = time.Now()
		return s.persist(ctx)
	}
	return nil
}

// DeleteQuestion removes the question by id from the open survey,
// preserving the order of the remaining questions.
func (s *SurveyService) DeleteQuestion(ctx context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	for i := range s.current.Questions {
		if s.current.Questions[i].ID == questionID {
			s.current.Questions = append(s.current.Questions[:i], s.current.Questions[i+1:]...)
			s.current.UpdatedAt = time.Now()
			return s.persist(ctx)
		}
	}
	return nil
}

// GetByID returns a copy of the survey with the given id.
func (s *SurveyService) GetByID(id string) (models.Survey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[id]
	if !ok {
		return models.Survey{}, false
	}
	return cloneSurvey(entry), true
}

// SetCurrent opens the survey with the given id for editing.
func (s *SurveyService) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[id]
	if !ok {
		return false
	}
	s.current = entry
	return true
}

// Current returns a copy of the currently open survey.
func (s *SurveyService) Current() (models.Survey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.Survey{}, false
	}
	return cloneSurvey(s.current), true
}

// ClearCurrent drops the open-survey reference. Callers clear it
// after deleting the survey it points at.
func (s *SurveyService) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// All returns copies of every survey in collection order.
func (s *SurveyService) All() []models.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Survey, 0, len(s.surveys))
	for _, survey := range s.surveys {
		out = append(out, cloneSurvey(survey))
	}
	return out
}

// List returns one page of the collection in collection order.
func (s *SurveyService) List(page, limit int) *paginator.PaginatedResponse[models.Survey] {
	return paginator.Paginate(s.All(), page, limit)
}

// persist saves the whole collection. Callers hold s.mu.
func (s *SurveyService) persist(ctx context.Context) error {
	records := make([]models.Survey, 0, len(s.surveys))
	for _, survey := range s.surveys {
		records = append(records, *survey)
	}
	if err := s.adapter.Save(ctx, store.CollectionSurveys, records); err != nil {
		slog.Error("save surveys failed", "err", err, "count", len(records))
		return fault.NewInternalError("save surveys", err)
	}
	return nil
}

func cloneSurvey(s *models.Survey) models.Survey {
	c := *s
	c.Questions = append([]models.Question(nil), s.Questions...)
	return c
}

// validateQuestion checks and normalizes a question before it enters
// the collection. Option strings are trimmed and blanks dropped at
// write time, never at read time, so an editor can hold a blank
// option transiently but persisted data never contains one.
func validateQuestion(q *models.Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return fault.NewValidationError("question title is required")
	}
	if !q.Type.Valid() {
		return fault.NewValidationError("unknown question type " + string(q.Type))
	}
	sanitizeOptions(q)
	if q.Type.HasOptions() && len(q.Options) == 0 {
		return fault.NewValidationError("question options are required for " + string(q.Type))
	}
	return nil
}

func sanitizeOptions(q *models.Question) {
	if !q.Type.HasOptions() {
		q.Options = nil
		return
	}
	opts := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			opts = append(opts, trimmed)
		}
	}
	q.Options = opts
}
