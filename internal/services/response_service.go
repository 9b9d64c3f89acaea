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

// SurveyGetter is the survey lookup Submit validates against.
type SurveyGetter interface {
	GetByID(id string) (models.Survey, bool)
}

// SubmitOptions carries the caller-computed submission fields: the
// respondent's elapsed wall-clock time, whether they finished, and an
// opaque client descriptor (user agent or similar).
type SubmitOptions struct {
	TimeSpentSeconds float64
	Completed        bool
	ClientMeta       string
}

// ResponseService owns the append-only list of submitted responses.
// Records are never mutated or removed once appended; deletion policy
// belongs to whoever curates the archive, not to this store.
type ResponseService struct {
	mu        sync.Mutex
	adapter   store.Adapter
	surveys   SurveyGetter
	responses []models.ResponseRecord
}

// NewResponseService loads the persisted response collection.
func NewResponseService(ctx context.Context, adapter store.Adapter, surveys SurveyGetter) (*ResponseService, error) {
	var records []models.ResponseRecord
	if err := adapter.Load(ctx, store.CollectionResponses, &records); err != nil {
		return nil, fault.NewInternalError("load responses", err)
	}
	return &ResponseService{
		adapter:   adapter,
		surveys:   surveys,
		responses: records,
	}, nil
}

// Submit appends one respondent's answers as a new record and saves
// the collection. When the referenced survey still exists, every
// required question must have a non-empty answer; once the survey is
// gone the reference dangles and no validation is possible.
func (s *ResponseService) Submit(ctx context.Context, surveyID string, answers map[string]models.Answer, opts SubmitOptions) (models.ResponseRecord, error) {
	if survey, ok := s.surveys.GetByID(surveyID); ok {
		if err := validateRequired(survey, answers); err != nil {
			return models.ResponseRecord{}, err
		}
	}

	record := models.ResponseRecord{
		ID:               uuid.NewString(),
		SurveyID:         surveyID,
		Answers:          cloneAnswers(answers),
		SubmittedAt:      time.Now(),
		TimeSpentSeconds: opts.TimeSpentSeconds,
		Completed:        opts.Completed,
		ClientMeta:       opts.ClientMeta,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.responses = append(s.responses, record)
	if err := s.persist(ctx); err != nil {
		return models.ResponseRecord{}, err
	}
	return record, nil
}

// ListBySurvey returns the records submitted against one survey in
// insertion order.
func (s *ResponseService) ListBySurvey(surveyID string) []models.ResponseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ResponseRecord, 0)
	for _, record := range s.responses {
		if record.SurveyID == surveyID {
			out = append(out, record)
		}
	}
	return out
}

// ListBySurveyPage returns one page of a survey's records.
func (s *ResponseService) ListBySurveyPage(surveyID string, page, limit int) *paginator.PaginatedResponse[models.ResponseRecord] {
	return paginator.Paginate(s.ListBySurvey(surveyID), page, limit)
}

// All returns every record in insertion order.
func (s *ResponseService) All() []models.ResponseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ResponseRecord(nil), s.responses...)
}

// persist saves the whole collection. Callers hold s.mu.
func (s *ResponseService) persist(ctx context.Context) error {
	if err := s.adapter.Save(ctx, store.CollectionResponses, s.responses); err != nil {
		slog.Error("save responses failed", "err", err, "count", len(s.responses))
		return fault.NewInternalError("save responses", err)
	}
	return nil
}

func validateRequired(survey models.Survey, answers map[string]models.Answer) error {
	var missing []string
	for _, q := range survey.Questions {
		if !q.Required {
			continue
		}
		answer, ok := answers[q.ID]
		if !ok || answer.Empty() {
			missing = append(missing, q.Title)
		}
	}
	if len(missing) > 0 {
		return fault.NewValidationError("missing required answers: " + strings.Join(missing, ", "))
	}
	return nil
}

func cloneAnswers(answers map[string]models.Answer) map[string]models.Answer {
	out := make(map[string]models.Answer, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
