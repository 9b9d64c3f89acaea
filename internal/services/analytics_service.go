package services

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/internal/pkg/workerpool"
)

// DateCount is one point of a per-day response series.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// QuestionTally aggregates every answer given to one question.
type QuestionTally struct {
	TotalResponses int            `json:"totalResponses"`
	AnswerCounts   map[string]int `json:"answerCounts"`
}

// Demographics is a synthetic breakdown. The keys and value ranges
// are a compatibility contract; none of it is derived from real
// response data, and callers must not treat it as such.
type Demographics struct {
	AgeGroups map[string]int `json:"ageGroups"`
	Gender    map[string]int `json:"gender"`
	Location  map[string]int `json:"location"`
}

// DropoffPoint marks estimated respondent loss at a question index.
type DropoffPoint struct {
	Question int `json:"question"`
	Dropoff  int `json:"dropoff"`
}

// UserEngagement holds synthetic session metrics.
type UserEngagement struct {
	DailyActiveUsers   int `json:"dailyActiveUsers"`
	WeeklyActiveUsers  int `json:"weeklyActiveUsers"`
	MonthlyActiveUsers int `json:"monthlyActiveUsers"`
	AvgSessionDuration int `json:"avgSessionDuration"`
}

// SurveyPerformance scores one survey for the overall dashboard.
type SurveyPerformance struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Responses      int    `json:"responses"`
	CompletionRate int    `json:"completionRate"`
}

// SurveySnapshot is the derived statistics for one survey's filtered
// response set. Never persisted; recomputed on demand.
type SurveySnapshot struct {
	TotalResponses   int                      `json:"totalResponses"`
	CompletionRate   int                      `json:"completionRate"`
	AverageTimeSpent int                      `json:"averageTimeSpent"`
	ResponsesByDate  []DateCount              `json:"responsesByDate"`
	QuestionTallies  map[string]QuestionTally `json:"questionTallies"`
	Demographics     Demographics             `json:"demographics"`
	DropoffPoints    []DropoffPoint           `json:"dropoffPoints"`
}

// OverallSnapshot is the cross-survey dashboard view.
type OverallSnapshot struct {
	TotalSurveys         int                 `json:"totalSurveys"`
	TotalResponses       int                 `json:"totalResponses"`
	AvgResponseRate      int                 `json:"avgResponseRate"`
	TopPerformingSurveys []SurveyPerformance `json:"topPerformingSurveys"`
	ResponsesTrend       []DateCount         `json:"responsesTrend"`
	UserEngagement       UserEngagement      `json:"userEngagement"`
	DeviceBreakdown      map[string]int      `json:"deviceBreakdown"`
}

const topPerformingLimit = 5

// AnalyticsService turns response records into derived statistics. It
// is read-only over its inputs; its only state is the generator for
// the synthetic placeholder metrics, which is seedable so tests and
// demos can pin it.
type AnalyticsService struct {
	mu      sync.Mutex
	rand    *rand.Rand
	workers int
}

// NewAnalyticsService builds an engine. seed 0 means time-seeded;
// workers bounds the ComputeAll fan-out.
func NewAnalyticsService(seed int64, workers int) *AnalyticsService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if workers < 1 {
		workers = 4
	}
	return &AnalyticsService{
		rand:    rand.New(rand.NewSource(seed)),
		workers: workers,
	}
}

// CompletionRate is the rounded percentage of records not marked
// incomplete. Zero on empty input.
func (s *AnalyticsService) CompletionRate(responses []models.ResponseRecord) int {
	if len(responses) == 0 {
		return 0
	}
	completed := 0
	for _, r := range responses {
		if r.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(responses)) * 100))
}

// AverageTimeSpent is the rounded mean of the records' time spent, in
// seconds. A record without a recorded time (zero) gets a synthetic
// placeholder in [60,360) so legacy records never fail the
// computation. Zero on empty input.
func (s *AnalyticsService) AverageTimeSpent(responses []models.ResponseRecord) int {
	if len(responses) == 0 {
		return 0
	}
	var sum float64
	for _, r := range responses {
		ts := r.TimeSpentSeconds
		if ts == 0 {
			ts = s.fallbackTimeSpent()
		}
		sum += ts
	}
	return int(math.Round(sum / float64(len(responses))))
}

// ResponsesByDate counts records per calendar date of submission,
// ordered by first appearance. Dates are day-granular, formatted
// 2006-01-02 in each record's own location.
func (s *AnalyticsService) ResponsesByDate(responses []models.ResponseRecord) []DateCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range responses {
		date := r.SubmittedAt.Format("2006-01-02")
		if _, seen := counts[date]; !seen {
			order = append(order, date)
		}
		counts[date]++
	}

	out := make([]DateCount, 0, len(order))
	for _, date := range order {
		out = append(out, DateCount{Date: date, Count: counts[date]})
	}
	return out
}

// PerQuestionTally buckets every answer by question. A multi-valued
// answer increments each selected value's bucket, so one record can
// feed several buckets of the same question; TotalResponses still
// moves once per record per question.
func (s *AnalyticsService) PerQuestionTally(responses []models.ResponseRecord) map[string]QuestionTally {
	tallies := make(map[string]QuestionTally)
	for _, r := range responses {
		for questionID, answer := range r.Answers {
			tally, ok := tallies[questionID]
			if !ok {
				tally = QuestionTally{AnswerCounts: make(map[string]int)}
			}
			tally.TotalResponses++

			if answer.IsMulti() {
				for _, v := range answer.Values() {
					tally.AnswerCounts[v]++
				}
			} else {
				tally.AnswerCounts[answer.Value()]++
			}
			tallies[questionID] = tally
		}
	}
	return tallies
}

// DemographicBreakdown produces the fixed-shape synthetic demographic
// mapping. Placeholder contract: no demographic input exists in the
// model, so values are random within documented bounds.
func (s *AnalyticsService) DemographicBreakdown() Demographics {
	return Demographics{
		AgeGroups: map[string]int{
			"18-24": s.synth(10, 30),
			"25-34": s.synth(20, 40),
			"35-44": s.synth(15, 25),
			"45-54": s.synth(10, 20),
			"55+":   s.synth(5, 15),
		},
		Gender: map[string]int{
			"Male":   s.synth(25, 50),
			"Female": s.synth(25, 50),
			"Other":  s.synth(1, 5),
		},
		Location: map[string]int{
			"North America": s.synth(30, 40),
			"Europe":        s.synth(20, 30),
			"Asia":          s.synth(15, 25),
			"Other":         s.synth(5, 15),
		},
	}
}

// DeviceBreakdown produces the fixed-shape synthetic device mapping.
func (s *AnalyticsService) DeviceBreakdown() map[string]int {
	return map[string]int{
		"desktop": s.synth(40, 40),
		"mobile":  s.synth(30, 35),
		"tablet":  s.synth(10, 15),
	}
}

// Compute derives the full snapshot for one survey's filtered
// response set.
func (s *AnalyticsService) Compute(responses []models.ResponseRecord) SurveySnapshot {
	return SurveySnapshot{
		TotalResponses:   len(responses),
		CompletionRate:   s.CompletionRate(responses),
		AverageTimeSpent: s.AverageTimeSpent(responses),
		ResponsesByDate:  s.ResponsesByDate(responses),
		QuestionTallies:  s.PerQuestionTally(responses),
		Demographics:     s.DemographicBreakdown(),
		DropoffPoints:    s.DropoffPoints(),
	}
}

// ComputeAll derives a snapshot per survey, fanning the work out over
// a bounded worker pool. Responses are grouped by their survey
// reference first; dangling records fall outside every group.
func (s *AnalyticsService) ComputeAll(ctx context.Context, surveys []models.Survey, responses []models.ResponseRecord) map[string]SurveySnapshot {
	grouped := make(map[string][]models.ResponseRecord)
	for _, r := range responses {
		grouped[r.SurveyID] = append(grouped[r.SurveyID], r)
	}

	pool := workerpool.NewWorkerPool(ctx, s.workers, len(surveys)+1)

	var mu sync.Mutex
	out := make(map[string]SurveySnapshot, len(surveys))

	for _, survey := range surveys {
		id := survey.ID
		pool.Submit(func(ctx context.Context) {
			if ctx.Err() != nil {
				return
			}
			snapshot := s.Compute(grouped[id])
			mu.Lock()
			out[id] = snapshot
			mu.Unlock()
		})
	}

	pool.Wait()
	pool.Shutdown(ctx)
	return out
}

// Overall derives the cross-survey dashboard snapshot. Totals are
// real; rates, trend, engagement and the performance scores are
// synthetic placeholders within documented bounds.
func (s *AnalyticsService) Overall(surveys []models.Survey, responses []models.ResponseRecord) OverallSnapshot {
	return OverallSnapshot{
		TotalSurveys:         len(surveys),
		TotalResponses:       len(responses),
		AvgResponseRate:      s.synth(60, 30),
		TopPerformingSurveys: s.TopPerformingSurveys(surveys),
		ResponsesTrend:       s.ResponsesTrend(),
		UserEngagement:       s.userEngagement(),
		DeviceBreakdown:      s.DeviceBreakdown(),
	}
}

// TopPerformingSurveys scores each survey synthetically and returns
// the best five by response score.
func (s *AnalyticsService) TopPerformingSurveys(surveys []models.Survey) []SurveyPerformance {
	perf := make([]SurveyPerformance, 0, len(surveys))
	for _, survey := range surveys {
		perf = append(perf, SurveyPerformance{
			ID:             survey.ID,
			Title:          survey.Title,
			Responses:      s.synth(20, 100),
			CompletionRate: s.synth(60, 40),
		})
	}

	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Responses > perf[j].Responses
	})

	if len(perf) > topPerformingLimit {
		perf = perf[:topPerformingLimit]
	}
	return perf
}

// ResponsesTrend is a synthetic 31-day series ending today.
func (s *AnalyticsService) ResponsesTrend() []DateCount {
	now := time.Now()
	trend := make([]DateCount, 0, 31)
	for i := 30; i >= 0; i-- {
		trend = append(trend, DateCount{
			Date:  now.AddDate(0, 0, -i).Format("2006-01-02"),
			Count: s.synth(10, 50),
		})
	}
	return trend
}

// DropoffPoints is a fixed placeholder ladder; there is no per-step
// abandonment signal in the record format to derive it from.
func (s *AnalyticsService) DropoffPoints() []DropoffPoint {
	return []DropoffPoint{
		{Question: 1, Dropoff: 5},
		{Question: 2, Dropoff: 8},
		{Question: 3, Dropoff: 12},
		{Question: 4, Dropoff: 15},
		{Question: 5, Dropoff: 20},
	}
}

func (s *AnalyticsService) userEngagement() UserEngagement {
	return UserEngagement{
		DailyActiveUsers:   s.synth(100, 500),
		WeeklyActiveUsers:  s.synth(500, 2000),
		MonthlyActiveUsers: s.synth(1000, 5000),
		AvgSessionDuration: s.synth(180, 300),
	}
}

// synth draws from [base, base+spread).
func (s *AnalyticsService) synth(base, spread int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return base + s.rand.Intn(spread)
}

func (s *AnalyticsService) fallbackTimeSpent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 60 + s.rand.Float64()*300
}
