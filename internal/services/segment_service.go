package services

import (
	"errors"

	"github.com/expr-lang/expr"

	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/pkg/fault"
)

// A Segment names a slice of respondents by a boolean expression over
// their submission, e.g. `answers["q1"] == "yes" && completed`.
// The environment exposes `answers` (question id to value or list of
// values), `completed` and `timeSpentSeconds`.
type Segment struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// SegmentService computes segment breakdowns over a filtered
// response set.
type SegmentService struct{}

func NewSegmentService() *SegmentService {
	return &SegmentService{}
}

// Breakdown counts, per segment, the responses whose submission
// satisfies the segment's expression. Every segment appears in the
// result even at zero. A bad expression rejects the whole breakdown.
func (s *SegmentService) Breakdown(responses []models.ResponseRecord, segments []Segment) (map[string]int, error) {
	out := make(map[string]int, len(segments))
	for _, segment := range segments {
		out[segment.Name] = 0
		for _, response := range responses {
			match, err := evaluateExpression(segment.Expression, segmentEnv(response))
			if err != nil {
				return nil, fault.NewClientError("segment "+segment.Name, err)
			}
			if match {
				out[segment.Name]++
			}
		}
	}
	return out, nil
}

func segmentEnv(response models.ResponseRecord) map[string]any {
	answers := make(map[string]any, len(response.Answers))
	for questionID, answer := range response.Answers {
		if answer.IsMulti() {
			answers[questionID] = answer.Values()
		} else {
			answers[questionID] = answer.Value()
		}
	}

	return map[string]any{
		"answers":          answers,
		"completed":        response.Completed,
		"timeSpentSeconds": response.TimeSpentSeconds,
	}
}

func evaluateExpression(expression string, input map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(input))
	if err != nil {
		return false, err
	}

	output, err := expr.Run(program, input)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)

	if !ok {
		return false, errors.New("expression did not return a boolean")
	}

	return result, nil
}
