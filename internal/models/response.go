package models

import "time"

// A ResponseRecord is one respondent's complete submission against a
// survey. Records are append-only: never mutated or deleted after
// creation. SurveyID is a weak reference and may dangle once the
// survey is removed; answer keys from later-deleted questions stay.
type ResponseRecord struct {
	ID               string            `json:"id"`
	SurveyID         string            `json:"surveyId"`
	Answers          map[string]Answer `json:"answers"`
	SubmittedAt      time.Time         `json:"submittedAt"`
	TimeSpentSeconds float64           `json:"timeSpentSeconds"`
	Completed        bool              `json:"completed"`
	ClientMeta       string            `json:"clientMeta,omitempty"`
}
