package services

import (
	"fmt"
	"strconv"

	"github.com/paulexconde/surveylab/internal/models"
)

// NOTE: the formula for determining the NPS
// NPS = %Promoters − %Detractors

type NPS struct {
	// The total of surveyed people
	TotalSurvey int
	// Ratings 9 or 10
	Promoters int
	// Ratings 7 or 8
	Passives int
	// 6 or lower
	Detractors int
}

// NPSFromResponses classifies the rating answers given to one rating
// question. Records without a numeric answer for the question don't
// count toward the total.
func NPSFromResponses(responses []models.ResponseRecord, questionID string) NPS {
	var n NPS
	for _, r := range responses {
		answer, ok := r.Answers[questionID]
		if !ok || answer.IsMulti() {
			continue
		}
		rating, err := strconv.ParseFloat(answer.Value(), 64)
		if err != nil {
			continue
		}

		n.TotalSurvey++
		switch {
		case rating >= 9:
			n.Promoters++
		case rating >= 7:
			n.Passives++
		default:
			n.Detractors++
		}
	}
	return n
}

func (n *NPS) CalculateNPS() (int, error) {
	if n.TotalSurvey == 0 {
		return 0, nil
	}

	totalEntities := (n.Promoters + n.Passives + n.Detractors)
	if n.TotalSurvey < totalEntities {
		return 0, fmt.Errorf("cannot compute nps with total survey is less than from the total of entities: %d total < total entities: %d", n.TotalSurvey, totalEntities)
	}

	promoterCalc := (float64(n.Promoters) / float64(n.TotalSurvey)) * 100
	detractorCalc := (float64(n.Detractors) / float64(n.TotalSurvey)) * 100

	return int(promoterCalc - detractorCalc), nil
}
