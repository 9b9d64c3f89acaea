package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/pkg/fault"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// The CSV header is a compatibility surface; downstream spreadsheets
// key on these column names.
const csvHeader = "Response ID,Survey ID,Submitted At,User Agent"

// ExportService serializes a filtered response set to CSV or JSON
// text. Whether a caller may reach an export at all (export_data
// capability) is checked by the caller, not here.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Export renders responses in the requested format. CSV rows are
// comma-joined without quoting, so embedded commas shift columns; a
// known limitation kept for output compatibility. JSON is the
// two-space-indented record list verbatim.
func (s *ExportService) Export(responses []models.ResponseRecord, format ExportFormat) (string, error) {
	switch format {
	case FormatCSV:
		return toCSV(responses), nil
	case FormatJSON:
		if responses == nil {
			responses = []models.ResponseRecord{}
		}
		raw, err := json.MarshalIndent(responses, "", "  ")
		if err != nil {
			return "", fault.NewInternalError("encode export", err)
		}
		return string(raw), nil
	default:
		return "", fault.NewClientError("unsupported export format "+string(format), fault.ErrValidation)
	}
}

// FileName is the download name convention for one survey's export.
func (s *ExportService) FileName(surveyID string, format ExportFormat) string {
	return fmt.Sprintf("survey-data-%s.%s", surveyID, format)
}

// ContentType is the MIME type matching the format.
func (s *ExportService) ContentType(format ExportFormat) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

func toCSV(responses []models.ResponseRecord) string {
	if len(responses) == 0 {
		return ""
	}

	rows := make([]string, 0, len(responses)+1)
	rows = append(rows, csvHeader)
	for _, r := range responses {
		rows = append(rows, strings.Join([]string{
			r.ID,
			r.SurveyID,
			r.SubmittedAt.UTC().Format(time.RFC3339),
			r.ClientMeta,
		}, ","))
	}
	return strings.Join(rows, "\n")
}
