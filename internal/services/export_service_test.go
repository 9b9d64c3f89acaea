package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/pkg/fault"
)

func TestExport_CSVFormat(t *testing.T) {
	svc := NewExportService()

	responses := []models.ResponseRecord{{
		ID:          "1",
		SurveyID:    "s1",
		SubmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ClientMeta:  "UA",
	}}

	got, err := svc.Export(responses, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Response ID,Survey ID,Submitted At,User Agent\n1,s1,2024-01-01T00:00:00Z,UA"
	if got != want {
		t.Errorf("unexpected CSV:\n%q\nwant:\n%q", got, want)
	}
}

func TestExport_CSVEmpty(t *testing.T) {
	svc := NewExportService()

	got, err := svc.Export(nil, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestExport_JSONRoundTrip(t *testing.T) {
	svc := NewExportService()

	responses := []models.ResponseRecord{
		{
			ID:          "1",
			SurveyID:    "s1",
			Answers:     map[string]models.Answer{"q1": models.Multi("a", "b")},
			SubmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Completed:   true,
		},
	}

	got, err := svc.Export(responses, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "[\n  {") {
		t.Errorf("expected pretty-printed list, got %q", got)
	}

	var decoded []models.ResponseRecord
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("export does not parse back: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ID != "1" {
		t.Errorf("unexpected decoded export: %+v", decoded)
	}
	if !decoded[0].Answers["q1"].IsMulti() {
		t.Error("expected multi answer preserved through export")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	svc := NewExportService()

	if _, err := svc.Export(nil, "xml"); !fault.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestFileNameAndContentType(t *testing.T) {
	svc := NewExportService()

	if got := svc.FileName("s1", FormatCSV); got != "survey-data-s1.csv" {
		t.Errorf("unexpected file name %q", got)
	}
	if got := svc.FileName("s1", FormatJSON); got != "survey-data-s1.json" {
		t.Errorf("unexpected file name %q", got)
	}
	if got := svc.ContentType(FormatCSV); got != "text/csv" {
		t.Errorf("unexpected content type %q", got)
	}
	if got := svc.ContentType(FormatJSON); got != "application/json" {
		t.Errorf("unexpected content type %q", got)
	}
}
