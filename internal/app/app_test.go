package app

import (
	"context"
	"strings"
	"testing"

	"github.com/paulexconde/surveylab/internal/config"
	"github.com/paulexconde/surveylab/internal/models"
	"github.com/paulexconde/surveylab/internal/services"
	"github.com/paulexconde/surveylab/pkg/access"
	"github.com/paulexconde/surveylab/pkg/fault"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage:   config.StorageConfig{Driver: "memory"},
		Analytics: config.AnalyticsConfig{Seed: 1, Workers: 2},
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	a, err := New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	survey, err := a.Surveys.Create(context.Background(), "Feedback", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.Surveys.GetByID(survey.ID); !ok {
		t.Error("created survey not retrievable")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "dynamo"

	_, err := New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !fault.IsClientError(err) {
		t.Errorf("expected client fault, got %v", err)
	}
}

func TestExportSurveyData_Permissions(t *testing.T) {
	a, err := New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	survey, err := a.Surveys.Create(context.Background(), "Feedback", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Responses.Submit(context.Background(), survey.ID, map[string]models.Answer{}, services.SubmitOptions{Completed: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := access.ForRole(access.RoleAdmin)
	name, contentType, body, err := a.ExportSurveyData(admin, survey.ID, services.FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "survey-data-"+survey.ID+".csv" {
		t.Errorf("unexpected file name %q", name)
	}
	if contentType != "text/csv" {
		t.Errorf("unexpected content type %q", contentType)
	}
	if !strings.HasPrefix(body, "Response ID,Survey ID,Submitted At,User Agent\n") {
		t.Errorf("unexpected body:\n%s", body)
	}

	user := access.ForRole(access.RoleUser)
	if _, _, _, err := a.ExportSurveyData(user, survey.ID, services.FormatCSV); err == nil {
		t.Error("expected permission error for user role")
	}
}

func TestSurveyAnalytics_Permissions(t *testing.T) {
	a, err := New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// view_analytics is granted to every role, including plain users.
	if _, err := a.SurveyAnalytics(access.ForRole(access.RoleUser), "missing"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	snapshot, err := a.SurveyAnalytics(access.ForRole(access.RoleManager), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.TotalResponses != 0 {
		t.Errorf("expected empty snapshot, got %d responses", snapshot.TotalResponses)
	}
}
