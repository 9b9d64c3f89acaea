package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/paulexconde/surveylab/internal/config"
	istore "github.com/paulexconde/surveylab/internal/pkg/store"
	"github.com/paulexconde/surveylab/internal/services"
	"github.com/paulexconde/surveylab/pkg/access"
	"github.com/paulexconde/surveylab/pkg/fault"
	"github.com/paulexconde/surveylab/pkg/store"
)

// App wires the stores and engines together once per session. There
// is no ambient global: consumers receive this object and hold it.
type App struct {
	Surveys   *services.SurveyService
	Responses *services.ResponseService
	Analytics *services.AnalyticsService
	Segments  *services.SegmentService
	Exports   *services.ExportService
}

// New builds the persistence adapter selected by cfg and loads both
// stores from it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	adapter, err := newAdapter(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	surveys, err := services.NewSurveyService(ctx, adapter)
	if err != nil {
		return nil, err
	}
	responses, err := services.NewResponseService(ctx, adapter, surveys)
	if err != nil {
		return nil, err
	}

	return &App{
		Surveys:   surveys,
		Responses: responses,
		Analytics: services.NewAnalyticsService(cfg.Analytics.Seed, cfg.Analytics.Workers),
		Segments:  services.NewSegmentService(),
		Exports:   services.NewExportService(),
	}, nil
}

func newAdapter(ctx context.Context, cfg config.StorageConfig) (store.Adapter, error) {
	switch cfg.Driver {
	case "memory":
		return istore.NewMemoryStore(), nil
	case "file", "":
		return istore.NewFileStore(cfg.Dir), nil
	case "postgres":
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseUrl)
		if err != nil {
			return nil, fault.NewInternalError("connect postgres", err)
		}
		return istore.NewPostgresStore(ctx, db)
	default:
		return nil, fault.NewClientError(fmt.Sprintf("unknown storage driver %q", cfg.Driver), fault.ErrValidation)
	}
}

// ExportSurveyData renders one survey's responses for download. The
// export entry point is only reachable with the export_data
// capability; the formatter itself never checks.
func (a *App) ExportSurveyData(checker access.Checker, surveyID string, format services.ExportFormat) (name, contentType, body string, err error) {
	if !checker.HasPermission(access.PermExportData) {
		return "", "", "", fault.NewClientError("export_data permission required", nil)
	}

	body, err = a.Exports.Export(a.Responses.ListBySurvey(surveyID), format)
	if err != nil {
		return "", "", "", err
	}
	return a.Exports.FileName(surveyID, format), a.Exports.ContentType(format), body, nil
}

// SurveyAnalytics computes one survey's snapshot behind the
// view_analytics capability.
func (a *App) SurveyAnalytics(checker access.Checker, surveyID string) (services.SurveySnapshot, error) {
	if !checker.HasPermission(access.PermViewAnalytics) {
		return services.SurveySnapshot{}, fault.NewClientError("view_analytics permission required", nil)
	}
	return a.Analytics.Compute(a.Responses.ListBySurvey(surveyID)), nil
}

// OverallAnalytics computes the cross-survey snapshot behind the
// view_analytics capability.
func (a *App) OverallAnalytics(checker access.Checker) (services.OverallSnapshot, error) {
	if !checker.HasPermission(access.PermViewAnalytics) {
		return services.OverallSnapshot{}, fault.NewClientError("view_analytics permission required", nil)
	}
	return a.Analytics.Overall(a.Surveys.All(), a.Responses.All()), nil
}
