package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/mailer"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/report"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ExportOptions controls one report generation.
type ExportOptions struct {
	Format  report.Format
	Report  report.Options
	Metrics CompanyMetrics
}

// Artifact is a generated report waiting in the scratch directory.
type Artifact struct {
	Path        string
	Filename    string
	ContentType string
	Format      report.Format
	PeriodName  string
}

// ExportSettings bound generation time and emailed artifact lifetime.
type ExportSettings struct {
	Timeout      time.Duration
	CleanupDelay time.Duration
}

// ExportService generates paid emissions reports.
type ExportService interface {
	// Generate renders the period's report into the scratch directory. The
	// payment check runs first, so an unpaid period fails with
	// ErrPaymentRequired before any report data is read. The caller must
	// Release the artifact once delivered.
	Generate(ctx context.Context, companyID, periodID uuid.UUID, opts ExportOptions) (*Artifact, error)

	// Release removes an artifact now.
	Release(a *Artifact)

	// Email generates the report and mails it to recipient. The artifact
	// is removed after the cleanup delay whether or not sending succeeded.
	Email(ctx context.Context, companyID, periodID uuid.UUID, recipient string, opts ExportOptions) (*Artifact, error)

	// Cleanup removes artifacts older than maxAge.
	Cleanup(maxAge time.Duration) (int, error)
}

type renderFunc func(w io.Writer, f report.Format, doc *report.Document) error

type exportService struct {
	payments     repository.PaymentRepository
	periods      repository.PeriodRepository
	companies    repository.CompanyRepository
	emissions    repository.EmissionsRepository
	calculations repository.CalculationRepository
	scratch      *report.Scratch
	sender       mailer.Sender
	settings     ExportSettings
	log          *logger.Logger

	render renderFunc
	now    func() time.Time
}

// ExportDeps groups the collaborators of an ExportService.
type ExportDeps struct {
	Payments     repository.PaymentRepository
	Periods      repository.PeriodRepository
	Companies    repository.CompanyRepository
	Emissions    repository.EmissionsRepository
	Calculations repository.CalculationRepository
	Scratch      *report.Scratch
	// Sender may be nil, in which case Email fails with ErrMailerDisabled.
	Sender mailer.Sender
}

// NewExportService creates a new instance of ExportService.
func NewExportService(deps ExportDeps, settings ExportSettings, log *logger.Logger) ExportService {
	return &exportService{
		payments:     deps.Payments,
		periods:      deps.Periods,
		companies:    deps.Companies,
		emissions:    deps.Emissions,
		calculations: deps.Calculations,
		scratch:      deps.Scratch,
		sender:       deps.Sender,
		settings:     settings,
		log:          log,
		render:       report.Render,
		now:          time.Now,
	}
}

// ArtifactFilename is the download name of a period's report.
func ArtifactFilename(periodID uuid.UUID, f report.Format) string {
	return fmt.Sprintf("%s%s.%s", report.ArtifactPrefix, periodID, f.Extension())
}

func timedOut(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func (s *exportService) Generate(ctx context.Context, companyID, periodID uuid.UUID, opts ExportOptions) (*Artifact, error) {
	if opts.Format == "" {
		return nil, fmt.Errorf("%w: format is required", ErrInvalidFormat)
	}
	if _, ok := report.ParseFormat(string(opts.Format)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	log := s.log.ForCompany(companyID.String(), periodID.String())

	// Exports are a paid feature per period
	paid, err := s.payments.IsPaid(ctx, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if !paid {
		log.Info("Report export blocked by payment", nil)
		return nil, ErrPaymentRequired
	}

	// Loading and rendering share one deadline
	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	in, err := s.load(ctx, companyID, periodID, opts)
	if err != nil {
		if timedOut(err) {
			return nil, ErrGenerationTimeout
		}
		return nil, err
	}
	doc := report.Assemble(*in)

	// Render into the scratch directory
	path, err := s.write(ctx, periodID, opts.Format, doc)
	if err != nil {
		if errors.Is(err, ErrGenerationTimeout) {
			log.Warn("Report generation timed out", map[string]interface{}{
				"format":  string(opts.Format),
				"timeout": s.settings.Timeout.String(),
			})
		}
		return nil, err
	}

	log.Info("Report generated", map[string]interface{}{
		"format": string(opts.Format),
		"path":   path,
	})
	return &Artifact{
		Path:        path,
		Filename:    ArtifactFilename(periodID, opts.Format),
		ContentType: opts.Format.ContentType(),
		Format:      opts.Format,
		PeriodName:  in.Period.PeriodName,
	}, nil
}

// load reads everything the report needs. The period is checked first so
// a foreign period reads nothing else.
func (s *exportService) load(ctx context.Context, companyID, periodID uuid.UUID, opts ExportOptions) (*report.Input, error) {
	period, err := s.periods.FindByID(ctx, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reporting period: %w", err)
	}
	if period == nil {
		return nil, ErrPeriodNotFound
	}

	var (
		company *models.Company
		totals  repository.EmissionTotals
		byType  []repository.ActivityTotal
		results []models.CalculationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		company, err = s.companies.FindByID(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.emissions.Totals(gctx, companyID, &periodID)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.emissions.ByActivityType(gctx, companyID, &periodID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.calculations.ListByPeriod(gctx, companyID, periodID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.ForCompany(companyID.String(), periodID.String()).Error("Failed to load report data", err, nil)
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	lines := make([]report.ActivityLine, 0, len(byType))
	var top string
	for i, t := range byType {
		if i == 0 {
			top = t.ActivityType
		}
		lines = append(lines, report.ActivityLine{
			ActivityType: t.ActivityType,
			Emissions:    t.Emissions,
			Count:        t.Count,
		})
	}

	tl := ScoreTrafficLight(FoldScopes(byType), totals.Total, opts.Metrics, top)

	return &report.Input{
		Company: *company,
		Period:  *period,
		Totals: models.GasBreakdown{
			TotalEmissionsMTCO2e: totals.Total,
			CO2MT:                totals.CO2,
			CH4MT:                totals.CH4,
			N2OMT:                totals.N2O,
		},
		Activities:  lines,
		Results:     results,
		Score:       reportScore(tl),
		Options:     opts.Report,
		GeneratedAt: s.now().UTC(),
	}, nil
}

var intensityLabels = map[string]string{
	"per_employee": "per employee",
	"per_revenue":  "per $1M revenue",
}

func reportScore(tl TrafficLight) report.Score {
	score := report.Score{
		Overall:         string(tl.Overall),
		Scopes:          make([]report.ScopeRow, 0, len(tl.Scopes)),
		Improvements:    make([]report.Improvement, 0, len(tl.Improvements)),
		Recommendations: tl.Recommendations,
	}
	for _, sc := range tl.Scopes {
		score.Scopes = append(score.Scopes, report.ScopeRow{
			Label:     sc.Label,
			Emissions: sc.Emissions,
			Rating:    string(sc.Rating),
		})
	}
	for _, m := range tl.IntensityMetrics {
		score.Intensity = append(score.Intensity, report.IntensityLine{
			Label: intensityLabels[m.Type],
			Value: m.Value,
		})
	}
	for _, imp := range tl.Improvements {
		score.Improvements = append(score.Improvements, report.Improvement{
			Category: imp.Category,
			Priority: imp.Priority,
			Actions:  imp.Actions,
		})
	}
	return score
}

type written struct {
	path string
	err  error
}

// write renders doc into the scratch directory, giving up when ctx ends.
// An abandoned render removes its own output once it finishes.
func (s *exportService) write(ctx context.Context, periodID uuid.UUID, f report.Format, doc *report.Document) (string, error) {
	done := make(chan written, 1)
	go func() {
		path, err := s.scratch.Write(periodID, f, func(w io.Writer) error {
			return s.render(w, f, doc)
		})
		done <- written{path: path, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, report.ErrNoCalculations) {
				return "", ErrNoCalculations
			}
			return "", fmt.Errorf("failed to render report: %w", res.err)
		}
		return res.path, nil
	case <-ctx.Done():
		go func() {
			if res := <-done; res.err == nil {
				_ = s.scratch.Remove(res.path)
			}
		}()
		if timedOut(ctx.Err()) {
			return "", ErrGenerationTimeout
		}
		return "", ctx.Err()
	}
}

func (s *exportService) Release(a *Artifact) {
	if a == nil {
		return
	}
	if err := s.scratch.Remove(a.Path); err != nil {
		s.log.Warn("Failed to remove report artifact", map[string]interface{}{
			"path":  a.Path,
			"error": err.Error(),
		})
	}
}

func (s *exportService) Email(ctx context.Context, companyID, periodID uuid.UUID, recipient string, opts ExportOptions) (*Artifact, error) {
	if s.sender == nil {
		return nil, ErrMailerDisabled
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, NewValidationError("Required field missing: email")
	}

	a, err := s.Generate(ctx, companyID, periodID, opts)
	if err != nil {
		return nil, err
	}
	defer s.scratch.RemoveAfter(a.Path, s.settings.CleanupDelay)

	err = s.sender.Send(ctx, mailer.Message{
		To:             recipient,
		Subject:        "GHG Emissions Report - " + a.PeriodName,
		Body:           fmt.Sprintf("Attached is the GHG emissions report for %s.\n", a.PeriodName),
		AttachmentPath: a.Path,
		AttachmentName: a.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to email report: %w", err)
	}

	s.log.ForCompany(companyID.String(), periodID.String()).Info("Report emailed", map[string]interface{}{
		"format": string(opts.Format),
	})
	return a, nil
}

func (s *exportService) Cleanup(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, NewValidationError("maxAge must be positive")
	}
	return s.scratch.Sweep(maxAge)
}
