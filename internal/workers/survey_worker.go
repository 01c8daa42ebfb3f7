package workers

import (
	"context"
	"time"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/survey"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const surveyWorkerName = "survey_poller"

// ResponseSource lists completed survey responses
type ResponseSource interface {
	FetchCompletedResponses(ctx context.Context) ([]survey.Response, error)
}

// PollResult counts what one poll did
type PollResult struct {
	Fetched  int `json:"fetched"`
	Seen     int `json:"seen"`
	Recorded int `json:"recorded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// SurveyWorker turns completed pre-screen responses into pre_screen_completed notifications
type SurveyWorker struct {
	db                  *gorm.DB
	source              ResponseSource
	notificationService services.NotificationService
	processedRepo       repositories.SurveyResponseRepository
	interval            time.Duration
}

func NewSurveyWorker(
	db *gorm.DB,
	source ResponseSource,
	notificationService services.NotificationService,
	processedRepo repositories.SurveyResponseRepository,
	interval time.Duration,
) *SurveyWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SurveyWorker{
		db:                  db,
		source:              source,
		notificationService: notificationService,
		processedRepo:       processedRepo,
		interval:            interval,
	}
}

// Start polls once right away and then on every tick until ctx is done
func (w *SurveyWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SurveyWorker) run(ctx context.Context) {
	_, _ = w.PollOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("survey worker stopped")
			return
		case <-ticker.C:
			_, _ = w.PollOnce(ctx)
		}
	}
}

// PollOnce fetches completed responses and records every one not handled before.
// A response that fails to record is left unmarked and retried on the next poll.
func (w *SurveyWorker) PollOnce(ctx context.Context) (PollResult, error) {
	ctx = logger.WithCorrelationID(ctx, uuid.NewString())
	start := time.Now()
	var result PollResult

	responses, err := w.source.FetchCompletedResponses(ctx)
	if err != nil {
		logger.WorkerLog(surveyWorkerName, "fetch", err)
		return result, err
	}
	result.Fetched = len(responses)

	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ID)
	}
	seen, err := w.processedRepo.FindProcessedIDs(w.db, ids)
	if err != nil {
		logger.WorkerLog(surveyWorkerName, "load_processed", err)
		return result, err
	}

	for i := range responses {
		resp := &responses[i]
		if resp.ResponseStatus != "" && resp.ResponseStatus != "completed" {
			continue
		}
		if _, ok := seen[resp.ID]; ok {
			result.Seen++
			continue
		}

		switch outcome, err := w.handle(ctx, resp); {
		case err != nil:
			result.Failed++
			logger.CtxWithError(ctx, "survey response not recorded", err, "response_id", resp.ID)
		case outcome == models.SurveyOutcomeSkipped:
			result.Skipped++
		default:
			result.Recorded++
		}
		seen[resp.ID] = struct{}{}
	}

	logger.WorkerLog(surveyWorkerName, "poll", nil,
		"fetched", result.Fetched,
		"seen", result.Seen,
		"recorded", result.Recorded,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (w *SurveyWorker) handle(ctx context.Context, resp *survey.Response) (models.SurveyOutcome, error) {
	email, name := survey.Contact(resp)

	if email == "" {
		logger.CtxWarn(ctx, "survey response has no email, skipping", "response_id", resp.ID)
		return models.SurveyOutcomeSkipped, w.mark(resp.ID, nil, models.SurveyOutcomeSkipped)
	}

	if _, err := w.notificationService.RecordPreScreenCompleted(ctx, w.db, email, name, resp); err != nil {
		return "", err
	}
	logger.CtxInfo(ctx, "pre-screen recorded", "response_id", resp.ID)
	return models.SurveyOutcomeRecorded, w.mark(resp.ID, &email, models.SurveyOutcomeRecorded)
}

func (w *SurveyWorker) mark(responseID string, email *string, outcome models.SurveyOutcome) error {
	return w.processedRepo.MarkProcessed(w.db, &models.ProcessedSurveyResponse{
		ResponseID:  responseID,
		Email:       email,
		Outcome:     outcome,
		ProcessedAt: time.Now().UTC(),
	})
}
