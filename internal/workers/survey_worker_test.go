package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/survey"
	"studyfunnel_backend/internal/workers"
	"studyfunnel_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type pollerFixture struct {
	db     *gorm.DB
	source *helpers.FakeSurveySource
	svc    services.NotificationService
}

func newPollerFixture(t *testing.T) *pollerFixture {
	t.Helper()
	f := &pollerFixture{
		db:     helpers.NewTestDB(t),
		source: &helpers.FakeSurveySource{Details: helpers.PreScreenCatalog()},
	}
	f.svc = services.NewNotificationService(services.NotificationDeps{
		NotificationRepo:   repositories.NewNotificationRepository(),
		ParticipantService: services.NewParticipantService(repositories.NewParticipantRepository()),
		BookingService:     services.NewBookingService(repositories.NewBookingRepository()),
		Formatter:          survey.NewFormatter(f.source),
		Sink:               &helpers.RecordingSink{},
	})
	return f
}

func (f *pollerFixture) worker() *workers.SurveyWorker {
	return workers.NewSurveyWorker(f.db, f.source, f.svc, repositories.NewSurveyResponseRepository(), time.Hour)
}

func noEmailResponse(id string) survey.Response {
	return survey.Response{
		ID: id,
		Pages: []survey.ResponsePage{{Questions: []survey.ResponseQuestion{
			{ID: "q-first", Answers: []survey.Answer{{Text: "Anonymous"}}},
		}}},
	}
}

func TestPollOnce_RecordsAndSkips(t *testing.T) {
	f := newPollerFixture(t)
	f.source.Responses = []survey.Response{
		helpers.PreScreenResponse(t, "r1", "Jo", "Lee", "b@y.com", "34", "https://a/r1"),
		noEmailResponse("r2"),
	}

	result, err := f.worker().PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, workers.PollResult{Fetched: 2, Recorded: 1, Skipped: 1}, result)

	var p models.Participant
	require.NoError(t, f.db.Where("email = ?", "b@y.com").First(&p).Error)
	assert.Equal(t, models.ParticipantStatusPendingReview, p.Status)
	assert.Equal(t, "Jo Lee", *p.Name)

	var processed []models.ProcessedSurveyResponse
	require.NoError(t, f.db.Order("response_id").Find(&processed).Error)
	require.Len(t, processed, 2)
	assert.Equal(t, models.SurveyOutcomeRecorded, processed[0].Outcome)
	assert.Equal(t, models.SurveyOutcomeSkipped, processed[1].Outcome)
	assert.Nil(t, processed[1].Email)
}

func TestPollOnce_DedupSurvivesRestart(t *testing.T) {
	f := newPollerFixture(t)
	f.source.Responses = []survey.Response{
		helpers.PreScreenResponse(t, "r1", "Jo", "Lee", "b@y.com", "34", ""),
		noEmailResponse("r2"),
	}

	_, err := f.worker().PollOnce(context.Background())
	require.NoError(t, err)

	restarted := f.worker()
	result, err := restarted.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, workers.PollResult{Fetched: 2, Seen: 2}, result)

	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPollOnce_FailedRecordIsRetried(t *testing.T) {
	f := newPollerFixture(t)
	f.source.Responses = []survey.Response{
		helpers.PreScreenResponse(t, "r1", "Jo", "Lee", "b@y.com", "34", ""),
	}
	f.source.SetDetailsErr(errors.New("provider down"))

	result, err := f.worker().PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	var processed int64
	require.NoError(t, f.db.Model(&models.ProcessedSurveyResponse{}).Count(&processed).Error)
	assert.Zero(t, processed)

	f.source.SetDetailsErr(nil)
	result, err = f.worker().PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Recorded)
}

func TestPollOnce_FetchError(t *testing.T) {
	f := newPollerFixture(t)
	f.source.ResponsesErr = errors.New("timeout")

	_, err := f.worker().PollOnce(context.Background())
	assert.Error(t, err)
}

func TestStart_PollsImmediatelyAndStops(t *testing.T) {
	f := newPollerFixture(t)
	f.source.Responses = []survey.Response{
		helpers.PreScreenResponse(t, "r1", "Jo", "Lee", "b@y.com", "34", ""),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.worker().Start(ctx)

	assert.Eventually(t, func() bool {
		var count int64
		if err := f.db.Model(&models.ProcessedSurveyResponse{}).Count(&count).Error; err != nil {
			return false
		}
		return count == 1
	}, 5*time.Second, 20*time.Millisecond)
}
