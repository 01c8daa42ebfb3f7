package repositories_test

import (
	"testing"
	"time"

	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestParticipantRepository_CreateAndFind(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewParticipantRepository()

	p := &models.Participant{Email: "a@x.com", Status: models.ParticipantStatusInterested}
	require.NoError(t, repo.Create(db, p))
	assert.NotEmpty(t, p.ID)

	found, err := repo.FindByEmail(db, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repo.FindByEmail(db, "A@x.com")
	assert.ErrorIs(t, err, repositories.ErrParticipantNotFound, "email lookup is case-sensitive")

	err = repo.Create(db, &models.Participant{Email: "a@x.com", Status: models.ParticipantStatusInterested})
	assert.ErrorIs(t, err, repositories.ErrParticipantExists)

	err = repo.Update(db, "missing-id", map[string]interface{}{"status": models.ParticipantStatusEligible})
	assert.ErrorIs(t, err, repositories.ErrParticipantNotFound)
}

func TestParticipantRepository_EligibleAwaitingBookingOrder(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewParticipantRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := []*models.Participant{
		{Email: "old@x.com", Status: models.ParticipantStatusEligible, PrescreenApprovalDate: timePtr(base)},
		{Email: "new@x.com", Status: models.ParticipantStatusEligible, PrescreenApprovalDate: timePtr(base.Add(48 * time.Hour))},
		{Email: "booked@x.com", Status: models.ParticipantStatusEligible, PrescreenApprovalDate: timePtr(base.Add(72 * time.Hour)), BookingTime: timePtr(base)},
		{Email: "pending@x.com", Status: models.ParticipantStatusPendingReview},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(db, p))
	}

	eligible, err := repo.FindEligibleAwaitingBooking(db)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "new@x.com", eligible[0].Email)
	assert.Equal(t, "old@x.com", eligible[1].Email)
}

func TestParticipantRepository_FindAllNewestFirst(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewParticipantRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := &models.Participant{Email: "first@x.com", Status: models.ParticipantStatusInterested}
	first.CreatedAt = base
	second := &models.Participant{Email: "second@x.com", Status: models.ParticipantStatusEligible}
	second.CreatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Create(db, first))
	require.NoError(t, repo.Create(db, second))

	all, err := repo.FindAll(db, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second@x.com", all[0].Email)

	onlyInterested, err := repo.FindAll(db, models.ParticipantStatusInterested)
	require.NoError(t, err)
	require.Len(t, onlyInterested, 1)
	assert.Equal(t, "first@x.com", onlyInterested[0].Email)
}

func TestNotificationRepository_ResolveOnlyOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewNotificationRepository()

	n := &models.Notification{Type: models.NotificationTypeEmailReceived, Email: "a@x.com"}
	require.NoError(t, repo.Create(db, n))
	assert.Equal(t, models.NotificationStatusPending, n.Status)

	now := time.Now().UTC()
	changed, err := repo.Resolve(db, n.ID, models.NotificationStatusApproved, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Resolve(db, n.ID, models.NotificationStatusRejected, now)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := repo.FindByID(db, n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusApproved, stored.Status)
	assert.NotNil(t, stored.ResolvedAt)

	_, err = repo.FindByID(db, "nope")
	assert.ErrorIs(t, err, repositories.ErrNotificationNotFound)
}

func TestNotificationRepository_ListJoinsApprovalDate(t *testing.T) {
	db := helpers.NewTestDB(t)
	notifications := repositories.NewNotificationRepository()
	participants := repositories.NewParticipantRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	approvedAt := base.Add(-time.Hour)
	require.NoError(t, participants.Create(db, &models.Participant{
		Email:                 "b@y.com",
		Status:                models.ParticipantStatusEligible,
		PrescreenApprovalDate: &approvedAt,
	}))

	older := &models.Notification{Type: models.NotificationTypePreScreenCompleted, Email: "b@y.com", Timestamp: base, Data: datatypes.JSON(`{"name":"Jo Lee"}`)}
	newer := &models.Notification{Type: models.NotificationTypeEmailReceived, Email: "nobody@x.com", Timestamp: base.Add(time.Minute), EmailSubject: strPtr("hi")}
	require.NoError(t, notifications.Create(db, older))
	require.NoError(t, notifications.Create(db, newer))

	rows, err := notifications.FindAllWithApprovalDate(db)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Nil(t, rows[0].PrescreenApprovalDate)
	assert.Equal(t, older.ID, rows[1].ID)
	require.NotNil(t, rows[1].PrescreenApprovalDate)
	assert.True(t, approvedAt.Equal(*rows[1].PrescreenApprovalDate))
	assert.Equal(t, map[string]any{"name": "Jo Lee"}, rows[1].DataMap())

	found, err := notifications.FindByEmailAndType(db, "b@y.com", models.NotificationTypePreScreenCompleted)
	require.NoError(t, err)
	assert.Equal(t, older.ID, found.ID)

	_, err = notifications.FindByEmailAndType(db, "b@y.com", models.NotificationTypeBookingScheduled)
	assert.ErrorIs(t, err, repositories.ErrNotificationNotFound)
}

func TestBookingRepository_RequiresParticipant(t *testing.T) {
	db := helpers.NewTestDB(t)
	bookings := repositories.NewBookingRepository()

	err := bookings.Create(db, &models.Booking{ParticipantID: "ghost", Email: "g@x.com", BookingTime: time.Now()})
	assert.ErrorIs(t, err, repositories.ErrBookingParticipantMissing)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBookingRepository_ListUsesCurrentParticipantIdentity(t *testing.T) {
	db := helpers.NewTestDB(t)
	bookings := repositories.NewBookingRepository()
	participants := repositories.NewParticipantRepository()
	base := time.Date(2025, 6, 13, 17, 30, 0, 0, time.UTC)

	p := &models.Participant{Email: "b@y.com", Status: models.ParticipantStatusBooked, Name: strPtr("Jo")}
	require.NoError(t, participants.Create(db, p))

	require.NoError(t, bookings.Create(db, &models.Booking{ParticipantID: p.ID, Email: p.Email, Name: strPtr("Jo"), BookingTime: base}))
	require.NoError(t, bookings.Create(db, &models.Booking{ParticipantID: p.ID, Email: p.Email, Name: strPtr("Jo"), BookingTime: base.Add(24 * time.Hour)}))

	require.NoError(t, participants.Update(db, p.ID, map[string]interface{}{"name": "Jo Lee"}))

	rows, err := bookings.FindAllWithParticipant(db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].BookingTime.After(rows[1].BookingTime), "latest booking first")
	require.NotNil(t, rows[0].ParticipantName)
	assert.Equal(t, "Jo Lee", *rows[0].ParticipantName)
	assert.Equal(t, "Jo", *rows[0].Name, "booking row itself is immutable")
	assert.Equal(t, "b@y.com", rows[0].ParticipantEmail)
}

func TestSurveyResponseRepository_MarkIsIdempotent(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewSurveyResponseRepository()

	rec := &models.ProcessedSurveyResponse{ResponseID: "r1", Outcome: models.SurveyOutcomeRecorded, ProcessedAt: time.Now().UTC()}
	require.NoError(t, repo.MarkProcessed(db, rec))
	require.NoError(t, repo.MarkProcessed(db, &models.ProcessedSurveyResponse{ResponseID: "r1", Outcome: models.SurveyOutcomeSkipped, ProcessedAt: time.Now().UTC()}))

	seen, err := repo.FindProcessedIDs(db, []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"r1": {}}, seen)

	var stored models.ProcessedSurveyResponse
	require.NoError(t, db.First(&stored, "response_id = ?", "r1").Error)
	assert.Equal(t, models.SurveyOutcomeRecorded, stored.Outcome, "first mark wins")
}
