package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/testutil"
)

func seedAppointment(t *testing.T, db *gorm.DB, userID, profID uint, at time.Time, status domain.Status) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProfessionalID: profID,
		ScheduledAt:    at,
		Status:         string(status),
		Price:          80,
	}
	require.NoError(t, NewAppointmentGormRepository(db).CreateAppointment(context.Background(), ap))
	return ap
}

func TestCompareAndSwapStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	client := testutil.CreateUser(t, db, "ana", models.RoleClient)
	prof := testutil.CreateProfessional(t, db, "bia", 80, true)
	at := time.Now().Add(48 * time.Hour)
	ap := seedAppointment(t, db, client.ID, prof.ID, at, domain.StatusRequested)

	now := time.Now()
	err := repo.CompareAndSwapStatus(ctx, domain.Transition{
		AppointmentID: ap.ID, From: domain.StatusRequested, To: domain.StatusScheduled,
		By: domain.ActorProfessional, At: now,
	})
	require.NoError(t, err)

	// second writer expecting the old status loses
	err = repo.CompareAndSwapStatus(ctx, domain.Transition{
		AppointmentID: ap.ID, From: domain.StatusRequested, To: domain.StatusCanceled,
		By: domain.ActorClient, At: now,
	})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "status_conflict", be.Code)
	assert.Equal(t, "scheduled", be.Detail)

	err = repo.CompareAndSwapStatus(ctx, domain.Transition{
		AppointmentID: ap.ID, From: domain.StatusScheduled, To: domain.StatusCanceled,
		By: domain.ActorClient, At: now,
	})
	require.NoError(t, err)

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", got.Status)
	assert.Equal(t, "client", got.CanceledBy)
	assert.NotNil(t, got.CanceledAt)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, 80.0, got.Price)
	assert.WithinDuration(t, at, got.ScheduledAt, time.Millisecond)
	require.NotNil(t, got.Professional)
	require.NotNil(t, got.Professional.User)

	err = repo.CompareAndSwapStatus(ctx, domain.Transition{
		AppointmentID: uuid.NewString(), From: domain.StatusRequested, To: domain.StatusScheduled, At: now,
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestCreateWithoutConflict(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	client := testutil.CreateUser(t, db, "ana", models.RoleClient)
	prof := testutil.CreateProfessional(t, db, "bia", 80, true)
	at := time.Date(2030, 1, 10, 14, 0, 0, 0, time.UTC)
	seedAppointment(t, db, client.ID, prof.ID, at, domain.StatusScheduled)
	seedAppointment(t, db, client.ID, prof.ID, at.Add(4*time.Hour), domain.StatusCanceled)

	locked := lockedReads(t, db)

	book := func(start time.Time) error {
		return repo.CreateWithoutConflict(ctx, &models.Appointment{
			ID: uuid.NewString(), UserID: client.ID, ProfessionalID: prof.ID,
			ScheduledAt: start, Status: "requested", Price: 80,
		})
	}

	assert.True(t, httperr.IsBusiness(book(at), "time_conflict"))
	assert.True(t, httperr.IsBusiness(book(at.Add(30*time.Minute)), "time_conflict"))
	assert.True(t, httperr.IsBusiness(book(at.Add(-30*time.Minute)), "time_conflict"))
	assert.NoError(t, book(at.Add(time.Hour)))
	assert.NoError(t, book(at.Add(-time.Hour)))
	// canceled appointments free their slot
	assert.NoError(t, book(at.Add(4*time.Hour)))
	// the slot just taken is no longer free
	assert.True(t, httperr.IsBusiness(book(at.Add(time.Hour)), "time_conflict"))

	assert.True(t, httperr.IsBusiness(repo.CreateWithoutConflict(ctx, &models.Appointment{
		ID: uuid.NewString(), UserID: client.ID, ProfessionalID: 9999,
		ScheduledAt: at.Add(24 * time.Hour), Status: "requested", Price: 80,
	}), "professional_not_found"))

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Where("professional_id = ?", prof.ID).Count(&count).Error)
	assert.Equal(t, int64(5), count)
	assert.Len(t, *locked, 8)
	assert.Equal(t, "professionals", (*locked)[0])
}

func TestIdempotencyKeyLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	client := testutil.CreateUser(t, db, "ana", models.RoleClient)
	other := testutil.CreateUser(t, db, "caio", models.RoleClient)
	prof := testutil.CreateProfessional(t, db, "bia", 80, true)

	key := "k-1"
	ap := &models.Appointment{
		ID: uuid.NewString(), UserID: client.ID, ProfessionalID: prof.ID,
		ScheduledAt: time.Now().Add(time.Hour), Status: "requested", Price: 80,
		IdempotencyKey: &key,
	}
	require.NoError(t, repo.CreateAppointment(ctx, ap))

	found, err := repo.FindByIdempotencyKey(ctx, client.ID, key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ap.ID, found.ID)

	none, err := repo.FindByIdempotencyKey(ctx, other.ID, key)
	require.NoError(t, err)
	assert.Nil(t, none)

	dup := *ap
	dup.ID = uuid.NewString()
	assert.Error(t, repo.CreateAppointment(ctx, &dup))
}

func TestListingAndAvailabilityQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	client := testutil.CreateUser(t, db, "ana", models.RoleClient)
	prof := testutil.CreateProfessional(t, db, "bia", 80, true)
	pending := testutil.CreateProfessional(t, db, "duda", 50, false)
	day := time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

	seedAppointment(t, db, client.ID, prof.ID, day.Add(15*time.Hour), domain.StatusRequested)
	seedAppointment(t, db, client.ID, prof.ID, day.Add(9*time.Hour), domain.StatusScheduled)
	seedAppointment(t, db, client.ID, prof.ID, day.Add(11*time.Hour), domain.StatusCanceled)
	seedAppointment(t, db, client.ID, prof.ID, day.Add(36*time.Hour), domain.StatusScheduled)

	list, err := repo.ListForProfessional(ctx, prof.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.True(t, list[0].ScheduledAt.Before(list[1].ScheduledAt))
	require.NotNil(t, list[0].User)
	assert.Equal(t, client.ID, list[0].User.ID)

	mine, err := repo.ListForClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 4)
	require.NotNil(t, mine[0].Professional)
	require.NotNil(t, mine[0].Professional.User)

	active, err := repo.ListActiveForPeriod(ctx, prof.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "scheduled", active[0].Status)

	_, err = repo.GetApprovedProfessional(ctx, pending.ID)
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
	_, err = repo.GetProfessionalByUser(ctx, client.ID)
	assert.True(t, httperr.IsBusiness(err, "profile_not_linked"))

	has, err := repo.HasWorkingHours(ctx, prof.ID)
	require.NoError(t, err)
	assert.False(t, has)
	wh, err := repo.GetWorkingHours(ctx, prof.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, wh)
}
