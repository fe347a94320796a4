package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/infra/repository"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
	"github.com/BruksfildServices01/seucuidado/internal/testutil"
)

type fixture struct {
	svc      *Service
	client   *models.User
	proUser  *models.User
	stranger *models.User
	chatID   string
	broker   *realtime.MemoryBroker
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)

	client := testutil.CreateUser(t, db, "ana", models.RoleClient)
	stranger := testutil.CreateUser(t, db, "caio", models.RoleClient)
	prof := testutil.CreateProfessional(t, db, "bia", 120, true)

	ap := models.Appointment{
		ID:             "6f1d5f7e-0000-4000-8000-000000000001",
		UserID:         client.ID,
		ProfessionalID: prof.ID,
		ScheduledAt:    time.Date(2030, 5, 7, 13, 0, 0, 0, time.UTC),
		Status:         "scheduled",
		Price:          120,
	}
	require.NoError(t, db.Omit("User", "Professional").Create(&ap).Error)

	broker := realtime.NewMemoryBroker()
	svc := NewService(
		repository.NewMessageGormRepository(db),
		repository.NewAppointmentGormRepository(db),
		broker,
	)

	return fixture{svc: svc, client: client, proUser: prof.User, stranger: stranger, chatID: ap.ID, broker: broker}
}

func TestPostAndHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sub, err := f.svc.Subscribe(ctx, f.chatID, f.proUser.ID)
	require.NoError(t, err)
	defer sub.Close()

	msg, err := f.svc.Post(ctx, f.chatID, f.client.ID, "  Olá, tudo bem?  ")
	require.NoError(t, err)
	assert.Equal(t, "Olá, tudo bem?", msg.Content)

	select {
	case payload := <-sub.Messages():
		var got models.Message
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, f.client.ID, got.SenderID)
	case <-time.After(time.Second):
		t.Fatal("message not published")
	}

	_, err = f.svc.Post(ctx, f.chatID, f.proUser.ID, "Tudo sim")
	require.NoError(t, err)

	history, err := f.svc.History(ctx, f.chatID, f.client.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Olá, tudo bem?", history[0].Content)
	assert.Equal(t, "Tudo sim", history[1].Content)
}

func TestOnlyParticipantsMayUseTheChat(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Post(ctx, f.chatID, f.stranger.ID, "oi")
	assert.True(t, httperr.IsBusiness(err, "chat_forbidden"))

	_, err = f.svc.History(ctx, f.chatID, f.stranger.ID, time.Time{})
	assert.True(t, httperr.IsBusiness(err, "chat_forbidden"))

	_, err = f.svc.Subscribe(ctx, f.chatID, f.stranger.ID)
	assert.True(t, httperr.IsBusiness(err, "chat_forbidden"))

	_, err = f.svc.History(ctx, "missing", f.client.ID, time.Time{})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestEmptyMessageIsRejected(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Post(context.Background(), f.chatID, f.client.ID, "   ")
	assert.True(t, httperr.IsBusiness(err, "empty_message"))
}
