package chat

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	appointmentdomain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
)

// MaxContentLength bounds one message body.
const MaxContentLength = 4000

type Messages interface {
	Create(ctx context.Context, m *models.Message) error
	ListAfter(ctx context.Context, chatID string, after time.Time, limit int) ([]models.Message, error)
}

// Service is the conversation between the client and the professional of
// one appointment. The chat id is the appointment id.
type Service struct {
	messages     Messages
	appointments appointmentdomain.Repository
	broker       realtime.Broker
	now          func() time.Time
}

func NewService(
	messages Messages,
	appointments appointmentdomain.Repository,
	broker realtime.Broker,
) *Service {
	return &Service{
		messages:     messages,
		appointments: appointments,
		broker:       broker,
		now:          time.Now,
	}
}

// Authorize returns the appointment when userID is one of its two
// participants.
func (s *Service) Authorize(ctx context.Context, chatID string, userID uint) (*models.Appointment, error) {
	ap, err := s.appointments.GetAppointment(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if ap.UserID == userID {
		return ap, nil
	}
	if ap.Professional != nil && ap.Professional.UserID == userID {
		return ap, nil
	}
	return nil, httperr.ErrBusiness("chat_forbidden")
}

func (s *Service) History(ctx context.Context, chatID string, userID uint, after time.Time) ([]models.Message, error) {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListAfter(ctx, chatID, after, 0)
}

// Post stores the message and fans it out to live subscribers. A publish
// failure is logged; pollers still see the stored message.
func (s *Service) Post(ctx context.Context, chatID string, userID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, httperr.ErrBusiness("empty_message")
	}
	if len(content) > MaxContentLength {
		return nil, httperr.ErrBusiness("message_too_long")
	}

	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChatID:    chatID,
		SenderID:  userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.broker.Publish(ctx, realtime.ChatChannel(chatID), payload)
	}
	if err != nil {
		log.Printf("chat %s publish: %v", chatID, err)
	}

	return msg, nil
}

// Subscribe opens a live feed of the chat for a participant.
func (s *Service) Subscribe(ctx context.Context, chatID string, userID uint) (realtime.Subscription, error) {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.broker.Subscribe(ctx, realtime.ChatChannel(chatID))
}

// SubscribeEvents opens the status feed of the appointment behind the chat.
func (s *Service) SubscribeEvents(ctx context.Context, chatID string, userID uint) (realtime.Subscription, error) {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.broker.Subscribe(ctx, realtime.AppointmentChannel(chatID))
}
