// Package checkin ingests inbound chat replies as mood check-ins and
// queues the per-employee risk analysis that follows each one.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/signal"
)

type employeeReader interface {
	GetByPhone(ctx context.Context, phone string) (domain.Employee, error)
}

type checkinWriter interface {
	Create(ctx context.Context, checkIn domain.CheckIn) (duplicate bool, err error)
}

type deliveryWriter interface {
	Create(ctx context.Context, record domain.DeliveryRecord) error
}

type enqueuer interface {
	Enqueue(job Job) bool
}

// Inbound is one raw carrier webhook payload, already form-decoded.
type Inbound struct {
	From              string // carrier-prefixed, e.g. "whatsapp:+15551234567"
	Body              string
	ProviderMessageID string
}

// Service turns inbound messages into stored check-ins.
type Service struct {
	employees  employeeReader
	checkins   checkinWriter
	deliveries deliveryWriter
	analyzer   enqueuer
	log        *slog.Logger
}

func NewService(
	employees employeeReader,
	checkins checkinWriter,
	deliveries deliveryWriter,
	analyzer enqueuer,
	logger *slog.Logger,
) *Service {
	return &Service{
		employees:  employees,
		checkins:   checkins,
		deliveries: deliveries,
		analyzer:   analyzer,
		log:        logger.With("component", "checkin"),
	}
}

// ProcessInbound handles one webhook message end to end: sender lookup,
// signal extraction, idempotent persistence, and analysis enqueue. The
// returned string is the reply text to hand back to the sender. Unknown
// senders are not an error — they get a friendly reply and a failed
// delivery record, and the webhook still acknowledges.
func (s *Service) ProcessInbound(ctx context.Context, in Inbound) (string, error) {
	phone := strings.TrimPrefix(in.From, "whatsapp:")

	employee, err := s.employees.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordUnknownSender(ctx, phone)
			return "Thanks for your message! This number isn't registered for check-ins yet. Please ask your HR team to add you.", nil
		}
		return "", fmt.Errorf("look up sender: %w", err)
	}

	extraction := signal.Extract(in.Body)

	checkIn := domain.CheckIn{
		ID:                uuid.New(),
		EmployeeID:        employee.ID,
		OrganizationID:    employee.OrganizationID,
		MoodScore:         extraction.MoodScore,
		Body:              in.Body,
		SentimentScore:    extraction.SentimentScore,
		SentimentLabel:    extraction.SentimentLabel,
		Channel:           domain.ChannelWhatsApp,
		ProviderMessageID: in.ProviderMessageID,
		CreatedAt:         time.Now().UTC(),
	}

	duplicate, err := s.checkins.Create(ctx, checkIn)
	if err != nil {
		return "", fmt.Errorf("store check-in: %w", err)
	}
	if duplicate {
		// Carrier retry of an already-processed message. The first
		// delivery already triggered analysis; just re-acknowledge.
		s.log.InfoContext(ctx, "duplicate check-in ignored",
			slog.String("provider_message_id", in.ProviderMessageID),
		)
		return ackText(employee.Name, extraction.MoodScore), nil
	}

	if !s.analyzer.Enqueue(Job{
		EmployeeID:     employee.ID,
		OrganizationID: employee.OrganizationID,
		Name:           employee.Name,
		Department:     employee.Department,
	}) {
		s.log.WarnContext(ctx, "analysis queue full, check-in stored without analysis",
			slog.String("employee_id", employee.ID.String()),
		)
	}

	return ackText(employee.Name, extraction.MoodScore), nil
}

func (s *Service) recordUnknownSender(ctx context.Context, phone string) {
	reason := "sender not registered"
	record := domain.DeliveryRecord{
		ID:          uuid.New(),
		Recipient:   phone,
		Status:      domain.DeliveryStatusFailed,
		ErrorReason: &reason,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.deliveries.Create(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "unknown sender record write failed", slog.String("error", err.Error()))
	}
}

func ackText(name string, score *int) string {
	if score != nil {
		return fmt.Sprintf("Thanks %s! Your check-in (%d/5) has been recorded. 💙", name, *score)
	}
	return fmt.Sprintf("Thanks %s! Your check-in has been recorded. Next time, include a number from 1-5 so we can track how you're doing. 💙", name)
}
