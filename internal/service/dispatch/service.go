package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/staffpulse/backend/internal/domain"
)

type carrier interface {
	SendWhatsApp(ctx context.Context, to, body string) (providerMessageID string, err error)
}

type deliveryWriter interface {
	Create(ctx context.Context, record domain.DeliveryRecord) error
}

type employeeRepository interface {
	ListActiveByOrg(ctx context.Context, orgID uuid.UUID, department *string) ([]domain.Employee, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Employee, error)
}

// Request describes one bulk send. When EmployeeIDs is set the send targets
// exactly those employees; otherwise it targets every active employee of the
// organization, optionally narrowed to one department.
type Request struct {
	OrganizationID uuid.UUID
	Template       domain.MessageTemplate
	EmployeeIDs    []uuid.UUID
	Department     *string
}

// Service fans check-in prompts out to employees over the message carrier.
type Service struct {
	carrier        carrier
	deliveries     deliveryWriter
	employees      employeeRepository
	maxConcurrency int
	attemptTimeout time.Duration
	log            *slog.Logger
}

func NewService(
	carrier carrier,
	deliveries deliveryWriter,
	employees employeeRepository,
	maxConcurrency int,
	attemptTimeout time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		carrier:        carrier,
		deliveries:     deliveries,
		employees:      employees,
		maxConcurrency: maxConcurrency,
		attemptTimeout: attemptTimeout,
		log:            logger.With("component", "dispatch"),
	}
}

// Dispatch resolves the request's recipients and sends to all of them.
func (s *Service) Dispatch(ctx context.Context, req Request) (domain.DispatchSummary, error) {
	recipients, err := s.resolveRecipients(ctx, req)
	if err != nil {
		return domain.DispatchSummary{}, err
	}

	return s.dispatchAll(ctx, req.OrganizationID, recipients, req.Template), nil
}

func (s *Service) resolveRecipients(ctx context.Context, req Request) ([]domain.Employee, error) {
	if req.OrganizationID == uuid.Nil {
		return nil, domain.NewValidationError("organization_id", "is required")
	}
	if !req.Template.IsValid() {
		return nil, domain.NewValidationError("template", fmt.Sprintf("unknown template %q", req.Template))
	}

	if len(req.EmployeeIDs) > 0 {
		listed, err := s.employees.ListByIDs(ctx, req.EmployeeIDs)
		if err != nil {
			return nil, fmt.Errorf("list employees by id: %w", err)
		}
		// Never send across organization boundaries, even if the caller
		// supplied foreign employee ids.
		recipients := make([]domain.Employee, 0, len(listed))
		for _, e := range listed {
			if e.OrganizationID == req.OrganizationID && e.Active {
				recipients = append(recipients, e)
			}
		}
		return recipients, nil
	}

	recipients, err := s.employees.ListActiveByOrg(ctx, req.OrganizationID, req.Department)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	return recipients, nil
}

// dispatchAll sends to every recipient with bounded concurrency and returns
// per-recipient results in input order. A failed send never aborts the batch.
// Cancelling ctx stops new launches; attempts already in flight finish under
// their own timeout so their delivery outcome is still recorded.
func (s *Service) dispatchAll(ctx context.Context, orgID uuid.UUID, recipients []domain.Employee, template domain.MessageTemplate) domain.DispatchSummary {
	results := make([]domain.DispatchResult, len(recipients))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, employee := range recipients {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(recipients); j++ {
				results[j] = domain.DispatchResult{
					EmployeeID:  recipients[j].ID,
					Success:     false,
					ErrorReason: "dispatch canceled before send",
				}
			}
			break
		}

		g.Go(func() error {
			results[i] = s.sendOne(ctx, orgID, employee, template)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	summary := domain.DispatchSummary{Total: len(recipients), Results: results}
	for _, r := range results {
		if r.Success {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}

	s.log.InfoContext(ctx, "dispatch finished",
		slog.String("organization_id", orgID.String()),
		slog.Int("total", summary.Total),
		slog.Int("sent", summary.Sent),
		slog.Int("failed", summary.Failed),
	)

	return summary
}

func (s *Service) sendOne(ctx context.Context, orgID uuid.UUID, employee domain.Employee, template domain.MessageTemplate) domain.DispatchResult {
	// The attempt outlives batch cancellation but never the timeout.
	attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.attemptTimeout)
	defer cancel()

	result := domain.DispatchResult{EmployeeID: employee.ID}
	record := domain.DeliveryRecord{
		ID:             uuid.New(),
		EmployeeID:     &employee.ID,
		OrganizationID: &orgID,
		Recipient:      employee.Phone,
		CreatedAt:      time.Now().UTC(),
	}

	sid, err := s.carrier.SendWhatsApp(attemptCtx, employee.Phone, messageBody(template, employee.Name))
	if err != nil {
		result.ErrorReason = err.Error()
		record.Status = domain.DeliveryStatusFailed
		record.ErrorReason = &result.ErrorReason
		s.log.WarnContext(attemptCtx, "send failed",
			slog.String("employee_id", employee.ID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		result.Success = true
		result.ProviderMessageID = sid
		record.Status = domain.DeliveryStatusSent
		record.ProviderMessageID = &sid
	}

	if err := s.deliveries.Create(attemptCtx, record); err != nil {
		s.log.ErrorContext(attemptCtx, "delivery record write failed",
			slog.String("employee_id", employee.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return result
}
