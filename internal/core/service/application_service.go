package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

// ApplyInput is the application form submitted after payment.
type ApplyInput struct {
	ScholarshipID string
	PaymentID     string
	Phone         string
	Photo         string
	Address       string
	Gender        string
	Degree        string
	SSCResult     string
	HSCResult     string
	StudyGap      string
}

var moderationStatuses = map[domain.ApplicationStatus]struct{}{
	domain.ApplicationPending:    {},
	domain.ApplicationProcessing: {},
	domain.ApplicationCompleted:  {},
	domain.ApplicationRejected:   {},
}

// ApplicationService drives the payment → apply flow and its moderation.
type ApplicationService struct {
	apps     ports.ApplicationDesk
	catalog  ports.ScholarshipCatalog
	payments ports.Payments
	log      zerolog.Logger
	now      func() time.Time
}

func NewApplicationService(apps ports.ApplicationDesk, catalog ports.ScholarshipCatalog, payments ports.Payments, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, catalog: catalog, payments: payments, log: log, now: time.Now}
}

// CreatePaymentIntent charges the application fee plus service charge of a scholarship.
func (s *ApplicationService) CreatePaymentIntent(ctx context.Context, scholarshipID string) (*domain.PaymentIntent, error) {
	sch, err := s.catalog.GetScholarship(ctx, scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}

	cents := int64(math.Round(sch.TotalCharge() * 100))
	if cents <= 0 {
		return nil, fmt.Errorf("payment intent: non-positive amount: %w", domain.ErrInvalidInput)
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, cents)
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}
	if intent.AmountCents == 0 {
		intent.AmountCents = cents
	}
	return intent, nil
}

// Apply submits a paid application. The new application is pending.
func (s *ApplicationService) Apply(ctx context.Context, applicant *domain.Identity, in ApplyInput) (*domain.Application, error) {
	if applicant == nil {
		return nil, domain.ErrNotSignedIn
	}
	if strings.TrimSpace(in.PaymentID) == "" {
		return nil, domain.ErrPaymentIncomplete
	}

	sch, err := s.catalog.GetScholarship(ctx, in.ScholarshipID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	app := &domain.Application{
		ScholarshipID:   sch.ID,
		ScholarshipName: sch.Name,
		University:      sch.University,
		UserName:        applicant.DisplayName,
		UserEmail:       applicant.Email,
		UserID:          applicant.UID,
		Phone:           in.Phone,
		Photo:           in.Photo,
		Address:         in.Address,
		Gender:          in.Gender,
		Degree:          in.Degree,
		SSCResult:       in.SSCResult,
		HSCResult:       in.HSCResult,
		StudyGap:        in.StudyGap,
		PaymentID:       in.PaymentID,
		AmountPaid:      sch.TotalCharge(),
		Status:          domain.ApplicationPending,
		AppliedAt:       s.now().UTC(),
	}

	created, err := s.apps.CreateApplication(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	s.log.Info().
		Str("scholarship", sch.ID).
		Str("applicant", applicant.Email).
		Msg("application submitted")
	return created, nil
}

// ListMine returns the applications of one applicant.
func (s *ApplicationService) ListMine(ctx context.Context, email string) ([]domain.Application, error) {
	apps, err := s.apps.ListApplicationsByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// Cancel withdraws an applicant's own application while it is still pending.
func (s *ApplicationService) Cancel(ctx context.Context, email, id string) error {
	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel application: %w", err)
	}
	if !strings.EqualFold(app.UserEmail, email) {
		return fmt.Errorf("cancel application: %w", domain.ErrNotFound)
	}
	if !app.Status.Cancellable() {
		return fmt.Errorf("cancel application: %w", domain.ErrNotCancellable)
	}
	if err := s.apps.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("cancel application: %w", err)
	}
	return nil
}

// ListAll returns every application for moderation.
func (s *ApplicationService) ListAll(ctx context.Context, filter ports.ApplicationFilter) ([]domain.Application, error) {
	if filter.Status != "" {
		if _, ok := moderationStatuses[domain.ApplicationStatus(filter.Status)]; !ok {
			return nil, fmt.Errorf("list applications: status %q: %w", filter.Status, domain.ErrInvalidInput)
		}
	}
	apps, err := s.apps.ListApplications(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// Moderate sets the status of an application and records feedback for the applicant.
func (s *ApplicationService) Moderate(ctx context.Context, id string, status domain.ApplicationStatus, feedback string) error {
	if _, ok := moderationStatuses[status]; !ok {
		return fmt.Errorf("moderate application: status %q: %w", status, domain.ErrInvalidInput)
	}
	if err := s.apps.UpdateApplicationStatus(ctx, id, status, strings.TrimSpace(feedback)); err != nil {
		return fmt.Errorf("moderate application: %w", err)
	}
	return nil
}
