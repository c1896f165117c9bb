package ports

import (
	"context"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// ScholarshipFilter is the backend form of a listing query.
type ScholarshipFilter struct {
	Search   string
	Category string
	Subject  string
	Degree   string
	Country  string
	Sort     string
	Page     int
	Limit    int
}

// ScholarshipCatalog reads and writes scholarship listings.
type ScholarshipCatalog interface {
	ListScholarships(ctx context.Context, filter ScholarshipFilter) ([]domain.Scholarship, int64, error)
	GetScholarship(ctx context.Context, id string) (*domain.Scholarship, error)
	CreateScholarship(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error)
	UpdateScholarship(ctx context.Context, id string, s *domain.Scholarship) (*domain.Scholarship, error)
	DeleteScholarship(ctx context.Context, id string) error
}

// ApplicationFilter narrows the moderator listing.
type ApplicationFilter struct {
	Status string
	Sort   string
}

// ApplicationDesk manages scholarship applications.
type ApplicationDesk interface {
	CreateApplication(ctx context.Context, a *domain.Application) (*domain.Application, error)
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	ListApplicationsByUser(ctx context.Context, email string) ([]domain.Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus, feedback string) error
	DeleteApplication(ctx context.Context, id string) error
}

// ReviewBoard manages scholarship reviews.
type ReviewBoard interface {
	CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	ListReviewsByScholarship(ctx context.Context, scholarshipID string) ([]domain.Review, error)
	ListReviewsByUser(ctx context.Context, email string) ([]domain.Review, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// UserDirectory manages backend user records.
type UserDirectory interface {
	UpsertUser(ctx context.Context, u *domain.UserRecord) (domain.UpsertOutcome, error)
	ListUsers(ctx context.Context, role domain.Role) ([]domain.UserRecord, error)
	SetUserRole(ctx context.Context, email string, role domain.Role) error
	DeleteUser(ctx context.Context, id string) error
}

// Payments creates payment intents for application fees.
type Payments interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64) (*domain.PaymentIntent, error)
}

// Analytics exposes the admin dashboard figures.
type Analytics interface {
	FetchAnalytics(ctx context.Context) (*domain.Analytics, error)
}
