package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

// ReviewInput is the review form.
type ReviewInput struct {
	ScholarshipID string
	Rating        int
	Comment       string
}

type ReviewService struct {
	reviews ports.ReviewBoard
	catalog ports.ScholarshipCatalog
	now     func() time.Time
}

func NewReviewService(reviews ports.ReviewBoard, catalog ports.ScholarshipCatalog) *ReviewService {
	return &ReviewService{reviews: reviews, catalog: catalog, now: time.Now}
}

// Submit posts a review as the signed-in user.
func (s *ReviewService) Submit(ctx context.Context, author *domain.Identity, in ReviewInput) (*domain.Review, error) {
	if author == nil {
		return nil, domain.ErrNotSignedIn
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("submit review: rating %d: %w", in.Rating, domain.ErrInvalidInput)
	}

	sch, err := s.catalog.GetScholarship(ctx, in.ScholarshipID)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	created, err := s.reviews.CreateReview(ctx, &domain.Review{
		ScholarshipID:   sch.ID,
		ScholarshipName: sch.Name,
		University:      sch.University,
		Rating:          in.Rating,
		Comment:         strings.TrimSpace(in.Comment),
		ReviewerName:    author.DisplayName,
		ReviewerEmail:   author.Email,
		ReviewerImage:   author.PhotoURL,
		ReviewedAt:      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	return created, nil
}

func (s *ReviewService) ListMine(ctx context.Context, email string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListReviewsByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return nonNilReviews(reviews), nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviews.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return nonNilReviews(reviews), nil
}

// DeleteMine removes a review only if email wrote it.
func (s *ReviewService) DeleteMine(ctx context.Context, email, id string) error {
	r, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !strings.EqualFold(r.ReviewerEmail, email) {
		return fmt.Errorf("delete review: %w", domain.ErrNotFound)
	}
	return s.Delete(ctx, id)
}

// Delete removes any review (moderation).
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func nonNilReviews(r []domain.Review) []domain.Review {
	if r == nil {
		return []domain.Review{}
	}
	return r
}
