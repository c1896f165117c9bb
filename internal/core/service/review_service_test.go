package service

import (
	"context"
	"errors"
	"testing"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

func TestReviewService_SubmitCopiesAuthorAndScholarship(t *testing.T) {
	board := &stubReviewBoard{}
	svc := NewReviewService(board, newStubCatalog(rhodes))
	author := &domain.Identity{Email: "ada@example.com", DisplayName: "Ada", PhotoURL: "https://img/ada.png"}

	rv, err := svc.Submit(context.Background(), author, ReviewInput{ScholarshipID: "s1", Rating: 5, Comment: " great "})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if rv.ReviewerEmail != "ada@example.com" || rv.ScholarshipName != "Rhodes" || rv.Comment != "great" {
		t.Fatalf("unexpected review: %+v", rv)
	}
}

func TestReviewService_SubmitRejectsBadRating(t *testing.T) {
	svc := NewReviewService(&stubReviewBoard{}, newStubCatalog(rhodes))

	for _, rating := range []int{0, 6} {
		_, err := svc.Submit(context.Background(), &domain.Identity{}, ReviewInput{ScholarshipID: "s1", Rating: rating})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("rating %d: expected ErrInvalidInput, got %v", rating, err)
		}
	}
}

func TestReviewService_DeleteMineOnlyOwnReview(t *testing.T) {
	board := &stubReviewBoard{reviews: []domain.Review{
		{ID: "r1", ReviewerEmail: "ada@example.com"},
		{ID: "r2", ReviewerEmail: "bob@example.com"},
	}}
	svc := NewReviewService(board, newStubCatalog())

	if err := svc.DeleteMine(context.Background(), "bob@example.com", "r1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if board.deleted != "" {
		t.Fatal("expected nothing deleted")
	}
	if err := svc.DeleteMine(context.Background(), "Ada@Example.com", "r1"); err != nil {
		t.Fatalf("DeleteMine returned error: %v", err)
	}
	if board.deleted != "r1" {
		t.Fatalf("expected r1 deleted, got %q", board.deleted)
	}
}

func TestReviewService_ListMineNeverNil(t *testing.T) {
	svc := NewReviewService(&stubReviewBoard{}, newStubCatalog())

	got, err := svc.ListMine(context.Background(), "nobody@example.com")
	if err != nil || got == nil {
		t.Fatalf("expected empty slice, got %v / %v", got, err)
	}
}
