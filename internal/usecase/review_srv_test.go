package usecase

import (
	"context"
	"math"
	"testing"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/pkg/apperr"
)

func TestSubmitReviewRecomputesRating(t *testing.T) {
	env := newTestEnv()
	driver := env.addUser(entity.RoleDriver)
	first := env.addUser(entity.RolePassenger)
	second := env.addUser(entity.RolePassenger)

	if _, err := env.service.Review.SubmitReview(context.Background(), first.ID.String(), driver.ID.String(), &request.CreateReviewRequest{
		Rating: 4,
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	if _, err := env.service.Review.SubmitReview(context.Background(), second.ID.String(), driver.ID.String(), &request.CreateReviewRequest{
		Rating: 2,
	}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	// Exact mean, not a running approximation: (4 + 2) / 2 = 3.0
	stored, _ := env.users.FindByID(context.Background(), driver.ID)
	if math.Abs(stored.Rating-3.0) > 1e-9 {
		t.Errorf("rating = %v, want 3.0", stored.Rating)
	}
}

func TestSubmitReviewRatingOrderIndependent(t *testing.T) {
	ratings := []float64{5, 1, 3, 4}

	forward := newTestEnv()
	target := forward.addUser(entity.RoleDriver)
	for _, rating := range ratings {
		reviewer := forward.addUser(entity.RolePassenger)
		if _, err := forward.service.Review.SubmitReview(context.Background(), reviewer.ID.String(), target.ID.String(), &request.CreateReviewRequest{Rating: rating}); err != nil {
			t.Fatalf("forward review: %v", err)
		}
	}

	backward := newTestEnv()
	targetB := backward.addUser(entity.RoleDriver)
	for i := len(ratings) - 1; i >= 0; i-- {
		reviewer := backward.addUser(entity.RolePassenger)
		if _, err := backward.service.Review.SubmitReview(context.Background(), reviewer.ID.String(), targetB.ID.String(), &request.CreateReviewRequest{Rating: ratings[i]}); err != nil {
			t.Fatalf("backward review: %v", err)
		}
	}

	storedF, _ := forward.users.FindByID(context.Background(), target.ID)
	storedB, _ := backward.users.FindByID(context.Background(), targetB.ID)
	if math.Abs(storedF.Rating-storedB.Rating) > 1e-9 {
		t.Errorf("rating differs by submission order: %v vs %v", storedF.Rating, storedB.Rating)
	}
	if math.Abs(storedF.Rating-3.25) > 1e-9 {
		t.Errorf("rating = %v, want 3.25", storedF.Rating)
	}
}

func TestSubmitReviewSelfRejected(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(entity.RolePassenger)

	_, err := env.service.Review.SubmitReview(context.Background(), user.ID.String(), user.ID.String(), &request.CreateReviewRequest{
		Rating: 5,
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}

	count, _ := env.reviews.CountByReviewedID(context.Background(), user.ID)
	if count != 0 {
		t.Errorf("reviews stored = %d, want 0", count)
	}
}

func TestSubmitReviewUnknownUser(t *testing.T) {
	env := newTestEnv()
	reviewer := env.addUser(entity.RolePassenger)

	_, err := env.service.Review.SubmitReview(context.Background(), reviewer.ID.String(), "57b3c344-7f4a-41fb-bd4a-e1c26e2e4b27", &request.CreateReviewRequest{
		Rating: 5,
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found error", err)
	}
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	env := newTestEnv()
	reviewer := env.addUser(entity.RolePassenger)
	target := env.addUser(entity.RoleDriver)

	for _, rating := range []float64{0, 0.5, 5.5, 6} {
		_, err := env.service.Review.SubmitReview(context.Background(), reviewer.ID.String(), target.ID.String(), &request.CreateReviewRequest{
			Rating: rating,
		})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("rating %v: err = %v, want validation error", rating, err)
		}
	}
}

func TestListUserReviews(t *testing.T) {
	env := newTestEnv()
	target := env.addUser(entity.RoleDriver)

	for i := 0; i < 3; i++ {
		reviewer := env.addUser(entity.RolePassenger)
		if _, err := env.service.Review.SubmitReview(context.Background(), reviewer.ID.String(), target.ID.String(), &request.CreateReviewRequest{Rating: 4}); err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
	}

	page, err := env.service.Review.ListUserReviews(context.Background(), target.ID.String(), &request.PaginatedRequest{Limit: 2})
	if err != nil {
		t.Fatalf("ListUserReviews: %v", err)
	}
	if len(page.Data) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Data))
	}
	if page.Pagination.Total != 3 {
		t.Errorf("total = %d, want 3", page.Pagination.Total)
	}
}
