package usecase

import (
	"context"
	"strings"
	"sync"

	"markethub/internal/entity"
	"markethub/internal/repo/persistent"
)

// DependentSweeper cleans one kind of dependent record when a listing is
// deleted. Kinds are registered at startup; a missing kind is a configuration
// decision, not a runtime failure.
type DependentSweeper interface {
	Kind() string
	Sweep(ctx context.Context, listingID, paymentID string) (deleted int64, skipped bool, err error)
}

// SweepAll runs every registered sweeper concurrently and waits for all of
// them. One kind failing never prevents the others from being attempted; the
// relative order of the deletes carries no meaning.
func SweepAll(ctx context.Context, sweepers []DependentSweeper, listingID, paymentID string) entity.SweepReport {
	outcomes := make([]entity.SweepOutcome, len(sweepers))

	var wg sync.WaitGroup
	for i, sweeper := range sweepers {
		wg.Add(1)
		go func(i int, s DependentSweeper) {
			defer wg.Done()
			outcome := entity.SweepOutcome{Kind: s.Kind()}
			deleted, skipped, err := s.Sweep(ctx, listingID, paymentID)
			outcome.Deleted = deleted
			outcome.Skipped = skipped
			if err != nil {
				outcome.Error = err.Error()
			}
			outcomes[i] = outcome
		}(i, sweeper)
	}
	wg.Wait()

	return entity.SweepReport{Outcomes: outcomes}
}

type paymentSweeper struct {
	payments persistent.PaymentRepository
}

func NewPaymentSweeper(payments persistent.PaymentRepository) DependentSweeper {
	return &paymentSweeper{payments: payments}
}

func (s *paymentSweeper) Kind() string { return "payments" }

func (s *paymentSweeper) Sweep(ctx context.Context, listingID, paymentID string) (int64, bool, error) {
	// Admin-created listings have no payment record; skip without touching
	// the store.
	if strings.HasPrefix(paymentID, entity.AdminPaymentPrefix) {
		return 0, true, nil
	}
	deleted, err := s.payments.DeleteByListing(ctx, listingID, paymentID)
	return deleted, false, err
}

type reviewSweeper struct {
	reviews persistent.ReviewRepository
}

func NewReviewSweeper(reviews persistent.ReviewRepository) DependentSweeper {
	return &reviewSweeper{reviews: reviews}
}

func (s *reviewSweeper) Kind() string { return "reviews" }

func (s *reviewSweeper) Sweep(ctx context.Context, listingID, _ string) (int64, bool, error) {
	deleted, err := s.reviews.DeleteByProduct(ctx, listingID)
	return deleted, false, err
}

type notificationSweeper struct {
	notifications persistent.NotificationRepository
}

func NewNotificationSweeper(notifications persistent.NotificationRepository) DependentSweeper {
	return &notificationSweeper{notifications: notifications}
}

func (s *notificationSweeper) Kind() string { return "notifications" }

func (s *notificationSweeper) Sweep(ctx context.Context, listingID, _ string) (int64, bool, error) {
	deleted, err := s.notifications.DeleteByListing(ctx, listingID)
	return deleted, false, err
}
