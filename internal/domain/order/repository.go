package order

import "context"

// Repository is the minimal storage capability reconciliation needs. The
// backing store must check the order's current status and apply the write set
// within one atomic unit, so that concurrent notifications for the same order
// cannot both apply side effects.
type Repository interface {
	Get(ctx context.Context, id string) (*Order, error)

	// Settle atomically transitions the order to paid, stores the raw
	// notification as its payment result, and applies the derived stock,
	// soldCount, and aggregate-stats adjustments. Returns ErrNotFound when
	// the order does not exist and ErrAlreadyPaid when another notification
	// already settled it; neither leaves any partial write behind.
	Settle(ctx context.Context, id string, paymentResult map[string]any) (*Settlement, error)

	// MarkFailed sets the order's status to failed with no other side
	// effects. The status check shares the atomic unit with the write:
	// ErrNotFound when the order does not exist, ErrAlreadyPaid when it has
	// already been settled.
	MarkFailed(ctx context.Context, id string) error
}
