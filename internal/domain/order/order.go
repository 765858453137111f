package order

import "errors"

var (
	ErrNotFound    = errors.New("order: not found")
	ErrAlreadyPaid = errors.New("order: already paid")
)

// ShippingLineID is the reserved item id for the shipping-cost line.
// It is not a physical product and is excluded from inventory adjustments.
const ShippingLineID = "SHIPPING_COST"

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Item is one line of an order. Quantity is always positive.
type Item struct {
	ID       string `json:"id" firestore:"id"`
	Quantity int64  `json:"quantity" firestore:"quantity"`
}

// Order is created by the storefront checkout flow and mutated here only
// through reconciliation. The document id doubles as the gateway order id.
type Order struct {
	ID            string
	Status        Status
	Items         []Item
	TotalAmount   float64
	PaymentResult map[string]any
}

// Clone returns a deep copy safe to hand across repository boundaries.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	if o.PaymentResult != nil {
		clone.PaymentResult = make(map[string]any, len(o.PaymentResult))
		for k, v := range o.PaymentResult {
			clone.PaymentResult[k] = v
		}
	}
	return &clone
}

// MarkFailed records a terminal payment failure. It carries no inventory or
// stats side effects. Paid is absorbing: a late cancel/deny/expire for an
// already-settled order returns ErrAlreadyPaid and leaves the order alone.
func (o *Order) MarkFailed() error {
	if o.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	o.Status = StatusFailed
	return nil
}
