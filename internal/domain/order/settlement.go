package order

// StockAdjustment is the inventory delta for one physical product line:
// stock decreases by Quantity, soldCount increases by the same amount.
type StockAdjustment struct {
	ProductID string
	Quantity  int64
}

// Settlement is the full write set produced by settling one order: the order's
// own transition plus the product and aggregate-stats deltas. A repository
// commits all of it in a single atomic unit.
type Settlement struct {
	OrderID       string
	Revenue       float64
	ItemQuantity  int64
	Adjustments   []StockAdjustment
	PaymentResult map[string]any
}

// Settle transitions the order to paid and derives the inventory and stats
// adjustments from its items. The shipping line is skipped: it has no stock
// and does not count toward the settled item quantity.
//
// ErrAlreadyPaid means a prior notification already won; callers treat it as
// an idempotent no-op. Settle mutates the receiver, so repositories must call
// it on the copy they are about to persist, inside their transaction.
func (o *Order) Settle(paymentResult map[string]any) (*Settlement, error) {
	if o.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}

	s := &Settlement{
		OrderID:       o.ID,
		Revenue:       o.TotalAmount,
		PaymentResult: paymentResult,
	}
	for _, item := range o.Items {
		if item.ID == ShippingLineID {
			continue
		}
		s.Adjustments = append(s.Adjustments, StockAdjustment{
			ProductID: item.ID,
			Quantity:  item.Quantity,
		})
		s.ItemQuantity += item.Quantity
	}

	o.Status = StatusPaid
	o.PaymentResult = paymentResult
	return s, nil
}
