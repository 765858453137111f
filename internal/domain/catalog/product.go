package catalog

// Product inventory counters, adjusted only as a side effect of settling a
// paid order.
type Product struct {
	ID        string `json:"id" firestore:"-"`
	Stock     int64  `json:"stock" firestore:"stock"`
	SoldCount int64  `json:"soldCount" firestore:"soldCount"`
}

// Stats is the single storefront-wide aggregate record. All three counters
// move monotonically with reconciliation events.
type Stats struct {
	TotalRevenue float64 `json:"totalRevenue" firestore:"totalRevenue"`
	TotalStock   int64   `json:"totalStock" firestore:"totalStock"`
	TotalOrders  int64   `json:"totalOrders" firestore:"totalOrders"`
}
