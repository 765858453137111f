package payment

import "context"

// Gateway is the outbound port for the payment provider. The transaction
// payload is forwarded as-is: its shape belongs to the gateway, not to us.
type Gateway interface {
	// CreateTransaction opens a transaction with the provider and returns
	// the client token the storefront uses to launch the payment page.
	CreateTransaction(ctx context.Context, payload map[string]any) (token string, err error)
}
