// Package midtranspay adapts the Midtrans Snap client to the payment gateway
// port. The transaction payload passes through untouched so the storefront
// controls every Snap parameter.
package midtranspay

import (
	"context"
	"errors"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type Gateway struct {
	client snap.Client
}

// New configures a Snap client against the sandbox or production environment.
func New(serverKey string, production bool) *Gateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)
	return &Gateway{client: client}
}

func (g *Gateway) CreateTransaction(ctx context.Context, payload map[string]any) (string, error) {
	// The Snap client has no context plumbing; honor cancellation up front.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := snap.RequestParamWithMap(payload)
	resp, merr := g.client.CreateTransactionWithMap(&req)
	if merr != nil {
		return "", fmt.Errorf("midtrans: create transaction: %w", merr)
	}

	token, ok := resp["token"].(string)
	if !ok || token == "" {
		return "", errors.New("midtrans: response missing token")
	}
	return token, nil
}
