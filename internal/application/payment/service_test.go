package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	token   string
	err     error
	payload map[string]any
	calls   int
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, payload map[string]any) (string, error) {
	g.calls++
	g.payload = payload
	if g.err != nil {
		return "", g.err
	}
	return g.token, nil
}

func payload(orderID string) map[string]any {
	return map[string]any{
		"transaction_details": map[string]any{
			"order_id":     orderID,
			"gross_amount": 150,
		},
		"item_details": []any{map[string]any{"id": "A", "quantity": 2}},
	}
}

func TestCreateTransaction(t *testing.T) {
	gw := &fakeGateway{token: "snap-token-123"}
	svc := NewService(gw)

	result, err := svc.CreateTransaction(context.Background(), payload("ORDER-101"))
	require.NoError(t, err)
	assert.Equal(t, "snap-token-123", result.Token)
	assert.Equal(t, "ORDER-101", result.OrderID)

	// The payload reaches the gateway untouched.
	assert.Equal(t, payload("ORDER-101"), gw.payload)
}

func TestCreateTransactionGatewayError(t *testing.T) {
	gatewayErr := errors.New("transaction_details.gross_amount is not equal to the sum of item_details")
	gw := &fakeGateway{err: gatewayErr}
	svc := NewService(gw)

	_, err := svc.CreateTransaction(context.Background(), payload("ORDER-101"))
	require.ErrorIs(t, err, gatewayErr)
	// Surfaced once, no retry.
	assert.Equal(t, 1, gw.calls)
}

func TestCreateTransactionMissingOrderID(t *testing.T) {
	gw := &fakeGateway{token: "unused"}
	svc := NewService(gw)

	tests := []map[string]any{
		{},
		{"transaction_details": "not-an-object"},
		{"transaction_details": map[string]any{}},
		{"transaction_details": map[string]any{"order_id": ""}},
		{"transaction_details": map[string]any{"order_id": 42}},
	}
	for _, body := range tests {
		_, err := svc.CreateTransaction(context.Background(), body)
		require.ErrorIs(t, err, ErrMissingOrderID)
	}
	// Rejected before any gateway call.
	assert.Zero(t, gw.calls)
}
