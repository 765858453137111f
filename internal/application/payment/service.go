package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/smyva-leather/storefront-backend/internal/pkg/logging"
	"go.uber.org/zap"
)

// ErrMissingOrderID is returned when the payload lacks
// transaction_details.order_id, which the response must echo back.
var ErrMissingOrderID = errors.New("payment: payload missing transaction_details.order_id")

type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

type CreateTransactionResult struct {
	Token   string
	OrderID string
}

// CreateTransaction forwards the caller's payload verbatim to the gateway and
// returns the issued client token together with the caller-supplied order id.
// Gateway failures are surfaced as-is; there is no retry.
func (s *Service) CreateTransaction(ctx context.Context, payload map[string]any) (*CreateTransactionResult, error) {
	orderID, ok := orderIDFromPayload(payload)
	if !ok {
		return nil, ErrMissingOrderID
	}

	logger := logging.FromContext(ctx).With(
		zap.String("component", "transaction_initiator"),
		zap.String("order_id", orderID),
	)

	token, err := s.gateway.CreateTransaction(ctx, payload)
	if err != nil {
		logger.Error("create_transaction_failed", zap.Error(err))
		return nil, fmt.Errorf("payment: create transaction: %w", err)
	}

	logger.Info("create_transaction_success")
	return &CreateTransactionResult{Token: token, OrderID: orderID}, nil
}

func orderIDFromPayload(payload map[string]any) (string, bool) {
	details, ok := payload["transaction_details"].(map[string]any)
	if !ok {
		return "", false
	}
	orderID, ok := details["order_id"].(string)
	if !ok || orderID == "" {
		return "", false
	}
	return orderID, true
}
