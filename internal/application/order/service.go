package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	domain "github.com/smyva-leather/storefront-backend/internal/domain/order"
	"github.com/smyva-leather/storefront-backend/internal/domain/payment"
	"github.com/smyva-leather/storefront-backend/internal/pkg/logging"
	"go.uber.org/zap"
)

// ReconcileOutcome describes how a notification was handled.
type ReconcileOutcome string

const (
	// OutcomeSettled: the order transitioned to paid with inventory and
	// stats side effects.
	OutcomeSettled ReconcileOutcome = "settled"
	// OutcomeFailed: the order transitioned to failed.
	OutcomeFailed ReconcileOutcome = "failed"
	// OutcomeSkipped: the order is missing or already paid; the gateway may
	// redeliver notifications, so this is acknowledged, not an error.
	OutcomeSkipped ReconcileOutcome = "skipped"
	// OutcomeIgnored: a transaction status outside the state machine.
	OutcomeIgnored ReconcileOutcome = "ignored"
)

// ReconcileResult carries the outcome plus the committed settlement, when one
// was applied.
type ReconcileResult struct {
	Outcome    ReconcileOutcome
	Settlement *domain.Settlement
}

// Service reconciles verified gateway notifications against order, inventory,
// and stats records.
type Service struct {
	repo            domain.Repository
	serverKey       string
	reconciliations *prometheus.CounterVec
}

func NewService(repo domain.Repository, serverKey string, reconciliations *prometheus.CounterVec) *Service {
	return &Service{
		repo:            repo,
		serverKey:       serverKey,
		reconciliations: reconciliations,
	}
}

// Reconcile verifies the notification's signature and applies its outcome to
// the referenced order. Signature mismatch returns payment.ErrInvalidSignature
// before anything is touched. Missing or already-paid orders are acknowledged
// as OutcomeSkipped so gateway redeliveries stay side-effect free.
func (s *Service) Reconcile(ctx context.Context, n *payment.Notification) (*ReconcileResult, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "order_reconciler"),
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
	)

	if err := n.VerifySignature(s.serverKey); err != nil {
		logger.Warn("notification_signature_rejected")
		s.count("rejected")
		return nil, err
	}

	switch n.OrderOutcome() {
	case payment.OutcomeSettled:
		return s.settle(ctx, logger, n)
	case payment.OutcomeFailed:
		return s.fail(ctx, logger, n)
	default:
		logger.Info("notification_ignored")
		s.count(string(OutcomeIgnored))
		return &ReconcileResult{Outcome: OutcomeIgnored}, nil
	}
}

func (s *Service) settle(ctx context.Context, logger *zap.Logger, n *payment.Notification) (*ReconcileResult, error) {
	paymentResult, err := n.PaymentResult()
	if err != nil {
		return nil, err
	}

	settlement, err := s.repo.Settle(ctx, n.OrderID, paymentResult)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlreadyPaid):
		logger.Info("settlement_skipped", zap.Error(err))
		s.count(string(OutcomeSkipped))
		return &ReconcileResult{Outcome: OutcomeSkipped}, nil
	case err != nil:
		logger.Error("settlement_failed", zap.Error(err))
		s.count("error")
		return nil, fmt.Errorf("order: settle: %w", err)
	}

	logger.Info("order_settled",
		zap.Float64("revenue", settlement.Revenue),
		zap.Int64("item_quantity", settlement.ItemQuantity),
	)
	s.count(string(OutcomeSettled))
	return &ReconcileResult{Outcome: OutcomeSettled, Settlement: settlement}, nil
}

func (s *Service) fail(ctx context.Context, logger *zap.Logger, n *payment.Notification) (*ReconcileResult, error) {
	err := s.repo.MarkFailed(ctx, n.OrderID)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlreadyPaid):
		logger.Info("failure_skipped", zap.Error(err))
		s.count(string(OutcomeSkipped))
		return &ReconcileResult{Outcome: OutcomeSkipped}, nil
	case err != nil:
		logger.Error("mark_failed_error", zap.Error(err))
		s.count("error")
		return nil, fmt.Errorf("order: mark failed: %w", err)
	}

	logger.Info("order_marked_failed")
	s.count(string(OutcomeFailed))
	return &ReconcileResult{Outcome: OutcomeFailed}, nil
}

func (s *Service) count(outcome string) {
	if s.reconciliations == nil {
		return
	}
	s.reconciliations.WithLabelValues(outcome).Inc()
}
