// Package firestoredb adapts the Firestore client to the order repository
// port. Settlements run inside RunTransaction so the status check and the
// multi-document write set commit as one unit; Firestore retries the closure
// on contention, which is what serializes concurrent notifications for the
// same order.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	domain "github.com/smyva-leather/storefront-backend/internal/domain/order"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ordersCollection   = "orders"
	productsCollection = "products"
	summaryCollection  = "summary"
	statsDoc           = "stats"
)

type Store struct {
	client *firestore.Client
}

// New dials Firestore for the given project. credentialsFile may be empty, in
// which case application default credentials apply.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: dial: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

type orderDoc struct {
	Status      string        `firestore:"status"`
	Items       []domain.Item `firestore:"items"`
	TotalAmount float64       `firestore:"totalAmount"`
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Order, error) {
	snap, err := s.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get order: %w", err)
	}

	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore: decode order %s: %w", id, err)
	}
	return &domain.Order{
		ID:          id,
		Status:      domain.Status(doc.Status),
		Items:       doc.Items,
		TotalAmount: doc.TotalAmount,
	}, nil
}

func (s *Store) Settle(ctx context.Context, id string, paymentResult map[string]any) (*domain.Settlement, error) {
	orderRef := s.client.Collection(ordersCollection).Doc(id)
	statsRef := s.client.Collection(summaryCollection).Doc(statsDoc)

	var settlement *domain.Settlement
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		settlement = nil

		snap, err := tx.Get(orderRef)
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode order %s: %w", id, err)
		}
		order := &domain.Order{
			ID:          id,
			Status:      domain.Status(doc.Status),
			Items:       doc.Items,
			TotalAmount: doc.TotalAmount,
		}

		settlement, err = order.Settle(paymentResult)
		if err != nil {
			return err
		}

		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: string(domain.StatusPaid)},
			{Path: "paymentResult", Value: settlement.PaymentResult},
		}); err != nil {
			return err
		}

		for _, adj := range settlement.Adjustments {
			productRef := s.client.Collection(productsCollection).Doc(adj.ProductID)
			if err := tx.Update(productRef, []firestore.Update{
				{Path: "stock", Value: firestore.Increment(-adj.Quantity)},
				{Path: "soldCount", Value: firestore.Increment(adj.Quantity)},
			}); err != nil {
				return err
			}
		}

		return tx.Update(statsRef, []firestore.Update{
			{Path: "totalRevenue", Value: firestore.Increment(settlement.Revenue)},
			{Path: "totalStock", Value: firestore.Increment(-settlement.ItemQuantity)},
			{Path: "totalOrders", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *Store) MarkFailed(ctx context.Context, id string) error {
	orderRef := s.client.Collection(ordersCollection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(orderRef)
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode order %s: %w", id, err)
		}
		order := &domain.Order{ID: id, Status: domain.Status(doc.Status)}
		if err := order.MarkFailed(); err != nil {
			return err
		}

		return tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: string(domain.StatusFailed)},
		})
	})
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlreadyPaid):
		return err
	default:
		return fmt.Errorf("firestore: mark order failed: %w", err)
	}
}
