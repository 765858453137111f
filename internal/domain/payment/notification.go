package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidSignature = errors.New("payment: invalid notification signature")

// Transaction statuses reported by the gateway. Anything outside this set is
// acknowledged without a state transition.
const (
	StatusCapture    = "capture"
	StatusSettlement = "settlement"
	StatusCancel     = "cancel"
	StatusDeny       = "deny"
	StatusExpire     = "expire"
)

// FraudAccept is the only fraud verdict that allows an order to be settled.
const FraudAccept = "accept"

// Outcome classifies what a notification means for the order it references.
type Outcome int

const (
	// OutcomeNone: acknowledged, no state transition.
	OutcomeNone Outcome = iota
	// OutcomeSettled: the order is paid; inventory and stats move.
	OutcomeSettled
	// OutcomeFailed: the payment is terminally failed.
	OutcomeFailed
)

// Notification is the gateway's server-to-server payment status callback.
// Raw preserves the body exactly as delivered so it can be stored as the
// order's payment result.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`

	Raw json.RawMessage `json:"-"`
}

// ParseNotification decodes a notification body, keeping the raw bytes.
func ParseNotification(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("payment: decode notification: %w", err)
	}
	if n.OrderID == "" {
		return nil, errors.New("payment: notification missing order_id")
	}
	n.Raw = append(json.RawMessage(nil), body...)
	return &n, nil
}

// Signature recomputes the gateway's keyed digest: lowercase hex of
// SHA-512(order_id ‖ status_code ‖ gross_amount ‖ serverKey), with no
// delimiters. The concatenation order must match the gateway's own
// computation exactly.
func (n *Notification) Signature(serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature accepts the notification iff the recomputed digest matches
// the supplied signature_key. The comparison is constant-time.
func (n *Notification) VerifySignature(serverKey string) error {
	want := n.Signature(serverKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// OrderOutcome maps the transaction and fraud statuses onto the order state
// machine. capture/settlement settle the order only with an accept fraud
// verdict; cancel/deny/expire fail it; everything else is a no-op.
func (n *Notification) OrderOutcome() Outcome {
	switch n.TransactionStatus {
	case StatusCapture, StatusSettlement:
		if n.FraudStatus == FraudAccept {
			return OutcomeSettled
		}
		return OutcomeNone
	case StatusCancel, StatusDeny, StatusExpire:
		return OutcomeFailed
	default:
		return OutcomeNone
	}
}

// PaymentResult decodes the raw body into the generic shape stored on the
// order document.
func (n *Notification) PaymentResult() (map[string]any, error) {
	result := make(map[string]any)
	if err := json.Unmarshal(n.Raw, &result); err != nil {
		return nil, fmt.Errorf("payment: decode payment result: %w", err)
	}
	return result, nil
}
