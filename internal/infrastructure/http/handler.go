package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	appcontact "github.com/smyva-leather/storefront-backend/internal/application/contact"
	apporder "github.com/smyva-leather/storefront-backend/internal/application/order"
	apppayment "github.com/smyva-leather/storefront-backend/internal/application/payment"
	domainpayment "github.com/smyva-leather/storefront-backend/internal/domain/payment"
)

// maxBodyBytes caps request bodies; gateway notifications and contact forms
// are both small.
const maxBodyBytes = 1 << 20

type Handler struct {
	paymentService *apppayment.Service
	orderService   *apporder.Service
	contactService *appcontact.Service
}

func NewHandler(paymentSvc *apppayment.Service, orderSvc *apporder.Service, contactSvc *appcontact.Service) *Handler {
	return &Handler{
		paymentService: paymentSvc,
		orderService:   orderSvc,
		contactService: contactSvc,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/create-transaction", h.method(http.MethodPost, h.handleCreateTransaction))
	mux.HandleFunc("/midtrans-notification", h.method(http.MethodPost, h.handleNotification))
	mux.HandleFunc("/send-contact-email", h.method(http.MethodPost, h.handleSendContactEmail))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

type createTransactionResponse struct {
	Token   string `json:"token"`
	OrderID string `json:"orderId"`
}

func (h *Handler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(r.Context(), r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.paymentService.CreateTransaction(r.Context(), payload)
	if errors.Is(err, apppayment.ErrMissingOrderID) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, createTransactionResponse{
		Token:   result.Token,
		OrderID: result.OrderID,
	})
}

// handleNotification speaks plain text, matching what the gateway expects to
// read back from a webhook endpoint.
func (h *Handler) handleNotification(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}

	notification, err := domainpayment.ParseNotification(body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}

	result, err := h.orderService.Reconcile(r.Context(), notification)
	if errors.Is(err, domainpayment.ErrInvalidSignature) {
		writeText(w, http.StatusForbidden, "Invalid signature")
		return
	}
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if result.Outcome == apporder.OutcomeSkipped {
		writeText(w, http.StatusOK, "Order not found or already processed.")
		return
	}
	writeText(w, http.StatusOK, "OK")
}

type sendContactEmailResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleSendContactEmail(w http.ResponseWriter, r *http.Request) {
	var submission appcontact.Submission
	if err := decodeJSON(r.Context(), r, &submission); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.contactService.Relay(r.Context(), submission); err != nil {
		if errors.Is(err, appcontact.ErrInvalidSubmission) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, errors.New("Failed to send email."))
		return
	}

	writeJSON(w, http.StatusOK, sendContactEmailResponse{Message: "Email sent successfully!"})
}

func (h *Handler) method(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		handler(w, r)
	}
}

func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_ = ctx
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
