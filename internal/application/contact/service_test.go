package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func submission() Submission {
	return Submission{
		FirstName: "Ayu",
		LastName:  "Lestari",
		Email:     "ayu@example.com",
		Phone:     "+62812345678",
		Subject:   "Custom order",
		Message:   "Is the weekender bag available in tan?",
	}
}

func TestRelay(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, "shop@example.com")

	require.NoError(t, svc.Relay(context.Background(), submission()))
	require.Len(t, mailer.sent, 1)

	email := mailer.sent[0]
	assert.Equal(t, "Ayu Lestari", email.FromName)
	assert.Equal(t, "ayu@example.com", email.FromAddress)
	assert.Equal(t, "shop@example.com", email.To)
	assert.Equal(t, "Contact Form: Custom order", email.Subject)
	assert.Contains(t, email.HTMLBody, "Ayu Lestari")
	assert.Contains(t, email.HTMLBody, "ayu@example.com")
	assert.Contains(t, email.HTMLBody, "+62812345678")
	assert.Contains(t, email.HTMLBody, "Is the weekender bag available in tan?")
}

func TestRelayOptionalPhone(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, "shop@example.com")

	sub := submission()
	sub.Phone = ""
	require.NoError(t, svc.Relay(context.Background(), sub))

	assert.Contains(t, mailer.sent[0].HTMLBody, "not provided")
}

func TestRelayEscapesHTML(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, "shop@example.com")

	sub := submission()
	sub.Message = `<script>alert("x")</script>`
	require.NoError(t, svc.Relay(context.Background(), sub))

	assert.NotContains(t, mailer.sent[0].HTMLBody, "<script>")
}

func TestRelayValidation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, "shop@example.com")

	tests := []func(*Submission){
		func(s *Submission) { s.FirstName = "" },
		func(s *Submission) { s.LastName = "" },
		func(s *Submission) { s.Email = "" },
		func(s *Submission) { s.Subject = "" },
		func(s *Submission) { s.Message = "" },
	}
	for _, mutate := range tests {
		sub := submission()
		mutate(&sub)
		require.ErrorIs(t, svc.Relay(context.Background(), sub), ErrInvalidSubmission)
	}
	assert.Empty(t, mailer.sent)
}

func TestRelayDeliveryFailure(t *testing.T) {
	sendErr := errors.New("dial tcp: connection refused")
	svc := NewService(&fakeMailer{err: sendErr}, "shop@example.com")

	err := svc.Relay(context.Background(), submission())
	require.ErrorIs(t, err, sendErr)
}
