package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

type ResendEmailSender struct {
	client     *resend.Client
	From       string
	AppBaseURL string
	VerifyPath string
}

// NewResendEmailSender returns nil when no API key is configured, which
// disables verification emails without disabling signup.
func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &ResendEmailSender{
		client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		VerifyPath: "/verify-email",
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	if s == nil || s.client == nil {
		return errors.New("email sender not configured")
	}
	link := fmt.Sprintf("%s%s?token=%s", s.AppBaseURL, s.VerifyPath, token)
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: "Verify your email",
		Html:    fmt.Sprintf("<p>Click to verify your email:</p><p><a href=%q>Verify Email</a></p>", link),
		Text:    fmt.Sprintf("Verify your email: %s", link),
	}
	_, err := s.client.Emails.Send(params)
	return err
}
