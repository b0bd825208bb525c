package email

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"
)

// Service sends transactional email through Postmark.
type Service struct {
	client *postmark.Client
}

// NewService returns nil when no Postmark token is configured; email is an
// optional feature and the auth service treats a nil mailer as disabled.
func NewService() *Service {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("Email disabled - POSTMARK_API_TOKEN not provided")
		return nil
	}
	return &Service{client: postmark.NewClient(apiToken, "")}
}

func (s *Service) send(toEmail, subject, htmlContent string) error {
	_, err := s.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered customer.
func (s *Service) SendWelcomeEmail(toEmail, name string) error {
	if name == "" {
		name = "cliente"
	}
	subject := "Bem-vindo à Mimoza!"
	htmlContent := fmt.Sprintf(
		"<strong>Olá, %s!</strong> Sua conta foi criada. Boas compras!",
		name,
	)
	return s.send(toEmail, subject, htmlContent)
}
