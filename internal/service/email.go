package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func formatEuros(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func (s *emailService) SendPayableNotice(ctx context.Context, email, name, reference string, amountCents int64, paymentURL string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour franchise application has been validated. To activate your contract, please pay the entry fee of %s EUR.\n\nReference: %s\nPayment link: %s\n\nBest regards,\nThe Franchise Team",
		name, formatEuros(amountCents), reference, paymentURL)
	return s.send(email, name, "Your franchise contract is ready", body)
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, email, name, reference string, amountCents int64) error {
	body := fmt.Sprintf("Hello %s,\n\nWe have received your payment of %s EUR (reference %s). Thank you.\n\nBest regards,\nThe Franchise Team",
		name, formatEuros(amountCents), reference)
	return s.send(email, name, fmt.Sprintf("Payment received - %s", reference), body)
}

func (s *emailService) SendInvoiceNotice(ctx context.Context, email, name, invoiceNumber string, amountCents int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour invoice %s for %s EUR is available in your franchisee area.\n\nBest regards,\nThe Franchise Team",
		name, invoiceNumber, formatEuros(amountCents))
	return s.send(email, name, fmt.Sprintf("Invoice %s", invoiceNumber), body)
}

func (s *emailService) SendPaymentReminder(ctx context.Context, email, name, reference string, amountCents int64, dueDate time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that your payment of %s EUR (reference %s) was due on %s.\n\nBest regards,\nThe Franchise Team",
		name, formatEuros(amountCents), reference, dueDate.Format("2006-01-02"))
	return s.send(email, name, fmt.Sprintf("Payment reminder - %s", reference), body)
}
