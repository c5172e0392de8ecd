package mailer

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Template keys understood by Send.
const (
	TemplateMemberWelcome        = "member-welcome"
	TemplatePaymentReceipt       = "payment-receipt"
	TemplateMembershipAdminAlert = "membership-admin-alert"
)

// SendResult reports the outcome of a single delivery attempt.
type SendResult struct {
	Success   bool
	MessageId string
}

// IEmailService is the abstract send capability consumed by the notification
// dispatcher. Implementations must be safe for concurrent use.
type IEmailService interface {
	Send(to, templateKey string, data map[string]interface{}) (*SendResult, error)
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) Send(to, templateKey string, data map[string]interface{}) (*SendResult, error) {
	subject, body, err := renderTemplate(templateKey, data)
	if err != nil {
		return &SendResult{Success: false}, err
	}

	messageId := fmt.Sprintf("<%s@member-portal>", uuid.NewString())

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-Id", messageId)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return &SendResult{Success: false}, err
	}

	return &SendResult{Success: true, MessageId: messageId}, nil
}

func renderTemplate(templateKey string, data map[string]interface{}) (subject, body string, err error) {
	switch templateKey {
	case TemplateMemberWelcome:
		subject = "Welcome to the Member Portal"
		body = fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
				<h2>Welcome, %v!</h2>
				<p>Your %v membership is now active.</p>
				<p>You can finish setting up your account from the member portal.</p>
			</div>
		`, str(data, "name"), str(data, "tier"))
	case TemplatePaymentReceipt:
		subject = "Payment Received"
		body = fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
				<h2>Thank you for your payment</h2>
				<p>We received your payment of %v %v.</p>
				<p>Membership tier: %v</p>
				<p>Reference: %v</p>
			</div>
		`, str(data, "amount"), str(data, "currency"), str(data, "tier"), str(data, "event_id"))
	case TemplateMembershipAdminAlert:
		subject = "New membership payment processed"
		body = fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
				<h2>Membership update</h2>
				<p>%v (%v) paid for the %v tier.</p>
				<p>Event: %v</p>
			</div>
		`, str(data, "name"), str(data, "email"), str(data, "tier"), str(data, "event_id"))
	default:
		return "", "", fmt.Errorf("unknown email template: %s", templateKey)
	}
	return subject, body, nil
}

func str(data map[string]interface{}, key string) interface{} {
	if v, ok := data[key]; ok {
		return v
	}
	return ""
}
