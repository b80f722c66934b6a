// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/order"
	"github.com/tduong196/bookstore/internal/domain/user"
)

// EmailService sends transactional mail through the configured
// provider.
type EmailService struct {
	config *config.Config
	log    *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, log *logrus.Logger) *EmailService {
	return &EmailService{config: cfg, log: log}
}

// Send dispatches an email via the configured provider
func (s *EmailService) Send(email *Email) error {
	switch s.config.External.Email.Provider {
	case "resend":
		return s.sendResendEmail(email)
	case "smtp":
		return s.sendSMTPEmail(email)
	default:
		return fmt.Errorf("unknown email provider: %s", s.config.External.Email.Provider)
	}
}

var (
	orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate))
	statusChangeTmpl      = template.Must(template.New("status_change").Parse(statusChangeTemplate))
	bookRemovedTmpl       = template.Must(template.New("book_removed").Parse(bookRemovedTemplate))
)

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// confirmationLine is one row of the confirmation item table
type confirmationLine struct {
	Title    string
	Quantity int
	Total    string
}

// confirmationData is the template model for order confirmations
type confirmationData struct {
	Name          string
	OrderNumber   string
	Lines         []confirmationLine
	Total         string
	Address       string
	PaymentMethod string
}

// buildOrderConfirmation renders the post-checkout message
func buildOrderConfirmation(o *order.Order, recipient *user.User) (*Email, error) {
	lines := make([]confirmationLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, confirmationLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Total:    fmt.Sprintf("$%.2f", float64(item.TotalCents)/100),
		})
	}

	html, err := render(orderConfirmationTmpl, confirmationData{
		Name:          recipient.FullName(),
		OrderNumber:   o.OrderNumber,
		Lines:         lines,
		Total:         fmt.Sprintf("$%.2f", o.GetFormattedTotal()),
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	return &Email{
		To:          []string{recipient.Email},
		Subject:     fmt.Sprintf("Order %s received", o.OrderNumber),
		HTMLContent: html,
	}, nil
}

// SendOrderConfirmation mails the buyer after checkout
func (s *EmailService) SendOrderConfirmation(o *order.Order, recipient *user.User) error {
	email, err := buildOrderConfirmation(o, recipient)
	if err != nil {
		return err
	}
	return s.Send(email)
}

// statusLines maps order statuses to customer-facing wording
var statusLines = map[order.OrderStatus]string{
	order.OrderStatusApproved:  "Your order has been approved and is being prepared.",
	order.OrderStatusRejected:  "Unfortunately your order could not be fulfilled and has been rejected.",
	order.OrderStatusDelivered: "Your order has been delivered. Enjoy your books!",
}

// statusChangeData is the template model for status updates
type statusChangeData struct {
	Name        string
	OrderNumber string
	Line        string
	Total       string
}

// buildStatusChange renders the status update message
func buildStatusChange(o *order.Order, recipient *user.User) (*Email, error) {
	line, ok := statusLines[o.Status]
	if !ok {
		line = fmt.Sprintf("Your order status is now %s.", o.Status)
	}

	html, err := render(statusChangeTmpl, statusChangeData{
		Name:        recipient.FullName(),
		OrderNumber: o.OrderNumber,
		Line:        line,
		Total:       fmt.Sprintf("$%.2f", o.GetFormattedTotal()),
	})
	if err != nil {
		return nil, err
	}

	return &Email{
		To:          []string{recipient.Email},
		Subject:     fmt.Sprintf("Order %s is now %s", o.OrderNumber, o.Status),
		HTMLContent: html,
	}, nil
}

// NotifyStatusChange implements order.StatusNotifier
func (s *EmailService) NotifyStatusChange(ctx context.Context, o *order.Order, recipient *user.User) error {
	email, err := buildStatusChange(o, recipient)
	if err != nil {
		return err
	}
	return s.Send(email)
}

// buildBookRemoved renders the catalog removal notice for one buyer
func buildBookRemoved(title, recipient string) (*Email, error) {
	html, err := render(bookRemovedTmpl, struct{ Title string }{Title: title})
	if err != nil {
		return nil, err
	}

	return &Email{
		To:          []string{recipient},
		Subject:     fmt.Sprintf("%q removed from catalog", title),
		HTMLContent: html,
	}, nil
}

// NotifyBookRemoved implements book removal notices. Each buyer gets
// their own message so addresses are never exposed to each other.
func (s *EmailService) NotifyBookRemoved(ctx context.Context, title string, recipients []string) error {
	var firstErr error
	for _, to := range recipients {
		email, err := buildBookRemoved(title, to)
		if err != nil {
			return err
		}
		if err := s.Send(email); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

const orderConfirmationTemplate = `
	<h2>Thanks for your order, {{.Name}}!</h2>
	<p>Order <strong>{{.OrderNumber}}</strong> has been received and is awaiting approval.</p>
	<table border="0" cellpadding="6">
		<tr><th>Book</th><th>Qty</th><th>Total</th></tr>
		{{range .Lines}}
		<tr><td>{{.Title}}</td><td>{{.Quantity}}</td><td>{{.Total}}</td></tr>
		{{end}}
	</table>
	<p><strong>Order total: {{.Total}}</strong></p>
	<p>Payment method: {{.PaymentMethod}}</p>
	<p>Delivery to: {{.Address}}</p>
`

const statusChangeTemplate = `
	<h2>Order {{.OrderNumber}} update</h2>
	<p>Hi {{.Name}},</p>
	<p>{{.Line}}</p>
	<p><strong>Order total: {{.Total}}</strong></p>
`

const bookRemovedTemplate = `
	<h2>A book from your order is no longer available</h2>
	<p>&quot;{{.Title}}&quot; has been removed from our catalog. Orders containing only
	this book have been cancelled; other orders have been updated.</p>
	<p>Please check your order history for details.</p>
`
