// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/order"
	"github.com/tduong196/bookstore/internal/domain/user"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// InvoiceData is the template model for an invoice
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	StoreName     string
	Order         *order.Order
	Buyer         *user.User
	Lines         []InvoiceLine
	Total         string
}

// InvoiceLine is one row of the invoice table
type InvoiceLine struct {
	Title     string
	Quantity  int
	UnitPrice string
	Total     string
}

// GenerateInvoice renders an order into a PDF invoice
func (s *Service) GenerateInvoice(o *order.Order, buyer *user.User) (*bytes.Buffer, error) {
	lines := make([]InvoiceLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, InvoiceLine{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: fmt.Sprintf("$%.2f", float64(item.UnitPriceCents)/100),
			Total:     fmt.Sprintf("$%.2f", float64(item.TotalCents)/100),
		})
	}

	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		StoreName:     s.config.App.Name,
		Order:         o,
		Buyer:         buyer,
		Lines:         lines,
		Total:         fmt.Sprintf("$%.2f", o.GetFormattedTotal()),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute invoice template: %w", err)
	}
	return buf.String(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
	body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
	h1 { font-size: 22px; }
	.meta { margin-bottom: 24px; color: #555; }
	table { width: 100%; border-collapse: collapse; margin-top: 16px; }
	th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #ddd; }
	th { background: #f5f5f5; }
	.total { text-align: right; font-size: 16px; font-weight: bold; margin-top: 16px; }
	.address { margin-top: 24px; color: #555; }
</style>
</head>
<body>
	<h1>{{.StoreName}} - Invoice {{.InvoiceNumber}}</h1>
	<div class="meta">
		<div>Date: {{.InvoiceDate}}</div>
		<div>Order: {{.Order.OrderNumber}}</div>
		<div>Billed to: {{.Buyer.FullName}} ({{.Buyer.Email}})</div>
		<div>Payment method: {{.Order.PaymentMethod}}</div>
	</div>
	<table>
		<tr><th>Book</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
		{{range .Lines}}
		<tr><td>{{.Title}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Total}}</td></tr>
		{{end}}
	</table>
	<div class="total">Total: {{.Total}}</div>
	<div class="address">Delivery address: {{.Order.Address}}<br>Phone: {{.Order.Phone}}</div>
</body>
</html>`
