package dispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Renderer produces the customer-facing document for an invoice.
type Renderer interface {
	RenderInvoice(invoice *domain.Invoice, company *domain.Company) ([]byte, error)
}

// HTMLRenderer renders invoices as self-contained HTML documents.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money": formatAmount,
		"date":  formatDate,
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type invoiceView struct {
	Invoice  *domain.Invoice
	Company  *domain.Company
	Number   string
	Currency string
}

// RenderInvoice renders a posted invoice. Draft invoices have no number yet
// and are rendered with an empty one; callers gate on status.
func (r *HTMLRenderer) RenderInvoice(invoice *domain.Invoice, company *domain.Company) ([]byte, error) {
	view := invoiceView{
		Invoice:  invoice,
		Company:  company,
		Currency: company.Currency,
	}
	if invoice.SequenceNumber > 0 {
		view.Number = fmt.Sprintf("%d", invoice.SequenceNumber)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

const invoiceTemplate = `<!DOCTYPE html>
<html lang="sv">
<head>
<meta charset="utf-8">
<title>Faktura {{.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 40px; }
h1 { font-size: 24px; }
table { border-collapse: collapse; width: 100%; margin-top: 24px; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
td.amount, th.amount { text-align: right; }
.totals { margin-top: 16px; width: 320px; margin-left: auto; }
.totals td { border: none; padding: 3px 10px; }
.totals tr.grand td { font-weight: bold; border-top: 2px solid #1a1a1a; }
.meta { color: #555; margin-top: 4px; }
</style>
</head>
<body>
<h1>Faktura {{.Number}}</h1>
<div class="meta">{{.Company.Name}}{{if .Company.OrgNumber}} &middot; Org.nr {{.Company.OrgNumber}}{{end}}</div>
<div class="meta">
{{if .Invoice.CustomerName}}Kund: {{.Invoice.CustomerName}}<br>{{end}}
{{if .Invoice.IssueDate}}Fakturadatum: {{date .Invoice.IssueDate}}<br>{{end}}
{{if .Invoice.DueDate}}Förfallodatum: {{date .Invoice.DueDate}}{{end}}
</div>
<table>
<thead>
<tr><th>Beskrivning</th><th class="amount">Antal</th><th class="amount">&Agrave;-pris</th><th class="amount">Moms</th><th class="amount">Belopp</th></tr>
</thead>
<tbody>
{{range .Invoice.Items}}
<tr>
<td>{{.Description}}</td>
<td class="amount">{{money .Quantity}}</td>
<td class="amount">{{money .UnitPrice}}</td>
<td class="amount">{{.VATRate}}%</td>
<td class="amount">{{money .AmountExclVAT}}</td>
</tr>
{{end}}
</tbody>
</table>
<table class="totals">
<tr><td>Summa exkl. moms</td><td class="amount">{{money .Invoice.Subtotal}} {{.Currency}}</td></tr>
<tr><td>Moms</td><td class="amount">{{money .Invoice.TotalVAT}} {{.Currency}}</td></tr>
<tr class="grand"><td>Att betala</td><td class="amount">{{money .Invoice.GrandTotal}} {{.Currency}}</td></tr>
</table>
</body>
</html>
`
