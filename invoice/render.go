package invoice

import (
	"html/template"
	"io"
)

// RenderHTML writes the shareable HTML invoice. The aggregator knows
// nothing about this format; the markup follows the invoice the mobile
// client used to print and share.
func RenderHTML(w io.Writer, data *InvoiceData) error {
	return invoiceTmpl.Execute(w, data)
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: 'Helvetica', sans-serif; padding: 20px; }
    .header { text-align: center; margin-bottom: 30px; }
    .header h1 { margin-bottom: 15px; }
    .biller-info p { margin: 2px 0; }
    .company-info {
      margin-bottom: 20px;
      border: 1px solid #ddd;
      padding: 20px;
      border-radius: 5px;
      background-color: #f9f9f9;
    }
    .company-info h2 {
      margin-top: 0;
      color: #333;
      border-bottom: 1px solid #ddd;
      padding-bottom: 10px;
      margin-bottom: 15px;
    }
    .jobsite { margin-bottom: 30px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #f2f2f2; }
    .payment-info {
      margin: 30px 0;
      border: 1px solid #ddd;
      padding: 20px;
      border-radius: 5px;
      background-color: #f9f9f9;
    }
    .total { font-weight: bold; text-align: right; padding: 15px; border-top: 2px solid #ddd; }
  </style>
</head>
<body>
  <div class="header">
    <h1>{{.Biller.Name}}</h1>
    <div class="biller-info">
      {{if .Biller.ABN}}<p>ABN: {{.Biller.ABN}}</p>{{end}}
      {{if .Biller.ACN}}<p>ACN: {{.Biller.ACN}}</p>{{end}}
      {{if .Biller.Address}}<p>{{.Biller.Address}}</p>{{end}}
      {{if .Biller.Phone}}<p>Phone: {{.Biller.Phone}}</p>{{end}}
    </div>
  </div>

  <div class="company-info">
    <h2>Bill To:</h2>
    <p><strong>{{.CompanyName}}</strong></p>
    {{if .CompanyABN}}<p>ABN: {{.CompanyABN}}</p>{{end}}
    <p><strong>Invoice Period:</strong> {{.StartDate}} - {{.EndDate}}</p>
  </div>

  {{range .Jobsites}}
  <div class="jobsite">
    <h3>{{.Name}}</h3>
    <table>
      <tr>
        <th>Date</th>
        <th>Contractor</th>
        <th>Hours</th>
        <th>Rate</th>
        <th>Amount</th>
      </tr>
      {{range .Lines}}
      <tr>
        <td>{{.Date}}</td>
        <td>{{.ContractorName}}</td>
        <td>{{printf "%.2f" .Hours}}</td>
        <td>${{printf "%.2f" .HourlyRate}}</td>
        <td>${{printf "%.2f" .Amount}}</td>
      </tr>
      {{end}}
    </table>
  </div>
  {{end}}

  <div class="payment-info">
    <h2>Payment Information</h2>
    <p><strong>BSB:</strong> {{.Biller.BSB}}</p>
    <p><strong>Account Number:</strong> {{.Biller.AccountNumber}}</p>
  </div>

  <div class="total">
    <h3>Total Amount: ${{printf "%.2f" .TotalAmount}}</h3>
  </div>
</body>
</html>
`))
