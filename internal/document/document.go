package document

import (
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/pos-management/internal/transaction"
)

const (
	InvoiceDateLayout = "2006-01-02 15:04:05"
	ReportDateLayout  = "2006-01-02 15:04"
	reportStampLayout = "20060102_150405"

	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Mode string

const (
	ModeSummary  Mode = "summary"
	ModeDetailed Mode = "detailed"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// File is a rendered document ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Invoice struct {
	TenantName  string
	GeneratedAt time.Time
	Transaction transaction.Detailed
}

type Report struct {
	GeneratedBy  string
	TenantName   string
	GeneratedAt  time.Time
	Filter       transaction.Filter
	Mode         Mode
	Transactions []transaction.Transaction
}

type Totals struct {
	Amount   float64
	Discount float64
	Net      float64
}

func (r Report) Totals() Totals {
	var t Totals
	for _, tx := range r.Transactions {
		t.Amount += tx.TotalAmount
		t.Discount += tx.Discount
		t.Net += tx.NetAmount
	}
	return t
}

// Info is the label/value header block shared by every report format.
func (r Report) Info() [][2]string {
	userFilter := r.Filter.Username
	if userFilter == "" {
		userFilter = "All Users"
	}
	return [][2]string{
		{"Generated by:", r.GeneratedBy},
		{"Tenant:", r.TenantName},
		{"Generated on:", r.GeneratedAt.Format(InvoiceDateLayout)},
		{"Date Range:", fmt.Sprintf("%s to %s", orAll(r.Filter.RawStart), orAll(r.Filter.RawEnd))},
		{"User Filter:", userFilter},
		{"Total Transactions:", strconv.Itoa(len(r.Transactions))},
	}
}

func InvoiceNumber(transactionID int64) string {
	return fmt.Sprintf("%06d", transactionID)
}

func InvoiceFilename(transactionID int64) string {
	return "invoice_" + InvoiceNumber(transactionID) + ".pdf"
}

func ReportFilename(at time.Time, format Format) string {
	return "transaction_report_" + at.Format(reportStampLayout) + "." + string(format)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatDate(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

func orAll(s string) string {
	if s == "" {
		return "All"
	}
	return s
}
