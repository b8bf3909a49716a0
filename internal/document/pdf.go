package document

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	black      = rgb{0, 0, 0}
	darkBlue   = rgb{0, 0, 139}
	whiteSmoke = rgb{245, 245, 245}
	lightGrey  = rgb{211, 211, 211}
	lightBlue  = rgb{173, 216, 230}
	grey       = rgb{128, 128, 128}
	beige      = rgb{245, 245, 220}
)

const (
	fontFamily = "Helvetica"
	rowHeight  = 0.3
	// one typographic point in inches
	pt = 1.0 / 72
)

var (
	invoiceItemWidths   = []float64{3, 1, 1.5, 1.5}
	invoiceDetailWidths = []float64{2, 3}
	invoiceTotalWidths  = []float64{4, 2}
	summaryWidths       = []float64{3, 2}
	detailWidths        = []float64{0.8, 1.5, 1.2, 1, 1, 1.2}
)

// PDFRenderer lays out invoices and reports on A4 pages using inch units.
type PDFRenderer struct {
	compress bool
}

func NewPDFRenderer(compress bool) *PDFRenderer {
	return &PDFRenderer{compress: compress}
}

func (r *PDFRenderer) newDocument(title string, at time.Time) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "in", "A4", "")
	pdf.SetMargins(1, 1, 1)
	pdf.SetAutoPageBreak(true, 1)
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(at)
	pdf.SetTitle(title, true)
	pdf.SetCreator("RBAC POS", false)
	pdf.SetLineWidth(pt)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *PDFRenderer) Invoice(inv Invoice) ([]byte, error) {
	t := inv.Transaction
	number := InvoiceNumber(t.TransactionID)
	pdf, tr := r.newDocument("Invoice "+number, inv.GeneratedAt)

	pdf.Ln(20 * pt)
	pdf.SetFont(fontFamily, "B", 24)
	textColor(pdf, darkBlue)
	pdf.CellFormat(0, 0.45, "RBAC POS SYSTEM", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 14)
	pdf.CellFormat(0, rowHeight, tr("Tenant: "+inv.TenantName), "", 1, "C", false, 0, "")
	pdf.Ln(20 * pt)

	pdf.SetFont(fontFamily, "B", 20)
	textColor(pdf, black)
	pdf.CellFormat(0, 0.4, "INVOICE #"+number, "", 1, "C", false, 0, "")
	pdf.Ln(20 * pt)

	details := [][2]string{
		{"Invoice Date:", formatDate(t.TransactionDate, InvoiceDateLayout)},
		{"Served By:", t.Username},
		{"Transaction ID:", strconv.FormatInt(t.TransactionID, 10)},
	}
	for _, d := range details {
		pdf.SetX(centeredX(pdf, invoiceDetailWidths))
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(invoiceDetailWidths[0], rowHeight, d[0], "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 12)
		pdf.CellFormat(invoiceDetailWidths[1], rowHeight, tr(d[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(30 * pt)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, rowHeight, "ITEMS PURCHASED", "", 1, "L", false, 0, "")
	pdf.Ln(10 * pt)

	headerRow(pdf, invoiceItemWidths, []string{"Item Name", "Quantity", "Unit Price", "Amount"}, darkBlue, whiteSmoke, 12)
	pdf.SetFont(fontFamily, "", 10)
	fillColor(pdf, lightGrey)
	for _, li := range t.Items {
		bodyRow(pdf, invoiceItemWidths, []string{
			tr(li.ItemName),
			strconv.Itoa(li.Quantity),
			money(li.Price),
			money(li.Amount),
		})
	}
	pdf.Ln(20 * pt)

	totals := [][2]string{
		{"Subtotal:", money(t.TotalAmount)},
		{"Discount:", money(t.Discount)},
		{"TOTAL AMOUNT:", money(t.NetAmount)},
	}
	for i, row := range totals {
		x := centeredX(pdf, invoiceTotalWidths)
		last := i == len(totals)-1
		if last {
			y := pdf.GetY()
			pdf.SetLineWidth(2 * pt)
			pdf.Line(x, y, x+sum(invoiceTotalWidths), y)
			pdf.SetLineWidth(pt)
			pdf.SetFont(fontFamily, "B", 14)
			fillColor(pdf, lightBlue)
		} else {
			pdf.SetFont(fontFamily, "", 12)
		}
		pdf.SetX(x)
		pdf.CellFormat(invoiceTotalWidths[0], rowHeight, row[0], "", 0, "R", last, 0, "")
		pdf.CellFormat(invoiceTotalWidths[1], rowHeight, row[1], "", 1, "R", last, 0, "")
	}
	pdf.Ln(40 * pt)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, 0.25, "Thank you for your business!", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 0.2, "Generated on: "+inv.GeneratedAt.Format(InvoiceDateLayout), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 0.2, "System: RBAC POS", "", 1, "C", false, 0, "")

	return output(pdf)
}

func (r *PDFRenderer) Report(rep Report) ([]byte, error) {
	pdf, tr := r.newDocument("Transaction Report", rep.GeneratedAt)

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 0.4, "Transaction Report", "", 1, "C", false, 0, "")
	pdf.Ln(42 * pt)

	for _, line := range rep.Info() {
		pdf.SetFont(fontFamily, "B", 10)
		label := line[0] + " "
		pdf.CellFormat(pdf.GetStringWidth(label), 0.2, label, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, 0.2, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(20 * pt)

	if len(rep.Transactions) == 0 {
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, 0.2, "No transactions found for the specified criteria.", "", 1, "L", false, 0, "")
		return output(pdf)
	}

	totals := rep.Totals()
	headerRow(pdf, summaryWidths, []string{"Summary", "Amount"}, grey, whiteSmoke, 12)
	pdf.SetFont(fontFamily, "", 11)
	fillColor(pdf, beige)
	bodyRow(pdf, summaryWidths, []string{"Total Amount", money(totals.Amount)})
	bodyRow(pdf, summaryWidths, []string{"Total Discount", money(totals.Discount)})
	bodyRow(pdf, summaryWidths, []string{"Net Amount", money(totals.Net)})
	pdf.Ln(20 * pt)

	if rep.Mode == ModeDetailed {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, rowHeight, "Detailed Transactions", "", 1, "L", false, 0, "")
		pdf.Ln(12 * pt)

		headerRow(pdf, detailWidths, []string{"ID", "Date", "User", "Total", "Discount", "Net Amount"}, grey, whiteSmoke, 10)
		pdf.SetFont(fontFamily, "", 8)
		fillColor(pdf, beige)
		for _, tx := range rep.Transactions {
			bodyRow(pdf, detailWidths, []string{
				strconv.FormatInt(tx.TransactionID, 10),
				formatDate(tx.TransactionDate, ReportDateLayout),
				tr(tx.Username),
				money(tx.TotalAmount),
				money(tx.Discount),
				money(tx.NetAmount),
			})
		}
	}

	return output(pdf)
}

func headerRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, fill, text rgb, size float64) {
	pdf.SetFont(fontFamily, "B", size)
	fillColor(pdf, fill)
	textColor(pdf, text)
	pdf.SetX(centeredX(pdf, widths))
	for i, c := range cells {
		pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	textColor(pdf, black)
}

// bodyRow uses the current font and fill color.
func bodyRow(pdf *gofpdf.Fpdf, widths []float64, cells []string) {
	pdf.SetX(centeredX(pdf, widths))
	for i, c := range cells {
		pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func centeredX(pdf *gofpdf.Fpdf, widths []float64) float64 {
	pageWidth, _ := pdf.GetPageSize()
	return (pageWidth - sum(widths)) / 2
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func textColor(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func fillColor(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
