package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	reportSheet       = "Report"
	transactionsSheet = "Transactions"
	moneyFormat       = `"$"#,##0.00`
)

// SpreadsheetRenderer writes the report as an .xlsx workbook. The summary lives on
// the Report sheet; detailed mode adds a Transactions sheet.
type SpreadsheetRenderer struct{}

func NewSpreadsheetRenderer() *SpreadsheetRenderer {
	return &SpreadsheetRenderer{}
}

func (s *SpreadsheetRenderer) Report(rep Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#F5F5F5"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#808080"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	numFmt := moneyFormat
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	if err := f.SetCellValue(reportSheet, "A1", "Transaction Report"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A1", "A1", bold); err != nil {
		return nil, err
	}

	row := 3
	for _, line := range rep.Info() {
		if err := setRow(f, reportSheet, row, line[0], line[1]); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, cellName(1, row), cellName(1, row), bold); err != nil {
			return nil, err
		}
		row++
	}
	row++

	if err := f.SetColWidth(reportSheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "B", "B", 30); err != nil {
		return nil, err
	}

	if len(rep.Transactions) == 0 {
		if err := f.SetCellValue(reportSheet, cellName(1, row), "No transactions found for the specified criteria."); err != nil {
			return nil, err
		}
		return write(f)
	}

	totals := rep.Totals()
	if err := setRow(f, reportSheet, row, "Summary", "Amount"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, cellName(1, row), cellName(2, row), header); err != nil {
		return nil, err
	}
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Total Amount", totals.Amount},
		{"Total Discount", totals.Discount},
		{"Net Amount", totals.Net},
	} {
		row++
		if err := setRow(f, reportSheet, row, line.label, line.value); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, cellName(2, row), cellName(2, row), amount); err != nil {
			return nil, err
		}
	}

	if rep.Mode == ModeDetailed {
		if err := s.transactions(f, rep, header, amount); err != nil {
			return nil, err
		}
	}

	return write(f)
}

func (s *SpreadsheetRenderer) transactions(f *excelize.File, rep Report, header, amount int) error {
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := setRow(f, transactionsSheet, 1, "ID", "Date", "User", "Total", "Discount", "Net Amount"); err != nil {
		return err
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "F1", header); err != nil {
		return err
	}

	for i, tx := range rep.Transactions {
		row := i + 2
		if err := setRow(f, transactionsSheet, row,
			tx.TransactionID,
			formatDate(tx.TransactionDate, ReportDateLayout),
			tx.Username,
			tx.TotalAmount,
			tx.Discount,
			tx.NetAmount,
		); err != nil {
			return err
		}
	}
	if len(rep.Transactions) > 0 {
		last := len(rep.Transactions) + 1
		if err := f.SetCellStyle(transactionsSheet, "D2", cellName(6, last), amount); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(transactionsSheet, "B", "C", 18); err != nil {
		return err
	}
	return f.SetPanes(transactionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cellName(i+1, row), v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cellName(i+1, row), err)
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
