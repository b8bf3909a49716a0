package document

import (
	"strings"

	errors "github.com/frahmantamala/pos-management/internal"
)

// ReportRequest is the POST /api/generate-report body. Every field is optional.
type ReportRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Username   string `json:"username"`
	ReportType string `json:"report_type"`
	Format     string `json:"format"`
}

// Mode treats anything other than "detailed" as a summary.
func (r ReportRequest) Mode() Mode {
	if strings.EqualFold(strings.TrimSpace(r.ReportType), string(ModeDetailed)) {
		return ModeDetailed
	}
	return ModeSummary
}

func (r ReportRequest) OutputFormat() (Format, error) {
	switch strings.ToLower(strings.TrimSpace(r.Format)) {
	case "", string(FormatPDF):
		return FormatPDF, nil
	case string(FormatXLSX):
		return FormatXLSX, nil
	default:
		return "", errors.NewValidationError("Invalid format", errors.ErrCodeValidationFailed)
	}
}
