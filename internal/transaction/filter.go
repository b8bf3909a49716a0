package transaction

import (
	"strings"
	"time"

	"github.com/frahmantamala/pos-management/internal"
)

var acceptedLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts a plain date or one of the usual datetime forms.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range acceptedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Filter narrows transaction listings. The end date is inclusive of the whole day,
// so it is stored as the exclusive start of the following day.
type Filter struct {
	StartDate *time.Time
	EndBefore *time.Time
	Username  string

	// Raw values, echoed on reports.
	RawStart string
	RawEnd   string
}

func ParseFilter(startDate, endDate, username string) (Filter, error) {
	f := Filter{
		Username: strings.TrimSpace(username),
		RawStart: strings.TrimSpace(startDate),
		RawEnd:   strings.TrimSpace(endDate),
	}

	if f.RawStart != "" {
		start, err := ParseDate(f.RawStart)
		if err != nil {
			return Filter{}, internal.NewValidationError("Invalid start_date", internal.ErrCodeInvalidDate).WithCause(err)
		}
		f.StartDate = &start
	}

	if f.RawEnd != "" {
		end, err := ParseDate(f.RawEnd)
		if err != nil {
			return Filter{}, internal.NewValidationError("Invalid end_date", internal.ErrCodeInvalidDate).WithCause(err)
		}
		day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
		f.EndBefore = &day
	}

	return f, nil
}
