package aggregation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
)

// monthPattern matches YYYY-MM with months 01-12.
var monthPattern = regexp.MustCompile(`^([0-9]{4})-(0[1-9]|1[0-2])$`)

// ParseMonth parses a YYYY-MM period string.
func ParseMonth(s string) (domain.YearMonth, error) {
	m := monthPattern.FindStringSubmatch(s)
	if m == nil {
		return domain.YearMonth{}, fmt.Errorf("%w: month must be in YYYY-MM format, got %q", apperrors.ErrValidation, s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return domain.YearMonth{Year: year, Month: month}, nil
}

// MonthBounds returns the first and last instant of the calendar month, UTC.
func MonthBounds(ym domain.YearMonth) (start, end time.Time) {
	start = time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// CurrentMonth returns the calendar month containing t.
func CurrentMonth(t time.Time) domain.YearMonth {
	return domain.YearMonth{Year: t.UTC().Year(), Month: int(t.UTC().Month())}
}

// PreviousMonth returns the calendar month before the one containing t.
func PreviousMonth(t time.Time) domain.YearMonth {
	first := time.Date(t.UTC().Year(), t.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	return domain.YearMonth{Year: prev.Year(), Month: int(prev.Month())}
}

// monthNames are the localized month names the listing endpoint decorates
// summaries with, indexed by month-1.
var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the localized name for a 1-12 month, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}
