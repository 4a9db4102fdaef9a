package domain

import (
	"regexp"
	"time"
)

// AuditFields holds timestamps common to persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// YearMonth identifies a calendar statement period. Month is 1-12.
type YearMonth struct {
	Year  int
	Month int
}

// MonthRange is an optional inclusive period filter for statement listings.
type MonthRange struct {
	From *YearMonth
	To   *YearMonth
}

// ibanPattern matches the Spanish IBAN shape: ES followed by 22 digits.
var ibanPattern = regexp.MustCompile(`^ES\d{22}$`)

// IsIBAN reports whether s has the IBAN shape this service accepts as an
// owner identifier. Anything else is treated as a legacy account id.
func IsIBAN(s string) bool {
	return ibanPattern.MatchString(s)
}
