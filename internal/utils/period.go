package utils

import "fmt"

// monthNames is the month enumeration used on contribution records.
var monthNames = [13]string{
	"",
	"JANVIER", "FEVRIER", "MARS", "AVRIL",
	"MAI", "JUIN", "JUILLET", "AOUT",
	"SEPTEMBRE", "OCTOBRE", "NOVEMBRE", "DECEMBRE",
}

// MonthName returns the enumeration name for a month number (1-12).
func MonthName(month int) (string, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	return monthNames[month], true
}

// ValidMonthName reports whether name belongs to the month enumeration.
func ValidMonthName(name string) bool {
	for _, m := range monthNames[1:] {
		if m == name {
			return true
		}
	}
	return false
}

// Period scopes a report to a month and year, a year alone, or nothing.
// Zero fields mean "not filtered".
type Period struct {
	Month int
	Year  int
}

// Validate rejects malformed periods before they reach the engine: a month
// outside 1-12, or a month given without its year.
func (p Period) Validate() error {
	if p.Month != 0 && (p.Month < 1 || p.Month > 12) {
		return fmt.Errorf("month must be between 1 and 12, got %d", p.Month)
	}
	if p.Month != 0 && p.Year == 0 {
		return fmt.Errorf("month filter requires a year")
	}
	return nil
}

// IsZero reports whether no filtering at all was requested.
func (p Period) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}

// HasMonth reports whether a specific month is requested.
func (p Period) HasMonth() bool {
	return p.Month != 0
}

// YearOnly reports whether the period covers a whole year.
func (p Period) YearOnly() bool {
	return p.Month == 0 && p.Year != 0
}
