// Package dateutil provides small calendar helpers used across the payroll
// engine: employee age at a point in time, pay-date arithmetic, and tax-year
// boundaries.
package dateutil

import "time"

// Age calculates the age at a given date using calendar-day precision.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.YearDay() < birthDate.YearDay() {
		age--
	}
	return age
}

// YearsUntilDate returns the elapsed years (fractional) between two dates.
func YearsUntilDate(fromDate, toDate time.Time) float64 {
	duration := toDate.Sub(fromDate)
	return duration.Hours() / 24 / 365.25
}

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in the given year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// AddYears adds the given number of years to a date.
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// BeginningOfYear returns January 1 00:00:00 for the date's year, in the
// date's location.
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}

// EndOfYear returns December 31 23:59:59.999999999 for the date's year.
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}

// EditionForPayDate resolves which mid-year edition (jan or jul) governs a
// pay date: per spec.md's boundary behavior, "a period crossing the boundary
// uses the edition whose effective range contains the pay_date."
func EditionForPayDate(payDate time.Time) string {
	if payDate.Month() >= time.July {
		return "jul"
	}
	return "jan"
}
