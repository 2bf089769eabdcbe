package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// IssueDateLayout is the calendar format of invoice issue dates.
const IssueDateLayout = "2006-01-02"

// WarrantyDays converts a user-entered warranty into a day count.
//
// Months are 30 days and years 365 days. A value that is not a plain non-negative
// base-10 integer means "no warranty" and yields nil.
func WarrantyDays(value string, unit WarrantyUnit) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}

	factor := 1
	switch ParseWarrantyUnit(string(unit)) {
	case WarrantyYear:
		factor = 365
	case WarrantyMonth:
		factor = 30
	}
	if n > math.MaxInt32/factor {
		return nil
	}
	days := n * factor
	return &days
}

// WarrantyLevel buckets the time left on a warranty.
type WarrantyLevel string

const (
	WarrantyGood      WarrantyLevel = "good"
	WarrantyAttention WarrantyLevel = "attention"
	WarrantyCritical  WarrantyLevel = "critical"
	WarrantyExpired   WarrantyLevel = "expired"
)

// WarrantyStatus is the badge shown next to a saved invoice.
type WarrantyStatus struct {
	ExpiresOn    string        `json:"expires_on"`
	DaysToExpire int           `json:"days_to_expire"`
	Level        WarrantyLevel `json:"level"`
}

// WarrantyLevelFor maps remaining days to a badge level.
func WarrantyLevelFor(daysToExpire int) WarrantyLevel {
	switch {
	case daysToExpire <= 0:
		return WarrantyExpired
	case daysToExpire <= 30:
		return WarrantyCritical
	case daysToExpire <= 60:
		return WarrantyAttention
	default:
		return WarrantyGood
	}
}

// WarrantyExpiry computes the warranty status of an invoice issued on issueDate
// with the given warranty length, as seen on now. It returns nil when there is no
// warranty or the issue date cannot be parsed.
func WarrantyExpiry(issueDate string, days *int, now time.Time) *WarrantyStatus {
	if days == nil {
		return nil
	}
	issued, err := time.Parse(IssueDateLayout, strings.TrimSpace(issueDate))
	if err != nil {
		return nil
	}
	expires := issued.AddDate(0, 0, *days)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	left := int(expires.Sub(today).Hours() / 24)

	return &WarrantyStatus{
		ExpiresOn:    expires.Format(IssueDateLayout),
		DaysToExpire: left,
		Level:        WarrantyLevelFor(left),
	}
}
