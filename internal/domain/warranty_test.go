package domain

import (
	"testing"
	"time"
)

func TestWarrantyDays(t *testing.T) {
	tests := []struct {
		name  string
		value string
		unit  WarrantyUnit
		want  *int
	}{
		{name: "Years", value: "2", unit: WarrantyYear, want: intPtr(730)},
		{name: "Months", value: "6", unit: WarrantyMonth, want: intPtr(180)},
		{name: "Days", value: "10", unit: WarrantyDay, want: intPtr(10)},
		{name: "Zero", value: "0", unit: WarrantyYear, want: intPtr(0)},
		{name: "Surrounding spaces", value: " 3 ", unit: WarrantyMonth, want: intPtr(90)},
		{name: "Unknown unit counts as months", value: "1", unit: WarrantyUnit("week"), want: intPtr(30)},
		{name: "Empty", value: "", unit: WarrantyYear, want: nil},
		{name: "Negative", value: "-1", unit: WarrantyDay, want: nil},
		{name: "Letters", value: "abc", unit: WarrantyMonth, want: nil},
		{name: "Decimal", value: "1.5", unit: WarrantyYear, want: nil},
		{name: "Explicit plus sign", value: "+2", unit: WarrantyDay, want: nil},
		{name: "Overflow", value: "99999999999999999999", unit: WarrantyDay, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WarrantyDays(tt.value, tt.unit)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("WarrantyDays(%q, %s) = %d, want nil", tt.value, tt.unit, *got)
			case tt.want != nil && got == nil:
				t.Errorf("WarrantyDays(%q, %s) = nil, want %d", tt.value, tt.unit, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("WarrantyDays(%q, %s) = %d, want %d", tt.value, tt.unit, *got, *tt.want)
			}
		})
	}
}

func TestWarrantyLevelFor(t *testing.T) {
	tests := []struct {
		days int
		want WarrantyLevel
	}{
		{-5, WarrantyExpired},
		{0, WarrantyExpired},
		{1, WarrantyCritical},
		{30, WarrantyCritical},
		{31, WarrantyAttention},
		{60, WarrantyAttention},
		{61, WarrantyGood},
	}
	for _, tt := range tests {
		if got := WarrantyLevelFor(tt.days); got != tt.want {
			t.Errorf("WarrantyLevelFor(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestWarrantyExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	status := WarrantyExpiry("2024-05-01", intPtr(90), now)
	if status == nil {
		t.Fatal("expected a warranty status")
	}
	if status.ExpiresOn != "2024-07-30" {
		t.Errorf("expected expiry 2024-07-30, got %s", status.ExpiresOn)
	}
	if status.DaysToExpire != 59 {
		t.Errorf("expected 59 days left, got %d", status.DaysToExpire)
	}
	if status.Level != WarrantyAttention {
		t.Errorf("expected attention level, got %s", status.Level)
	}

	if WarrantyExpiry("2024-05-01", nil, now) != nil {
		t.Error("expected nil status without warranty")
	}
	if WarrantyExpiry("01/05/2024", intPtr(10), now) != nil {
		t.Error("expected nil status for unparsable issue date")
	}

	expired := WarrantyExpiry("2023-01-01", intPtr(30), now)
	if expired == nil || expired.Level != WarrantyExpired {
		t.Errorf("expected expired status, got %+v", expired)
	}
}

func intPtr(v int) *int {
	return &v
}
