package domain

import "testing"

func TestValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "Brazilian mobile", phone: "+5511987654321", want: true},
		{name: "Spaces and dashes", phone: "+55 11 98765-4321", want: true},
		{name: "No plus", phone: "5511987654321", want: true},
		{name: "Too short", phone: "+551234", want: false},
		{name: "Leading zero", phone: "+0511987654321", want: false},
		{name: "Letters", phone: "+55abc", want: false},
		{name: "Empty", phone: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPhone(tt.phone); got != tt.want {
				t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestSplitPhone(t *testing.T) {
	tests := []struct {
		full      string
		wantCode  string
		wantLocal string
	}{
		{"+5511987654321", "+55", "11987654321"},
		{"+598 91234567", "+598", "91234567"},
		{"+12025550123", "+1", "2025550123"},
		{"+8613800000000", "+55", "8613800000000"},
		{"11987654321", "+55", "11987654321"},
	}
	for _, tt := range tests {
		code, local := SplitPhone(tt.full)
		if code != tt.wantCode || local != tt.wantLocal {
			t.Errorf("SplitPhone(%q) = (%q, %q), want (%q, %q)", tt.full, code, local, tt.wantCode, tt.wantLocal)
		}
	}
}
