package poll

import (
	"errors"
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"integer", "5", "5000000000000000000", false},
		{"zero", "0", "0", false},
		{"small fraction", "0.00001", "10000000000000", false},
		{"full precision", "1.000000000000000001", "1000000000000000001", false},
		{"truncates excess digits", "0.0000000000000000019", "1", false},
		{"leading dot", ".5", "500000000000000000", false},
		{"trailing dot", "1.", "1000000000000000000", false},
		{"empty", "", "", true},
		{"letters", "abc", "", true},
		{"two dots", "1.2.3", "", true},
		{"negative", "-1", "", true},
		{"spaces inside", "1 2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input, NativeDecimals)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whole number", "5000000000000000000", "5"},
		{"zero", "0", "0"},
		{"small fraction", "10000000000000", "0.00001"},
		{"strips trailing zeros", "1500000000000000000", "1.5"},
		{"one wei", "1", "0.000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := new(big.Int).SetString(tt.input, 10)
			if got := FormatAmount(v, NativeDecimals); got != tt.want {
				t.Errorf("FormatAmount(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if got := FormatAmount(nil, NativeDecimals); got != "0" {
		t.Errorf("FormatAmount(nil) = %q, want %q", got, "0")
	}
}

// FormatAmount must be a left inverse of ParseAmount
func TestAmountRoundTrip(t *testing.T) {
	inputs := []struct{ in, normalized string }{
		{"0.00001", "0.00001"},
		{"1.500", "1.5"},
		{"42", "42"},
		{"42.", "42"},
		{"0.000000000000000001", "0.000000000000000001"},
		{"123456789.987654321", "123456789.987654321"},
	}

	for _, tt := range inputs {
		v, err := ParseAmount(tt.in, NativeDecimals)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tt.in, err)
		}
		if got := FormatAmount(v, NativeDecimals); got != tt.normalized {
			t.Errorf("round trip %q -> %s -> %q, want %q", tt.in, v, got, tt.normalized)
		}
	}
}

func TestTargetFund(t *testing.T) {
	reward, _ := ParseAmount("0.001", NativeDecimals)
	got := TargetFund(reward, 100)

	want, _ := ParseAmount("0.1", NativeDecimals)
	if got.Cmp(want) != 0 {
		t.Errorf("TargetFund(0.001, 100) = %s, want %s", got, want)
	}

	if got := TargetFund(nil, 100); got.Sign() != 0 {
		t.Errorf("TargetFund(nil, 100) = %s, want 0", got)
	}
}
