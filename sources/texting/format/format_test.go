package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumberify(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{name: "small", input: 42, want: "42"},
		{name: "thousands separator", input: 1500, want: "1,500"},
		{name: "millions", input: 2500000, want: "2,500,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Numberify(tt.input); got != tt.want {
				t.Errorf("Numberify(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCurrencify(t *testing.T) {
	if got := Currencify("$", decimal.NewFromInt(12500)); got != "$12,500" {
		t.Errorf("Currencify = %q, want %q", got, "$12,500")
	}
}

func TestPluralify(t *testing.T) {
	if got := Pluralify(1, "call", "calls"); got != "call" {
		t.Errorf("Pluralify(1) = %q, want %q", got, "call")
	}
	if got := Pluralify(0, "call", "calls"); got != "calls" {
		t.Errorf("Pluralify(0) = %q, want %q", got, "calls")
	}
	if got := Pluralify(5, "call", "calls"); got != "calls" {
		t.Errorf("Pluralify(5) = %q, want %q", got, "calls")
	}
}
