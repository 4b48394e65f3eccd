package stock

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateStockRequest(t *testing.T) {
	cases := []struct {
		name string
		req  StockRequest
		want []string
	}{
		{"valid", StockRequest{Name: strPtr("Apple Inc"), CurrentPrice: decPtr("131.96")}, nil},
		{"max digits", StockRequest{Name: strPtr("Big"), CurrentPrice: decPtr("1234567890.99")}, nil},
		{"trailing zeros", StockRequest{Name: strPtr("Zeros"), CurrentPrice: decPtr("12.500")}, nil},
		{"fraction below one", StockRequest{Name: strPtr("Penny"), CurrentPrice: decPtr("0.01")}, nil},
		{"null name", StockRequest{CurrentPrice: decPtr("857.93")}, []string{"Name can not be null!"}},
		{"empty name", StockRequest{Name: strPtr(""), CurrentPrice: decPtr("857.93")}, []string{"Name can not be empty!"}},
		{"blank name", StockRequest{Name: strPtr(" \t "), CurrentPrice: decPtr("857.93")}, []string{"Name can not be empty!"}},
		{"null price", StockRequest{Name: strPtr("Tesla Inc")}, []string{"Price can not be null!"}},
		{"zero price", StockRequest{Name: strPtr("Tesla Inc"), CurrentPrice: decPtr("0")}, []string{"Price must be greater than zero!"}},
		{"negative price", StockRequest{Name: strPtr("Tesla Inc"), CurrentPrice: decPtr("-1.50")}, []string{"Price must be greater than zero!"}},
		{"three fraction digits", StockRequest{Name: strPtr("Tesla Inc"), CurrentPrice: decPtr("857.931")}, []string{"Illegal format for price!"}},
		{"eleven integer digits", StockRequest{Name: strPtr("Tesla Inc"), CurrentPrice: decPtr("12345678901")}, []string{"Illegal format for price!"}},
		{"everything missing", StockRequest{}, []string{"Name can not be null!", "Price can not be null!"}},
		{"blank name and bad price", StockRequest{Name: strPtr(" "), CurrentPrice: decPtr("-3")}, []string{"Name can not be empty!", "Price must be greater than zero!"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if strings.Join(verr.Messages, "|") != strings.Join(tc.want, "|") {
				t.Errorf("messages = %q, want %q", verr.Messages, tc.want)
			}
		})
	}
}

func TestValidatePriceRequest(t *testing.T) {
	cases := []struct {
		name  string
		price *decimal.Decimal
		want  string
	}{
		{"valid", decPtr("450.75"), ""},
		{"null", nil, "Price can not be null!"},
		{"zero", decPtr("0.00"), "Price must be greater than zero!"},
		{"negative", decPtr("-0.01"), "Price must be greater than zero!"},
		{"too precise", decPtr("0.001"), "Illegal format for price!"},
		{"too large", decPtr("99999999999.00"), "Illegal format for price!"},
		{"huge exponent", decPtr("1e1000000"), "Illegal format for price!"},
		{"tiny exponent", decPtr("1e-1000000"), "Illegal format for price!"},
		{"negative huge exponent", decPtr("-1e1000000"), "Price must be greater than zero!"},
		{"exponent within limits", decPtr("4.5075e2"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(PriceRequest{CurrentPrice: tc.price})
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Messages) != 1 || verr.Messages[0] != tc.want {
				t.Errorf("messages = %q, want [%q]", verr.Messages, tc.want)
			}
		})
	}
}

func TestNewValidationErrorIgnoresOtherErrors(t *testing.T) {
	if got := NewValidationError(errors.New("boom")); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestWithinDigits(t *testing.T) {
	cases := map[string]bool{
		"0":              true,
		"0.5":            true,
		"9999999999.99":  true,
		"10000000000":    false,
		"1.999":          false,
		"-9999999999.99": true,
		"12.500":         true,
		"1e3":            true,
		"1e10":           false,
		"1e1000000":      false,
		"1e-1000000":     false,
		"1234500e-4":     true,
		"1234500e-5":     false,
	}
	for in, want := range cases {
		if got := withinDigits(decimal.RequireFromString(in), maxIntegerDigits, maxFractionDigits); got != want {
			t.Errorf("withinDigits(%s) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateExponentPriceStaysSmall(t *testing.T) {
	start := time.Now()
	err := Validate(PriceRequest{CurrentPrice: decPtr("1e100000000")})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Messages) != 1 || verr.Messages[0] != MsgPriceFormat {
		t.Fatalf("expected %q, got %v", MsgPriceFormat, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("validation took %v", elapsed)
	}
}
