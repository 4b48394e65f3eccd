package stock

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	maxIntegerDigits  = 10
	maxFractionDigits = 2
)

const (
	MsgNameNull      = "Name can not be null!"
	MsgNameBlank     = "Name can not be empty!"
	MsgPriceNull     = "Price can not be null!"
	MsgPricePositive = "Price must be greater than zero!"
	MsgPriceFormat   = "Illegal format for price!"
)

var messages = map[string]string{
	"Name.required":         MsgNameNull,
	"Name.notblank":         MsgNameBlank,
	"CurrentPrice.required": MsgPriceNull,
	"CurrentPrice.positive": MsgPricePositive,
	"CurrentPrice.pricefmt": MsgPriceFormat,
}

// ValidationError carries every constraint violation found on one request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// same tag gin binds with, so both paths read one set of rules
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations installs the stock rules on v. Call it on gin's binding
// engine before serving so ShouldBind enforces them too.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	if err := v.RegisterValidation("positive", positive); err != nil {
		return fmt.Errorf("register positive: %w", err)
	}
	if err := v.RegisterValidation("pricefmt", priceFormat); err != nil {
		return fmt.Errorf("register pricefmt: %w", err)
	}
	return nil
}

// Validate checks a StockRequest or PriceRequest and returns a *ValidationError
// listing all violations, or nil.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		if verr := NewValidationError(err); verr != nil {
			return verr
		}
		return err
	}
	return nil
}

// NewValidationError converts validator output into a ValidationError. It
// returns nil when err holds no field errors.
func NewValidationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	out := &ValidationError{Messages: make([]string, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Messages = append(out.Messages, messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
}

// decimalValue exposes decimals to the validator in coefficient-exponent
// form. String() expands the exponent, so 1e1000000 would become a million
// digits before any rule could reject it.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.Coefficient().String() + "e" + strconv.FormatInt(int64(d.Exponent()), 10)
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func positive(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.Sign() > 0
}

func priceFormat(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && withinDigits(d, maxIntegerDigits, maxFractionDigits)
}

// withinDigits works on coefficient and exponent only and ignores trailing
// fractional zeros, so 12.500 fits two places.
func withinDigits(d decimal.Decimal, integer, fraction int) bool {
	coef := new(big.Int).Abs(d.Coefficient())
	if coef.Sign() == 0 {
		return true
	}
	digits := coef.String()
	significant := strings.TrimRight(digits, "0")
	exp := int64(d.Exponent()) + int64(len(digits)-len(significant))
	if exp < -int64(fraction) {
		return false
	}
	return int64(len(significant))+exp <= int64(integer)
}
