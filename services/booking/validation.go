package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bookingbridge/models"
	"bookingbridge/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// The request struct carries gin "binding" tags; the same rules are enforced here so
// callers outside the HTTP layer get identical validation.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize fills amounts the front end may omit. A zero amount counts as missing.
func Normalize(req models.BookingRequest) models.BookingRequest {
	if req.Subtotal.IsZero() {
		req.Subtotal = req.ServiceTotal
	}
	if req.ServiceTotal.IsZero() {
		req.ServiceTotal = req.Subtotal
	}
	if req.TotalCost.IsZero() {
		req.TotalCost = req.Subtotal.Add(req.VATAmount).Add(req.BookingFee)
	}
	req.Email = strings.TrimSpace(req.Email)
	return req
}

// Validate checks a normalized request. Amounts are compared in minor units so the
// three checkout line items always add up to the total charged. Amounts finer than
// a minor unit are rejected before any sum is checked: 0.005 + 0.005 is exactly
// 0.01, but no pair of whole-penny line items can charge it.
func Validate(req models.BookingRequest) error {
	var problems []string

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return NewValidationError(err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, fieldProblem(fe))
		}
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"totalCost", req.TotalCost},
		{"subtotal", req.Subtotal},
		{"vatAmount", req.VATAmount},
		{"bookingFee", req.BookingFee},
		{"serviceTotal", req.ServiceTotal},
	}
	subPenny := false
	for _, a := range amounts {
		if a.value.IsNegative() {
			problems = append(problems, a.name+" must not be negative")
		}
		if !a.value.Equal(a.value.Truncate(2)) {
			problems = append(problems, a.name+" must have at most 2 decimal places")
			subPenny = true
		}
	}
	if subPenny {
		return NewValidationError(errors.New(strings.Join(problems, "; ")))
	}

	total := utils.ToMinorUnits(req.TotalCost)
	subtotal := utils.ToMinorUnits(req.Subtotal)
	if total <= 0 {
		problems = append(problems, "totalCost must be greater than zero")
	}
	if utils.ToMinorUnits(req.ServiceTotal) != subtotal {
		problems = append(problems, fmt.Sprintf("serviceTotal %s does not match subtotal %s",
			utils.FormatAmount(req.ServiceTotal), utils.FormatAmount(req.Subtotal)))
	}
	if sum := subtotal + utils.ToMinorUnits(req.VATAmount) + utils.ToMinorUnits(req.BookingFee); sum != total {
		problems = append(problems, fmt.Sprintf("totalCost %s does not equal subtotal + vatAmount + bookingFee (%s)",
			utils.FormatAmount(req.TotalCost), utils.FormatAmount(utils.FromMinorUnits(sum))))
	}

	if len(problems) > 0 {
		return NewValidationError(errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func fieldProblem(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min", "max":
		if fe.Kind() == reflect.Slice {
			return field + " must contain at least one hour"
		}
		return field + " must be an hour between 0 and 23"
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
