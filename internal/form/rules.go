package form

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

var validate = validator.New()

// Rule is one validator attached to a leaf. Every rule except Required
// treats an empty value as valid, so optional fields only need their
// format rules.
type Rule struct {
	Name    string
	check   func(interface{}) bool
	message string
}

// Check evaluates the rule, returning the message when it fails.
func (r Rule) Check(v interface{}) (string, bool) {
	if r.check == nil || r.check(v) {
		return "", true
	}
	return r.message, false
}

// Required rejects nil, "" and empty collections.
func Required() Rule {
	return Rule{
		Name:    "required",
		message: "This field is required",
		check:   func(v interface{}) bool { return !isEmpty(v) },
	}
}

// Email accepts a syntactically valid address.
func Email() Rule {
	return Rule{
		Name:    "email",
		message: "Please enter a valid email address",
		check: func(v interface{}) bool {
			if isEmpty(v) {
				return true
			}
			s, ok := v.(string)
			return ok && validate.Var(s, "email") == nil
		},
	}
}

// Pattern requires the string form of the value to match expr. label names
// the field in the message ("Invalid roll number format").
func Pattern(expr, label string) Rule {
	re := regexp.MustCompile(expr)
	return Rule{
		Name:    "pattern",
		message: fmt.Sprintf("Invalid %s format", label),
		check: func(v interface{}) bool {
			if isEmpty(v) {
				return true
			}
			s, err := cast.ToStringE(v)
			return err == nil && re.MatchString(s)
		},
	}
}

// Min requires a numeric value ≥ bound. Non-numeric input is left to other rules.
func Min(bound float64) Rule {
	return Rule{
		Name:    "min",
		message: fmt.Sprintf("Value must be at least %v", bound),
		check: func(v interface{}) bool {
			n, ok := number(v)
			return !ok || n >= bound
		},
	}
}

// Max requires a numeric value ≤ bound.
func Max(bound float64) Rule {
	return Rule{
		Name:    "max",
		message: fmt.Sprintf("Value must be at most %v", bound),
		check: func(v interface{}) bool {
			n, ok := number(v)
			return !ok || n <= bound
		},
	}
}

// MinLength bounds the rune length of strings or the size of collections.
func MinLength(n int) Rule {
	return Rule{
		Name:    "minlength",
		message: fmt.Sprintf("Minimum %d characters required", n),
		check:   lengthCheck(fmt.Sprintf("min=%d", n)),
	}
}

// MaxLength bounds the rune length of strings or the size of collections.
func MaxLength(n int) Rule {
	return Rule{
		Name:    "maxlength",
		message: fmt.Sprintf("Maximum %d characters allowed", n),
		check:   lengthCheck(fmt.Sprintf("max=%d", n)),
	}
}

func lengthCheck(tag string) func(interface{}) bool {
	return func(v interface{}) bool {
		if isEmpty(v) || !hasLength(v) {
			return true
		}
		return validate.Var(v, tag) == nil
	}
}

func number(v interface{}) (float64, bool) {
	if isEmpty(v) {
		return 0, false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasLength(v interface{}) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
