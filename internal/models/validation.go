package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New()

// ValidationResult collects field errors; an entity never fails validation by returning an error.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// Has reports whether field carries an error.
func (v ValidationResult) Has(field string) bool {
	_, ok := v.Errors[field]
	return ok
}

// rule is one predicate/message pair of an entity's rule table.
type rule struct {
	field   string
	message string
	failed  bool
}

type ruleSet []rule

// evaluate keeps the first failing message per field, in table order.
func (rs ruleSet) evaluate() ValidationResult {
	errs := make(map[string]string)
	for _, r := range rs {
		if !r.failed {
			continue
		}
		if _, seen := errs[r.field]; seen {
			continue
		}
		errs[r.field] = r.message
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func check(field, message string, failed bool) rule {
	return rule{field: field, message: message, failed: failed}
}

func when(cond bool, r rule) rule {
	r.failed = cond && r.failed
	return r
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func required(field, value, message string) rule {
	return check(field, message, blank(value))
}

func maxLength(field, value string, limit int, label string) rule {
	return check(field, fmt.Sprintf("%s must be %d characters or less", label, limit), utf8.RuneCountInString(value) > limit)
}

func refRequired(field string, ref Ref, message string) rule {
	return check(field, message, !ref.IsSet())
}

func nonNegative(field string, value float64, label string) rule {
	return check(field, label+" must be non-negative", value < 0)
}

func atLeastOne(field string, value int, label string) rule {
	return check(field, label+" must be at least 1", value < 1)
}

// choice yields the required rule followed by the membership rule for an enum field.
func choice(field, value string, choices []Choice, label string) ruleSet {
	return ruleSet{
		check(field, label+" is required", blank(value)),
		check(field, "Invalid "+strings.ToLower(label), !blank(value) && !isChoice(choices, value)),
	}
}

func email(field, value string) rule {
	return check(field, "Enter a valid email address", !blank(value) && fieldValidator.Var(value, "email") != nil)
}

func website(field, value string) rule {
	return check(field, "Enter a valid URL", !blank(value) && fieldValidator.Var(value, "url") != nil)
}
