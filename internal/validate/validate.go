// Package validate provides field validation for API input.
//
// Validation is expressed as an ordered list of rules per field.
// Every rule is evaluated; all failures are collected so the caller
// gets the complete list of violations, not just the first.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldError describes a single violated rule.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Msg)
}

// Rule checks one constraint on one named field.
// Check returns an empty string when the value passes, or the
// violation message otherwise.
type Rule struct {
	Param string
	Check func(value string) string
}

// Run evaluates every rule against the corresponding value and collects
// all failures. Values maps field name to the raw input value.
// Returns nil when everything passes.
func Run(values map[string]string, rules []Rule) []FieldError {
	var errs []FieldError
	for _, rule := range rules {
		if msg := rule.Check(values[rule.Param]); msg != "" {
			errs = append(errs, FieldError{Msg: msg, Param: rule.Param})
		}
	}
	return errs
}

// NormalizeEmail canonicalizes an email address for storage and
// uniqueness checks: surrounding whitespace removed, lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email returns a rule requiring a syntactically valid email address.
func Email(param string) Rule {
	return Rule{
		Param: param,
		Check: func(value string) string {
			addr, err := mail.ParseAddress(NormalizeEmail(value))
			// Reject name-addr forms like "Bob <bob@example.com>";
			// only the bare address is acceptable as a login key.
			if err != nil || addr.Address != NormalizeEmail(value) {
				return "Please provide a valid email"
			}
			return ""
		},
	}
}

// MinLength returns a rule requiring at least min bytes.
func MinLength(param string, min int, msg string) Rule {
	return Rule{
		Param: param,
		Check: func(value string) string {
			if len(value) < min {
				return msg
			}
			return ""
		},
	}
}

// Required returns a rule requiring a non-empty value after trimming.
func Required(param, msg string) Rule {
	return Rule{
		Param: param,
		Check: func(value string) string {
			if strings.TrimSpace(value) == "" {
				return msg
			}
			return ""
		},
	}
}

// MaxLength returns a rule rejecting values longer than max bytes
// after trimming.
func MaxLength(param string, max int, msg string) Rule {
	return Rule{
		Param: param,
		Check: func(value string) string {
			if len(strings.TrimSpace(value)) > max {
				return msg
			}
			return ""
		},
	}
}
