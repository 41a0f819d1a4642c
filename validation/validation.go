package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrInvalidRule = errors.New("validation: invalid rule")

type Violations struct {
	Errors map[string][]error
}

func (violations Violations) MarshalJSON() ([]byte, error) {
	errors := make(map[string][]string)
	for fieldName, fieldErrors := range violations.Errors {
		errors[fieldName] = make([]string, len(fieldErrors))
		for index, fieldError := range fieldErrors {
			errors[fieldName][index] = fieldError.Error()
		}
	}

	return json.Marshal(map[string]map[string][]string{
		"errors": errors,
	})
}

func (violations Violations) IsEmpty() bool {
	return len(violations.Errors) == 0
}

// Rules maps a field name to the rules it must satisfy, for example
// {"name": {"required", "string", "max:50"}}.
type Rules map[string][]string

// ValidateMap checks data against rules. Fields without rules are ignored and
// optional fields that are absent skip their remaining rules.
func ValidateMap(data map[string]any, rules Rules) Violations {
	var violations Violations
	violations.Errors = make(map[string][]error)

	for attributeName, attributeRules := range rules {
		attributeValue, present := data[attributeName]
		if !present && !contains(attributeRules, "required") {
			continue
		}

		var errorCollection []error
		for _, attributeRule := range attributeRules {
			if err := validate(attributeRule, attributeName, attributeValue); err != nil {
				errorCollection = append(errorCollection, err)
			}
		}

		if len(errorCollection) != 0 {
			violations.Errors[attributeName] = errorCollection
		}
	}

	return violations
}

// ValidateJSON decodes body as a JSON object and validates it.
func ValidateJSON(body []byte, rules Rules) (map[string]any, Violations, error) {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, Violations{}, fmt.Errorf("validation: decoding body: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}

	return data, ValidateMap(data, rules), nil
}

func validate(rule string, name string, value any) error {
	ruleName, argument, _ := strings.Cut(rule, ":")

	switch ruleName {
	case "required":
		{
			err := fmt.Errorf("%s is required", name)

			switch v := value.(type) {
			case nil:
				{
					return err
				}
			case string:
				{
					if strings.TrimSpace(v) == "" {
						return err
					}
				}
			case []any:
				{
					if len(v) == 0 {
						return err
					}
				}
			}
		}
	case "string":
		{
			if _, ok := value.(string); !ok {
				return fmt.Errorf("%s must be a string", name)
			}
		}
	case "integer":
		{
			if !isInteger(value) {
				return fmt.Errorf("%s must be an integer", name)
			}
		}
	case "min", "max":
		{
			limit, err := strconv.Atoi(argument)
			if err != nil {
				return fmt.Errorf("%w :: %s", ErrInvalidRule, rule)
			}

			size, ok := sizeOf(value)
			if !ok {
				return nil
			}

			if ruleName == "min" && size < float64(limit) {
				return fmt.Errorf("%s must be at least %d", name, limit)
			}
			if ruleName == "max" && size > float64(limit) {
				return fmt.Errorf("%s may not be greater than %d", name, limit)
			}
		}
	default:
		{
			return fmt.Errorf("%w :: %s", ErrInvalidRule, rule)
		}
	}

	return nil
}

// sizeOf measures strings in runes, arrays in elements and numbers by value.
func sizeOf(value any) (float64, bool) {
	switch v := value.(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), true
	case []any:
		return float64(len(v)), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int:
		return true
	case float64:
		return v == math.Trunc(v) && !math.IsInf(v, 0)
	case string:
		return ValidateInteger(v)
	}
	return false
}

func contains(rules []string, rule string) bool {
	for _, r := range rules {
		if r == rule {
			return true
		}
	}
	return false
}

// Numberic operations
func ValidateInteger(value string) bool {
	_, err := strconv.Atoi(value)
	return err == nil
}
