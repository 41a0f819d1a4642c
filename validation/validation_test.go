package validation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateMap(t *testing.T) {
	rules := Rules{
		"name":  {"required", "string", "min:2", "max:5"},
		"age":   {"integer", "min:18"},
		"email": {"required"},
	}

	violations := ValidateMap(map[string]any{
		"name": "Jonathan",
		"age":  12.0,
		"bio":  "ignored",
	}, rules)

	if violations.IsEmpty() {
		t.Fatal("expected violations")
	}
	if len(violations.Errors) != 3 {
		t.Errorf("expected 3 fields with violations, got %d: %v", len(violations.Errors), violations.Errors)
	}
	if got := violations.Errors["name"][0].Error(); got != "name may not be greater than 5" {
		t.Errorf("expected max violation, got %s", got)
	}
	if got := violations.Errors["age"][0].Error(); got != "age must be at least 18" {
		t.Errorf("expected min violation, got %s", got)
	}
	if got := violations.Errors["email"][0].Error(); got != "email is required" {
		t.Errorf("expected required violation, got %s", got)
	}
}

func TestValidateMapOptionalFieldAbsent(t *testing.T) {
	violations := ValidateMap(map[string]any{"name": "Ann"}, Rules{
		"name": {"required", "string"},
		"age":  {"integer"},
	})

	if !violations.IsEmpty() {
		t.Errorf("expected no violations, got %v", violations.Errors)
	}
}

func TestValidateRequiredBlank(t *testing.T) {
	violations := ValidateMap(map[string]any{"content": "   ", "tags": []any{}}, Rules{
		"content": {"required"},
		"tags":    {"required"},
	})

	if len(violations.Errors) != 2 {
		t.Errorf("expected 2 violations, got %v", violations.Errors)
	}
}

func TestValidateInvalidRule(t *testing.T) {
	violations := ValidateMap(map[string]any{"x": "y"}, Rules{"x": {"shiny", "min:abc"}})

	if len(violations.Errors["x"]) != 2 {
		t.Fatalf("expected 2 violations, got %v", violations.Errors)
	}
	for _, err := range violations.Errors["x"] {
		if !errors.Is(err, ErrInvalidRule) {
			t.Errorf("expected ErrInvalidRule, got %v", err)
		}
	}
}

func TestValidateJSON(t *testing.T) {
	data, violations, err := ValidateJSON([]byte(`{"name":"Ann","age":"30"}`), Rules{
		"name": {"required"},
		"age":  {"integer"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !violations.IsEmpty() {
		t.Errorf("expected no violations, got %v", violations.Errors)
	}
	if data["name"] != "Ann" {
		t.Errorf("expected Ann, got %v", data["name"])
	}

	if _, _, err := ValidateJSON([]byte(`not json`), Rules{}); err == nil {
		t.Error("expected a decoding error")
	}
}

func TestViolationsMarshalJSON(t *testing.T) {
	violations := Violations{Errors: map[string][]error{
		"name": {errors.New("name is required")},
	}}

	b, err := json.Marshal(violations)
	if err != nil {
		t.Fatal(err)
	}

	expected := `{"errors":{"name":["name is required"]}}`
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, b)
	}
}
