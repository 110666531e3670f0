package inventory

import (
	"errors"
	"testing"
)

func TestParseStatusAcceptsLifecycleValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
	}{
		{name: "packed", input: "packed", expected: StatusPacked},
		{name: "staging", input: "staging", expected: StatusStaging},
		{name: "loaded", input: "loaded", expected: StatusLoaded},
		{name: "out", input: "out", expected: StatusOut},
		{name: "delivered", input: "delivered", expected: StatusDelivered},
		{name: "unpacked", input: "unpacked", expected: StatusUnpacked},
		{name: "mixed case", input: "Loaded", expected: StatusLoaded},
		{name: "surrounding whitespace", input: "  out  ", expected: StatusOut},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			status, err := ParseStatus(testCase.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, status)
			}
		})
	}
}

func TestParseStatusRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "boxed", "in-transit", "packed!"} {
		if _, err := ParseStatus(input); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus for %q, got %v", input, err)
		}
	}
}

func TestCoerceStatusDefaultsToPacked(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
	}{
		{name: "missing", input: "", expected: StatusPacked},
		{name: "garbage", input: "definitely-not-a-status", expected: StatusPacked},
		{name: "valid survives", input: "delivered", expected: StatusDelivered},
		{name: "mixed case survives", input: "sTaGiNg", expected: StatusStaging},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if coerced := CoerceStatus(testCase.input); coerced != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, coerced)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusLoaded.Valid() {
		t.Fatalf("expected loaded to be valid")
	}
	if Status("lost").Valid() {
		t.Fatalf("expected lost to be invalid")
	}
}

func TestStatusValuesFollowLifecycleOrder(t *testing.T) {
	expected := []string{"packed", "staging", "loaded", "out", "delivered", "unpacked"}
	values := StatusValues()
	if len(values) != len(expected) {
		t.Fatalf("expected %d statuses, got %d", len(expected), len(values))
	}
	for index, value := range values {
		if value != expected[index] {
			t.Fatalf("expected %s at index %d, got %s", expected[index], index, value)
		}
	}
}
