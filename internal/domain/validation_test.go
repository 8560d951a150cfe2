package domain

import (
	"strings"
	"testing"
)

func TestValidateCustomerName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid", input: "Ada Lovelace"},
		{name: "empty", input: "", expectError: true},
		{name: "whitespace only", input: "   ", expectError: true},
		{name: "too long", input: strings.Repeat("x", 256), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomerName(tt.input)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("ada@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(""); err != nil {
		t.Errorf("empty description must be allowed: %v", err)
	}

	if err := ValidateDescription(strings.Repeat("x", MaxDescriptionLength+1)); err == nil {
		t.Error("expected error for oversized description")
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("01HZXW3TCBDJ3C2BDPJ6GQ2V7M"); err != nil {
		t.Errorf("unexpected error for valid ULID: %v", err)
	}

	if err := ValidateID("short"); err == nil {
		t.Error("expected error for malformed ID")
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", limit: 0, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "clamped limit", limit: 5000, offset: 10, wantLimit: 1000, wantOffset: 10},
		{name: "negative offset", limit: 20, offset: -5, wantLimit: 20, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)

			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
