package domain

import (
	"errors"
	"testing"
)

func TestTransfer_Validate(t *testing.T) {
	tests := []struct {
		name        string
		transfer    Transfer
		expectError error
	}{
		{
			name:     "valid",
			transfer: Transfer{SourceID: "a", DestinationID: "b", Amount: 40},
		},
		{
			name:        "zero amount",
			transfer:    Transfer{SourceID: "a", DestinationID: "b", Amount: 0},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			transfer:    Transfer{SourceID: "a", DestinationID: "b", Amount: -10},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "self transfer",
			transfer:    Transfer{SourceID: "a", DestinationID: "a", Amount: 40},
			expectError: ErrSameCustomer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transfer.Validate()

			if tt.expectError == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransfer_Legs(t *testing.T) {
	tr := Transfer{SourceID: "a", DestinationID: "b", Amount: 40}

	debit, credit := tr.Legs()

	if debit != -40 || credit != 40 {
		t.Errorf("Legs() = (%d, %d), want (-40, 40)", debit, credit)
	}

	// Conservation: the pair sums to zero.
	if debit+credit != 0 {
		t.Errorf("legs do not conserve value: %d", debit+credit)
	}
}

func TestTransfer_IsSettled(t *testing.T) {
	tests := []struct {
		status TransferStatus
		want   bool
	}{
		{TransferStatusPending, false},
		{TransferStatusApplied, true},
		{TransferStatusFailed, true},
	}

	for _, tt := range tests {
		tr := Transfer{Status: tt.status}
		if got := tr.IsSettled(); got != tt.want {
			t.Errorf("IsSettled() with %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
