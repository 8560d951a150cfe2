package domain

import (
	"testing"
	"time"
)

func TestNewValidity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	v := NewValidity(now)

	if !v.IsValid {
		t.Error("expected new validity to be valid")
	}

	if !v.CreatedAt.Equal(now) || !v.UpdatedAt.Equal(now) {
		t.Errorf("expected both timestamps to equal %v, got created=%v updated=%v", now, v.CreatedAt, v.UpdatedAt)
	}
}

func TestValidity_Invalidate(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	v := NewValidity(created)
	v.Invalidate(later)

	if v.IsValid {
		t.Error("expected validity to be invalid after Invalidate")
	}

	if !v.UpdatedAt.Equal(later) {
		t.Errorf("expected UpdatedAt %v, got %v", later, v.UpdatedAt)
	}

	if !v.CreatedAt.Equal(created) {
		t.Error("CreatedAt must not change on Invalidate")
	}
}

func TestValidity_InvalidateTwiceAdvancesUpdatedAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := created.Add(time.Hour)
	second := created.Add(2 * time.Hour)

	v := NewValidity(created)
	v.Invalidate(first)
	v.Invalidate(second)

	if v.IsValid {
		t.Error("expected validity to stay invalid")
	}

	// Repeated invalidation is a no-op on IsValid but still advances
	// UpdatedAt.
	if !v.UpdatedAt.Equal(second) {
		t.Errorf("expected UpdatedAt %v, got %v", second, v.UpdatedAt)
	}
}

func TestValidity_Touch(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)

	v := NewValidity(created)
	v.Touch(later)

	if !v.IsValid {
		t.Error("Touch must not change validity")
	}

	if !v.UpdatedAt.Equal(later) {
		t.Errorf("expected UpdatedAt %v, got %v", later, v.UpdatedAt)
	}
}
