// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ToastKind is the severity of a toast notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is a transient notification shown to the user and dismissed
// automatically once ExpiresAt has passed.
type Toast struct {
	ID        uint64    `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Kind      ToastKind `json:"kind" yaml:"kind"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Expired reports whether the toast should no longer be displayed at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
