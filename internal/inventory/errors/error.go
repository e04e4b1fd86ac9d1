// Package errors provides custom error types for inventory operations.
package errors

import "errors"

var (
	// ErrRecordNotFound is returned when no inventory record exists for a product.
	ErrRecordNotFound = errors.New("inventory record not found")

	// ErrInsufficientStock is returned when a stock adjustment would drive the
	// stored stock level below zero. The stored value is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
)
