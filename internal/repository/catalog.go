package repository

import (
	"context"

	"progressapi/internal/model"
)

// PackageProvider lists a client's purchased packages (invoices) in the
// client's display order. Package CRUD belongs to the billing side of the
// system; the engine only reads.
type PackageProvider interface {
	ListByClient(ctx context.Context, clientID string) ([]model.Package, error)
}

// ComponentProvider lists a client's package components. Read-only for the
// same reason.
type ComponentProvider interface {
	ListByClient(ctx context.Context, clientID string) ([]model.Component, error)
}
