package postgres

import (
	"context"
	"database/sql"

	"progressapi/internal/model"
	"progressapi/internal/repository"
)

// PackagePostgres reads the packages table. The billing side of the system
// owns writes; the engine only lists.
type PackagePostgres struct {
	db *sql.DB
}

func NewPackagePostgres(db *sql.DB) *PackagePostgres {
	return &PackagePostgres{db: db}
}

var _ repository.PackageProvider = (*PackagePostgres)(nil)

// ListByClient returns the client's packages in display order.
func (r *PackagePostgres) ListByClient(ctx context.Context, clientID string) ([]model.Package, error) {
	const q = `
		SELECT id, client_id, name, position, created_at
		FROM packages
		WHERE client_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Package, 0)
	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Position, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ComponentPostgres reads the components table.
type ComponentPostgres struct {
	db *sql.DB
}

func NewComponentPostgres(db *sql.DB) *ComponentPostgres {
	return &ComponentPostgres{db: db}
}

var _ repository.ComponentProvider = (*ComponentPostgres)(nil)

// ListByClient returns all components across the client's packages.
func (r *ComponentPostgres) ListByClient(ctx context.Context, clientID string) ([]model.Component, error) {
	const q = `
		SELECT id, package_id, client_id, name, created_at
		FROM components
		WHERE client_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Component, 0)
	for rows.Next() {
		var c model.Component
		if err := rows.Scan(&c.ID, &c.PackageID, &c.ClientID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
