package postgres

import (
	"context"
	"database/sql"

	"progressapi/internal/model"
	"progressapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, client_id, name, url, storage_key, size, content_type, uploaded_by, created_at`

func scanFile(row rowScanner) (*model.AttachedFile, error) {
	var f model.AttachedFile
	if err := row.Scan(
		&f.ID, &f.ClientID, &f.Name, &f.URL, &f.StorageKey,
		&f.Size, &f.ContentType, &f.UploadedBy, &f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByClient returns the client's files in creation order.
func (r *FilePostgres) ListByClient(ctx context.Context, clientID string) ([]model.AttachedFile, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM client_files
		WHERE client_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AttachedFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single file record by id.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.AttachedFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM client_files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new file record and returns the stored row.
func (r *FilePostgres) Create(ctx context.Context, f *model.AttachedFile) (*model.AttachedFile, error) {
	const q = `
		INSERT INTO client_files (id, client_id, name, url, storage_key, size, content_type, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fileColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID, f.ClientID, f.Name, f.URL, f.StorageKey,
		f.Size, f.ContentType, f.UploadedBy, f.CreatedAt,
	)
	return scanFile(row)
}

// Delete removes a file record by id. Missing rows are not an error.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM client_files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// LinkPostgres is a PostgreSQL implementation of repository.LinkRepository.
type LinkPostgres struct {
	db *sql.DB
}

func NewLinkPostgres(db *sql.DB) *LinkPostgres {
	return &LinkPostgres{db: db}
}

var _ repository.LinkRepository = (*LinkPostgres)(nil)

// ListByClient returns the client's links in creation order.
func (r *LinkPostgres) ListByClient(ctx context.Context, clientID string) ([]model.ClientLink, error) {
	const q = `
		SELECT id, client_id, title, url, created_by, created_at
		FROM client_links
		WHERE client_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClientLink, 0)
	for rows.Next() {
		var l model.ClientLink
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Title, &l.URL, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single link by id.
func (r *LinkPostgres) FindByID(ctx context.Context, id string) (*model.ClientLink, error) {
	const q = `
		SELECT id, client_id, title, url, created_by, created_at
		FROM client_links
		WHERE id = $1
	`
	var l model.ClientLink
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&l.ID, &l.ClientID, &l.Title, &l.URL, &l.CreatedBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a new link record and returns the stored row.
func (r *LinkPostgres) Create(ctx context.Context, l *model.ClientLink) (*model.ClientLink, error) {
	const q = `
		INSERT INTO client_links (id, client_id, title, url, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, client_id, title, url, created_by, created_at
	`
	var out model.ClientLink
	err := r.db.QueryRowContext(ctx, q,
		l.ID, l.ClientID, l.Title, l.URL, l.CreatedBy, l.CreatedAt,
	).Scan(&out.ID, &out.ClientID, &out.Title, &out.URL, &out.CreatedBy, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a link by id. Missing rows are not an error.
func (r *LinkPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM client_links WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
