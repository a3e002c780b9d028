package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/domain"
)

type PropertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Get(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, address, notes, created_at, updated_at
		FROM properties WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, address, notes, created_at, updated_at
		FROM properties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, type, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		p.ID, p.Name, p.Type, p.Address, p.Notes,
	)
	return err
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE properties SET name = $2, type = $3, address = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Type, p.Address, p.Notes,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
