package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new submission. Document URLs are stored as a JSON
// array to keep input order.
func (r *PGRepo) Create(ctx context.Context, sub Submission) error {
	const query = `
INSERT INTO tax_submissions (
    id,
    business_name,
    owner_name,
    email,
    phone,
    location,
    business_type,
    preparer_name,
    document_urls,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var urls any
	if len(sub.DocumentURLs) > 0 {
		encoded, err := json.Marshal(sub.DocumentURLs)
		if err != nil {
			return fmt.Errorf("encode document urls: %w", err)
		}
		urls = encoded
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.BusinessName,
		sub.OwnerName,
		sub.Email,
		sub.Phone,
		sub.Location,
		sub.BusinessType,
		sub.PreparerName,
		urls,
		sub.CreatedAt,
	)
	return err
}

// ListAll returns every submission, newest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Submission, error) {
	const query = `
SELECT id, business_name, owner_name, email, phone, location, business_type, preparer_name, document_urls, created_at
FROM tax_submissions
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var urls []byte
		if err := rows.Scan(
			&sub.ID,
			&sub.BusinessName,
			&sub.OwnerName,
			&sub.Email,
			&sub.Phone,
			&sub.Location,
			&sub.BusinessType,
			&sub.PreparerName,
			&urls,
			&sub.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			if err := json.Unmarshal(urls, &sub.DocumentURLs); err != nil {
				return nil, fmt.Errorf("decode document urls for %s: %w", sub.ID, err)
			}
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
