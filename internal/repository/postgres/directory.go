package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/phishsim/internal/directory"
	"github.com/ignite/phishsim/internal/domain"
)

// DirectoryRepo implements directory.Directory against PostgreSQL. The
// simulator core only reads through it; recipient/campaign management is
// owned by the admin tooling.
type DirectoryRepo struct{ db *sql.DB }

// NewDirectoryRepo creates a Postgres-backed recipient/campaign directory.
func NewDirectoryRepo(db *sql.DB) *DirectoryRepo { return &DirectoryRepo{db: db} }

func (r *DirectoryRepo) ListActiveRecipients(ctx context.Context) ([]domain.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recipient_id, first_name, last_name, email, phone,
		       COALESCE(company_name,''), is_active, created_at
		FROM recipients
		WHERE is_active
		ORDER BY recipient_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list active recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(
			&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Phone,
			&rec.Company, &rec.Active, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *DirectoryRepo) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT campaign_id, COALESCE(name,''), message, created_at
		FROM campaigns
		WHERE campaign_id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Message, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, directory.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}
