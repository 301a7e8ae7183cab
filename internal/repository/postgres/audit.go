package postgres

import (
	"context"
	"database/sql"

	"github.com/ignite/phishsim/internal/pkg/logger"
)

// AuditRepo implements audit.Logger against the error_logs table. Writes
// are best-effort: a failed insert is reported to the process log and
// swallowed, never propagated to the caller.
type AuditRepo struct{ db *sql.DB }

// NewAuditRepo creates a Postgres-backed audit logger.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Record(ctx context.Context, component, message, detail string) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO error_logs (component, error_message, detail)
		VALUES ($1, $2, $3)
	`, component, message, detail)
	if err != nil {
		logger.Warn("audit record failed", "component", component, "err", err)
	}
}
