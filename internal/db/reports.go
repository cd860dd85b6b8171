package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultListLimit = 50

// SaveReport stores a finished report. An existing row with the same ID is replaced.
func (db *DB) SaveReport(ctx context.Context, r *Report) error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("report id is required")
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO reports (id, session_id, kind, client, file_name, pages, warnings, plan_text, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			file_name = $5, pages = $6, warnings = $7, plan_text = $8, content = $9, created_at = NOW()
		 RETURNING created_at`,
		r.ID, r.SessionID, r.Kind, r.Client, r.FileName, r.Pages, warningsJSON, r.PlanText, r.Content,
	).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID. It returns nil, nil when no row matches.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	var r Report
	var warningsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, session_id, kind, client, file_name, pages, warnings, plan_text, content, created_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.SessionID, &r.Kind, &r.Client, &r.FileName, &r.Pages, &warningsJSON, &r.PlanText, &r.Content, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &r.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	return &r, nil
}

// ListReports returns report summaries, newest first.
func (db *DB) ListReports(ctx context.Context, filters ReportFilters) ([]ReportSummary, error) {
	query, args := buildListQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.Kind, &s.Client, &s.FileName, &s.Pages, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// DeleteReport removes a report. Deleting a missing report is not an error.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

func buildListQuery(f ReportFilters) (string, []any) {
	query := `SELECT id, kind, client, file_name, pages, created_at FROM reports WHERE 1=1`
	var args []any
	if f.Client != "" {
		args = append(args, f.Client)
		query += fmt.Sprintf(" AND client = $%d", len(args))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
