package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"launchtracker/internal/domain"
)

// --- Assets ---

const assetColumns = `id, plan_id, title, type, url, linked_task_id, linked_date, notes, created_at`

// ListAssets returns a plan's assets, newest first.
func (s *Store) ListAssets(ctx context.Context, planID int64) ([]domain.Asset, error) {
	ctx, span := tracer.Start(ctx, "Store.ListAssets")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE plan_id = ? ORDER BY created_at DESC, id DESC`, planID)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []domain.Asset{}
	for rows.Next() {
		var a domain.Asset
		err := rows.Scan(&a.ID, &a.PlanID, &a.Title, &a.Type, &a.URL, &a.LinkedTaskID,
			&a.LinkedDate, &a.Notes, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// CreateAsset inserts a launch artifact.
func (s *Store) CreateAsset(ctx context.Context, planID int64, in domain.CreateAssetInput) (*domain.Asset, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateAsset")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (plan_id, title, type, url, linked_task_id, linked_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		planID, in.Title, in.Type, in.URL, in.LinkedTaskID, in.LinkedDate, in.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("asset id: %w", err)
	}

	var a domain.Asset
	row := s.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	err = row.Scan(&a.ID, &a.PlanID, &a.Title, &a.Type, &a.URL, &a.LinkedTaskID,
		&a.LinkedDate, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}

// DeleteAsset removes an asset.
func (s *Store) DeleteAsset(ctx context.Context, planID, assetID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteAsset")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assets WHERE id = ? AND plan_id = ?`, assetID, planID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "asset", ID: assetID}
	}
	return nil
}

// --- Notes ---

const noteColumns = `id, plan_id, linked_type, linked_id, content, created_at`

// ListNotes returns a plan's notes, optionally narrowed to one linked entity,
// newest first.
func (s *Store) ListNotes(ctx context.Context, planID int64, f domain.NoteFilter) ([]domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Store.ListNotes")
	defer span.End()

	where := []string{"plan_id = ?"}
	args := []any{planID}

	if f.LinkedType != "" {
		where = append(where, "linked_type = ?")
		args = append(args, f.LinkedType)
	}
	if f.LinkedID != "" {
		where = append(where, "linked_id = ?")
		args = append(args, f.LinkedID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE `+strings.Join(where, " AND ")+` ORDER BY created_at DESC, id DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.PlanID, &n.LinkedType, &n.LinkedID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CreateNote inserts an annotation.
func (s *Store) CreateNote(ctx context.Context, planID int64, in domain.CreateNoteInput) (*domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateNote")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (plan_id, linked_type, linked_id, content) VALUES (?, ?, ?, ?)`,
		planID, string(in.LinkedType), in.LinkedID.String(), in.Content)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("note id: %w", err)
	}

	var n domain.Note
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	if err := row.Scan(&n.ID, &n.PlanID, &n.LinkedType, &n.LinkedID, &n.Content, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, planID, noteID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteNote")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND plan_id = ?`, noteID, planID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "note", ID: noteID}
	}
	return nil
}

// ResolveNoteLink verifies that a note's linked entity exists in the plan.
// Day links only need a well-formed date, checked by the caller.
func (s *Store) ResolveNoteLink(ctx context.Context, planID int64, linkedType domain.NoteLinkedType, linkedID int64) error {
	ctx, span := tracer.Start(ctx, "Store.ResolveNoteLink")
	defer span.End()

	var table string
	switch linkedType {
	case domain.NoteOnTask:
		table = "tasks"
	case domain.NoteOnKpi:
		table = "kpis"
	case domain.NoteOnContact:
		table = "contacts"
	default:
		return nil
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE id = ? AND plan_id = ?`, linkedID, planID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ErrNotFound{Resource: string(linkedType), ID: linkedID}
	}
	if err != nil {
		return fmt.Errorf("resolve note link: %w", err)
	}
	return nil
}
