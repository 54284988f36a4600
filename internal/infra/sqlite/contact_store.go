package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"launchtracker/internal/domain"
)

const contactColumns = `id, plan_id, email, name, segment, status, tags, notes, created_at, updated_at`

// ListContacts returns a plan's contacts, optionally filtered by segment and
// funnel status, newest first.
func (s *Store) ListContacts(ctx context.Context, planID int64, f domain.ContactFilter) ([]domain.Contact, error) {
	ctx, span := tracer.Start(ctx, "Store.ListContacts")
	defer span.End()

	where := []string{"plan_id = ?"}
	args := []any{planID}

	if f.Segment != "" {
		where = append(where, "segment = ?")
		args = append(args, f.Segment)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE `+strings.Join(where, " AND ")+` ORDER BY created_at DESC, id DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// GetContact fetches one contact scoped to its plan.
func (s *Store) GetContact(ctx context.Context, planID, contactID int64) (*domain.Contact, error) {
	ctx, span := tracer.Start(ctx, "Store.GetContact")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND plan_id = ?`, contactID, planID)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "contact", ID: contactID}
	}
	return c, err
}

// CreateContact inserts a contact; email is unique per plan.
func (s *Store) CreateContact(ctx context.Context, planID int64, in domain.CreateContactInput) (*domain.Contact, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateContact")
	defer span.End()

	status := in.Status
	if status == "" {
		status = domain.ContactNotContacted
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (plan_id, email, name, segment, status, tags, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		planID, in.Email, in.Name, string(in.Segment), string(status), encodeList(in.Tags), in.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ErrConflict{Message: "Contact with this email already exists in the plan"}
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("contact id: %w", err)
	}
	return s.GetContact(ctx, planID, id)
}

// UpdateContact applies the non-nil fields of in to a contact.
func (s *Store) UpdateContact(ctx context.Context, planID, contactID int64, in domain.UpdateContactInput) (*domain.Contact, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateContact")
	defer span.End()

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if in.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *in.Email)
	}
	if in.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Segment != nil {
		set = append(set, "segment = ?")
		args = append(args, string(*in.Segment))
	}
	if in.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*in.Status))
	}
	if in.Tags != nil {
		set = append(set, "tags = ?")
		args = append(args, encodeList(in.Tags))
	}
	if in.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *in.Notes)
	}

	args = append(args, contactID, planID)
	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = ? AND plan_id = ?`, strings.Join(set, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ErrConflict{Message: "Contact with this email already exists in the plan"}
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "contact", ID: contactID}
	}
	return s.GetContact(ctx, planID, contactID)
}

// DeleteContact removes a contact; its outreach events cascade.
func (s *Store) DeleteContact(ctx context.Context, planID, contactID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteContact")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND plan_id = ?`, contactID, planID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "contact", ID: contactID}
	}
	return nil
}

// ImportContacts bulk-inserts contacts in one transaction, skipping emails
// already present in the plan. Returns how many were imported vs skipped.
func (s *Store) ImportContacts(ctx context.Context, planID int64, items []domain.ImportContact) (imported, skipped int, err error) {
	ctx, span := tracer.Start(ctx, "Store.ImportContacts")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range items {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO contacts (plan_id, email, name, segment, tags) VALUES (?, ?, ?, ?, ?)`,
			planID, c.Email, c.Name, string(c.Segment), encodeList(c.Tags))
		if err != nil {
			return 0, 0, fmt.Errorf("import contact: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit import: %w", err)
	}
	return imported, skipped, nil
}

// MarkContacted advances a contact from not_contacted to contacted; any
// later funnel status is left alone.
func (s *Store) MarkContacted(ctx context.Context, planID, contactID int64) error {
	ctx, span := tracer.Start(ctx, "Store.MarkContacted")
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET status = 'contacted', updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND plan_id = ? AND status = 'not_contacted'`, contactID, planID)
	if err != nil {
		return fmt.Errorf("mark contacted: %w", err)
	}
	return nil
}

// FunnelStats aggregates the outreach funnel per segment for the report.
func (s *Store) FunnelStats(ctx context.Context, planID int64) ([]domain.FunnelSegmentStats, error) {
	ctx, span := tracer.Start(ctx, "Store.FunnelStats")
	defer span.End()

	query := fmt.Sprintf(`SELECT segment, count(*), %s, %s, %s
		FROM contacts WHERE plan_id = ? GROUP BY segment ORDER BY segment ASC`,
		countWhere("status != 'not_contacted'"),
		countWhere("status IN ('replied','booked_call','started_trial','paid_starter','paid_pro')"),
		countWhere("status IN ('paid_starter','paid_pro')"),
	)

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("query funnel stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.FunnelSegmentStats{}
	for rows.Next() {
		var st domain.FunnelSegmentStats
		if err := rows.Scan(&st.Segment, &st.Total, &st.Contacted, &st.Replied, &st.Converted); err != nil {
			return nil, fmt.Errorf("scan funnel stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// --- Outreach events ---

// ListOutreachEvents returns a plan's outreach log, newest date first, each
// event carrying its contact.
func (s *Store) ListOutreachEvents(ctx context.Context, planID int64) ([]domain.OutreachEvent, error) {
	ctx, span := tracer.Start(ctx, "Store.ListOutreachEvents")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.plan_id, e.contact_id, e.date, e.channel, e.template_key, e.outcome, e.notes, e.created_at,
			c.id, c.plan_id, c.email, c.name, c.segment, c.status, c.tags, c.notes, c.created_at, c.updated_at
		 FROM outreach_events e JOIN contacts c ON c.id = e.contact_id
		 WHERE e.plan_id = ? ORDER BY e.date DESC, e.id DESC`, planID)
	if err != nil {
		return nil, fmt.Errorf("query outreach events: %w", err)
	}
	defer rows.Close()

	events := []domain.OutreachEvent{}
	for rows.Next() {
		var e domain.OutreachEvent
		var c domain.Contact
		var tags string
		err := rows.Scan(&e.ID, &e.PlanID, &e.ContactID, &e.Date, &e.Channel, &e.TemplateKey, &e.Outcome, &e.Notes, &e.CreatedAt,
			&c.ID, &c.PlanID, &c.Email, &c.Name, &c.Segment, &c.Status, &tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan outreach event: %w", err)
		}
		c.Tags = decodeList(tags)
		e.Contact = &c
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateOutreachEvent logs one touch on a contact in the plan.
func (s *Store) CreateOutreachEvent(ctx context.Context, planID int64, in domain.CreateOutreachEventInput) (*domain.OutreachEvent, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateOutreachEvent")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_events (plan_id, contact_id, date, channel, template_key, outcome, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		planID, in.ContactID, in.Date, string(in.Channel), in.TemplateKey, string(in.Outcome), in.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert outreach event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("outreach event id: %w", err)
	}

	var e domain.OutreachEvent
	row := s.db.QueryRowContext(ctx,
		`SELECT id, plan_id, contact_id, date, channel, template_key, outcome, notes, created_at
		 FROM outreach_events WHERE id = ?`, id)
	err = row.Scan(&e.ID, &e.PlanID, &e.ContactID, &e.Date, &e.Channel, &e.TemplateKey, &e.Outcome, &e.Notes, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan outreach event: %w", err)
	}
	return &e, nil
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var tags string
	err := row.Scan(&c.ID, &c.PlanID, &c.Email, &c.Name, &c.Segment, &c.Status,
		&tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	c.Tags = decodeList(tags)
	return &c, nil
}
