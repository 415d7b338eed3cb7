// ABOUTME: SQLite repository for sales reps, deals and audit logs
// ABOUTME: Resolves each deal's sales rep with a second query and commits changes atomically
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nehemiah-ic/rv-takehome/models"
)

// Repository is the pipeline's storage collaborator.
type Repository struct {
	handle *Handle
}

// NewRepository creates a repository over handle. The database is opened on
// the first query.
func NewRepository(handle *Handle) *Repository {
	return &Repository{handle: handle}
}

const salesRepColumns = `id, name, email, territory, active, created_at, updated_at`

const dealColumns = `id, deal_id, company_name, contact_name, transportation_mode, stage, value,
	probability, created_date, updated_date, expected_close_date, sales_rep_id,
	origin_city, destination_city, cargo_type, territory`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSalesRep(row rowScanner) (*models.SalesRep, error) {
	var rep models.SalesRep
	var email, territory sql.NullString
	if err := row.Scan(&rep.ID, &rep.Name, &email, &territory, &rep.Active, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	rep.Email = email.String
	rep.Territory = territory.String
	return &rep, nil
}

func scanDeal(row rowScanner) (models.Deal, error) {
	var d models.Deal
	var repID sql.NullInt64
	var cargo, territory sql.NullString
	err := row.Scan(&d.ID, &d.DealID, &d.CompanyName, &d.ContactName, &d.TransportationMode, &d.Stage, &d.Value,
		&d.Probability, &d.CreatedDate, &d.UpdatedDate, &d.ExpectedCloseDate, &repID,
		&d.OriginCity, &d.DestinationCity, &cargo, &territory)
	if err != nil {
		return d, err
	}
	d.SalesRepID = repID.Int64
	d.CargoType = cargo.String
	d.Territory = territory.String
	return d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// FindSalesRepByName returns the rep with the exact name, or nil.
func (r *Repository) FindSalesRepByName(ctx context.Context, name string) (*models.SalesRep, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `SELECT `+salesRepColumns+` FROM sales_reps WHERE name = ?`, name)
	rep, err := scanSalesRep(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *Repository) ListSalesReps(ctx context.Context) ([]models.SalesRep, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT `+salesRepColumns+` FROM sales_reps ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []models.SalesRep
	for rows.Next() {
		rep, err := scanSalesRep(rows)
		if err != nil {
			return nil, err
		}
		reps = append(reps, *rep)
	}
	return reps, rows.Err()
}

// CreateSalesRep inserts rep and sets its id and timestamps.
func (r *Repository) CreateSalesRep(ctx context.Context, rep *models.SalesRep) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}
	return insertSalesRep(ctx, db, rep)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSalesRep(ctx context.Context, x execer, rep *models.SalesRep) error {
	now := time.Now().UTC()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	res, err := x.ExecContext(ctx, `
		INSERT INTO sales_reps (name, email, territory, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rep.Name, nullString(rep.Email), nullString(rep.Territory), rep.Active, rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		return err
	}
	rep.ID, err = res.LastInsertId()
	return err
}

// CreateDeal inserts deal and sets its id. The SalesRep pointer is ignored;
// SalesRepID is what gets stored.
func (r *Repository) CreateDeal(ctx context.Context, deal *models.Deal) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}
	return insertDeal(ctx, db, deal)
}

func insertDeal(ctx context.Context, x execer, deal *models.Deal) error {
	res, err := x.ExecContext(ctx, `
		INSERT INTO deals (deal_id, company_name, contact_name, transportation_mode, stage, value,
			probability, created_date, updated_date, expected_close_date, sales_rep_id,
			origin_city, destination_city, cargo_type, territory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deal.DealID, deal.CompanyName, deal.ContactName, deal.TransportationMode, deal.Stage, deal.Value.String(),
		deal.Probability, deal.CreatedDate, deal.UpdatedDate, deal.ExpectedCloseDate, nullID(deal.SalesRepID),
		deal.OriginCity, deal.DestinationCity, nullString(deal.CargoType), nullString(deal.Territory))
	if err != nil {
		return err
	}
	deal.ID, err = res.LastInsertId()
	return err
}

// queryDeals runs a deal query and then resolves every referenced sales rep
// with one follow-up query.
func (r *Repository) queryDeals(ctx context.Context, query string, args ...any) ([]models.Deal, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := resolveSalesReps(ctx, db, deals); err != nil {
		return nil, fmt.Errorf("failed to resolve sales reps: %w", err)
	}
	return deals, nil
}

func resolveSalesReps(ctx context.Context, db *sql.DB, deals []models.Deal) error {
	seen := make(map[int64]struct{})
	var ids []any
	for _, d := range deals {
		if d.SalesRepID == 0 {
			continue
		}
		if _, ok := seen[d.SalesRepID]; ok {
			continue
		}
		seen[d.SalesRepID] = struct{}{}
		ids = append(ids, d.SalesRepID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+salesRepColumns+` FROM sales_reps WHERE id IN (`+placeholders(len(ids))+`)`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	reps := make(map[int64]*models.SalesRep, len(ids))
	for rows.Next() {
		rep, err := scanSalesRep(rows)
		if err != nil {
			return err
		}
		reps[rep.ID] = rep
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range deals {
		deals[i].SalesRep = reps[deals[i].SalesRepID]
	}
	return nil
}

// GetDeal returns one deal with its sales rep, or nil.
func (r *Repository) GetDeal(ctx context.Context, id int64) (*models.Deal, error) {
	deals, err := r.queryDeals(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, nil
	}
	return &deals[0], nil
}

// FindDealsByIDs returns the deals that exist among ids. Missing ids are
// simply absent from the result.
func (r *Repository) FindDealsByIDs(ctx context.Context, ids []int64) ([]models.Deal, error) {
	if len(ids) == 0 {
		return []models.Deal{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryDeals(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id`, args...)
}

func (r *Repository) FindAllDeals(ctx context.Context) ([]models.Deal, error) {
	return r.queryDeals(ctx, `SELECT `+dealColumns+` FROM deals ORDER BY id`)
}

// CommitChanges saves updated deals and their audit entries in one
// transaction. Either everything is written or nothing is.
func (r *Repository) CommitChanges(ctx context.Context, deals []models.Deal, entries []models.AuditLog) error {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range deals {
		res, err := tx.ExecContext(ctx, `
			UPDATE deals
			SET sales_rep_id = ?, territory = ?, updated_date = ?
			WHERE id = ?
		`, nullID(d.SalesRepID), nullString(d.Territory), d.UpdatedDate, d.ID)
		if err != nil {
			return fmt.Errorf("failed to update deal %s: %w", d.DealID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("deal %d vanished during update", d.ID)
		}
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO audit_logs (deal_id, deal_identifier, field_changed, old_value, new_value,
				changed_by, reason, changed_at, change_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.DealID, e.DealIdentifier, e.FieldChanged, e.OldValue, e.NewValue,
			e.ChangedBy, nullString(e.Reason), e.ChangedAt, e.ChangeType)
		if err != nil {
			return fmt.Errorf("failed to write audit entry for %s: %w", e.DealIdentifier, err)
		}
	}

	return tx.Commit()
}

// FindAuditLogs returns up to limit entries, newest first, optionally only
// those for one deal.
func (r *Repository) FindAuditLogs(ctx context.Context, dealID *int64, limit int) ([]models.AuditLog, error) {
	db, err := r.handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, deal_id, deal_identifier, field_changed, old_value, new_value,
			changed_by, reason, changed_at, change_type
		FROM audit_logs`
	var args []any
	if dealID != nil {
		query += ` WHERE deal_id = ?`
		args = append(args, *dealID)
	}
	query += ` ORDER BY changed_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		var oldValue, newValue, reason sql.NullString
		if err := rows.Scan(&l.ID, &l.DealID, &l.DealIdentifier, &l.FieldChanged, &oldValue, &newValue,
			&l.ChangedBy, &reason, &l.ChangedAt, &l.ChangeType); err != nil {
			return nil, err
		}
		if oldValue.Valid {
			l.OldValue = &oldValue.String
		}
		if newValue.Valid {
			l.NewValue = &newValue.String
		}
		l.Reason = reason.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
