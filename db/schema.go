// ABOUTME: Database schema definitions
// ABOUTME: Sales reps, deals and the append-only audit log
package db

import (
	"database/sql"
)

// Deal values are stored as decimal text so totals never pass through float.
const schema = `
CREATE TABLE IF NOT EXISTS sales_reps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	email TEXT,
	territory TEXT,
	active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS deals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	deal_id TEXT NOT NULL,
	company_name TEXT NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	transportation_mode TEXT NOT NULL DEFAULT '',
	stage TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '0',
	probability INTEGER NOT NULL DEFAULT 0,
	created_date TEXT NOT NULL,
	updated_date TEXT NOT NULL,
	expected_close_date TEXT NOT NULL DEFAULT '',
	sales_rep_id INTEGER,
	origin_city TEXT NOT NULL DEFAULT '',
	destination_city TEXT NOT NULL DEFAULT '',
	cargo_type TEXT,
	territory TEXT,
	FOREIGN KEY (sales_rep_id) REFERENCES sales_reps(id)
);

CREATE INDEX IF NOT EXISTS idx_deals_sales_rep_id ON deals(sales_rep_id);
CREATE INDEX IF NOT EXISTS idx_deals_territory ON deals(territory);

CREATE TABLE IF NOT EXISTS audit_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	deal_id INTEGER NOT NULL,
	deal_identifier TEXT NOT NULL,
	field_changed TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT,
	changed_by TEXT NOT NULL,
	reason TEXT,
	changed_at DATETIME NOT NULL,
	change_type TEXT NOT NULL DEFAULT 'manual' CHECK(change_type IN ('manual', 'bulk', 'system'))
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_deal_id ON audit_logs(deal_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_changed_at ON audit_logs(changed_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
