package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup to ensure tables exist.
// IMPORTANT: users must be created BEFORE document_batches, and batches BEFORE
// documents and payment_shares, due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS document_batches (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    total_documents INTEGER NOT NULL,
    total_pages INTEGER NOT NULL,
    total_cost REAL NOT NULL,
    price_per_page REAL NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'PENDING',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    batch_id TEXT NOT NULL,
    name TEXT NOT NULL,
    page_count INTEGER NOT NULL CHECK (page_count >= 1),
    cost REAL NOT NULL,
    upload_date INTEGER NOT NULL,
    source_kind TEXT NOT NULL,
    FOREIGN KEY (batch_id) REFERENCES document_batches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payment_shares (
    id TEXT PRIMARY KEY,
    batch_id TEXT NOT NULL,
    person_name TEXT NOT NULL,
    amount_to_pay REAL NOT NULL,
    is_paid INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (batch_id) REFERENCES document_batches(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_document_batches_user_id ON document_batches(user_id);
CREATE INDEX IF NOT EXISTS idx_documents_batch_id ON documents(batch_id);
CREATE INDEX IF NOT EXISTS idx_payment_shares_batch_id ON payment_shares(batch_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
