package store

// schemaVersion is recorded in meta on open. Bump when the schema
// changes in a way existing databases must migrate through.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT PRIMARY KEY,
    date                 TEXT NOT NULL,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT NOT NULL,
    recurring            INTEGER NOT NULL DEFAULT 0,
    source               TEXT NOT NULL,
    import_file          TEXT,
    fingerprint          TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tx_fingerprint ON transactions(fingerprint);
CREATE INDEX IF NOT EXISTS idx_tx_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_tx_category ON transactions(category);

CREATE TABLE IF NOT EXISTS subscriptions (
    id                   TEXT PRIMARY KEY,
    service_name         TEXT NOT NULL,
    price                TEXT NOT NULL,
    frequency            TEXT NOT NULL,
    next_payment         TEXT NOT NULL,
    active               INTEGER NOT NULL DEFAULT 1,
    watchlist            INTEGER NOT NULL DEFAULT 0,
    category             TEXT,
    payment_card         TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    id                   TEXT PRIMARY KEY,
    creditor             TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    balance              TEXT NOT NULL,
    apr                  REAL NOT NULL,
    minimum_payment      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debt_payments (
    id                   TEXT PRIMARY KEY,
    debt_id              TEXT NOT NULL REFERENCES debts(id) ON DELETE CASCADE,
    creditor             TEXT NOT NULL,
    amount               TEXT NOT NULL,
    date                 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS incomes (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    frequency            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS anomaly_history (
    id                   TEXT PRIMARY KEY,
    transaction_id       TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    severity             TEXT NOT NULL,
    z_score              REAL NOT NULL,
    expected_amount      TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT NOT NULL,
    name                 TEXT NOT NULL,
    date                 TEXT NOT NULL,
    detected_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_anomaly_detected ON anomaly_history(detected_at);

CREATE TABLE IF NOT EXISTS import_files (
    file_path            TEXT PRIMARY KEY,
    sha256               TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    rows_total           INTEGER NOT NULL,
    rows_imported        INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);
`
