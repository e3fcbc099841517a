// Package store provides the SQLite-backed ledger database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02"

// Store wraps the ledger database.
type Store struct {
	db *sql.DB
}

// DBPath returns the database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "ledger.db")
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(schemaVersion)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recording schema version: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion reads the stored schema version.
func (s *Store) SchemaVersion() (int, error) {
	var v string
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&v); err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// InsertTransactions stores transactions, skipping rows whose
// fingerprint already exists. Returns the number actually inserted,
// which makes re-importing the same statement a no-op.
func (s *Store) InsertTransactions(txs []model.Transaction) (int, error) {
	dbtx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = dbtx.Rollback() }()

	stmt, err := dbtx.Prepare(`INSERT OR IGNORE INTO transactions
		(id, date, name, amount, category, recurring, source, import_file, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, t := range txs {
		recurring := 0
		if t.Recurring {
			recurring = 1
		}
		res, err := stmt.Exec(t.ID, t.Date.Format(dateLayout), t.Name, t.Amount.String(),
			t.Category, recurring, t.Source, t.ImportFile, t.Fingerprint())
		if err != nil {
			return inserted, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	return inserted, dbtx.Commit()
}

// ListTransactions returns transactions in [since, until], oldest first.
// Zero times mean unbounded.
func (s *Store) ListTransactions(since, until time.Time) ([]model.Transaction, error) {
	q := `SELECT id, date, name, amount, category, recurring, source, import_file
		FROM transactions WHERE 1=1`
	var args []any
	if !since.IsZero() {
		q += " AND date >= ?"
		args = append(args, since.Format(dateLayout))
	}
	if !until.IsZero() {
		q += " AND date <= ?"
		args = append(args, until.Format(dateLayout))
	}
	q += " ORDER BY date ASC, id ASC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, amountStr string
		var recurring int
		var importFile sql.NullString
		if err := rows.Scan(&t.ID, &dateStr, &t.Name, &amountStr, &t.Category,
			&recurring, &t.Source, &importFile); err != nil {
			return nil, err
		}
		t.Date, _ = time.Parse(dateLayout, dateStr)
		t.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for transaction %s: %w", t.ID, err)
		}
		t.Recurring = recurring != 0
		if importFile.Valid {
			t.ImportFile = importFile.String
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTransaction removes one transaction.
func (s *Store) DeleteTransaction(id string) error {
	_, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	return err
}

// SaveSubscription inserts or replaces a subscription.
func (s *Store) SaveSubscription(sub model.Subscription) error {
	active, watch := 0, 0
	if sub.Active {
		active = 1
	}
	if sub.Watchlist {
		watch = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO subscriptions
		(id, service_name, price, frequency, next_payment, active, watchlist, category, payment_card, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ServiceName, sub.Price.String(), string(sub.Frequency),
		sub.NextPayment.Format(dateLayout), active, watch, sub.Category, sub.PaymentCard,
		sub.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// ListSubscriptions returns all subscriptions, by service name.
func (s *Store) ListSubscriptions() ([]model.Subscription, error) {
	rows, err := s.db.Query(`SELECT id, service_name, price, frequency, next_payment,
		active, watchlist, category, payment_card, created_at
		FROM subscriptions ORDER BY service_name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var priceStr, freqStr, nextStr, createdStr string
		var active, watch int
		var category, card sql.NullString
		if err := rows.Scan(&sub.ID, &sub.ServiceName, &priceStr, &freqStr, &nextStr,
			&active, &watch, &category, &card, &createdStr); err != nil {
			return nil, err
		}
		sub.Price, err = decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt price for subscription %s: %w", sub.ID, err)
		}
		sub.Frequency = model.Frequency(freqStr)
		sub.NextPayment, _ = time.Parse(dateLayout, nextStr)
		sub.Active = active != 0
		sub.Watchlist = watch != 0
		if category.Valid {
			sub.Category = category.String
		}
		if card.Valid {
			sub.PaymentCard = card.String
		}
		sub.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// DeleteSubscription removes one subscription.
func (s *Store) DeleteSubscription(id string) error {
	_, err := s.db.Exec("DELETE FROM subscriptions WHERE id = ?", id)
	return err
}

// SaveDebt inserts or replaces a debt account.
func (s *Store) SaveDebt(d model.DebtAccount) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO debts
		(id, creditor, kind, balance, apr, minimum_payment)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Creditor, d.Kind, d.Balance.String(), d.APR, d.MinimumPayment.String())
	return err
}

// ListDebts returns all debt accounts, largest balance first.
func (s *Store) ListDebts() ([]model.DebtAccount, error) {
	rows, err := s.db.Query(`SELECT id, creditor, kind, balance, apr, minimum_payment
		FROM debts ORDER BY CAST(balance AS REAL) DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.DebtAccount
	for rows.Next() {
		var d model.DebtAccount
		var balStr, minStr string
		if err := rows.Scan(&d.ID, &d.Creditor, &d.Kind, &balStr, &d.APR, &minStr); err != nil {
			return nil, err
		}
		d.Balance, err = decimal.NewFromString(balStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance for debt %s: %w", d.ID, err)
		}
		d.MinimumPayment, err = decimal.NewFromString(minStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt minimum for debt %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDebt removes a debt account and its payments.
func (s *Store) DeleteDebt(id string) error {
	_, err := s.db.Exec("DELETE FROM debts WHERE id = ?", id)
	return err
}

// SaveDebtPayment records a payment against a debt.
func (s *Store) SaveDebtPayment(p model.DebtPayment) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO debt_payments
		(id, debt_id, creditor, amount, date) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.DebtID, p.Creditor, p.Amount.String(), p.Date.Format(dateLayout))
	return err
}

// ListDebtPayments returns payments in [since, until], oldest first.
func (s *Store) ListDebtPayments(since, until time.Time) ([]model.DebtPayment, error) {
	q := `SELECT id, debt_id, creditor, amount, date FROM debt_payments WHERE 1=1`
	var args []any
	if !since.IsZero() {
		q += " AND date >= ?"
		args = append(args, since.Format(dateLayout))
	}
	if !until.IsZero() {
		q += " AND date <= ?"
		args = append(args, until.Format(dateLayout))
	}
	q += " ORDER BY date ASC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.DebtPayment
	for rows.Next() {
		var p model.DebtPayment
		var amountStr, dateStr string
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Creditor, &amountStr, &dateStr); err != nil {
			return nil, err
		}
		p.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for payment %s: %w", p.ID, err)
		}
		p.Date, _ = time.Parse(dateLayout, dateStr)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveIncome inserts or replaces an income source.
func (s *Store) SaveIncome(in model.IncomeSource) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO incomes
		(id, name, amount, frequency) VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, in.Amount.String(), string(in.Frequency))
	return err
}

// ListIncomes returns all income sources.
func (s *Store) ListIncomes() ([]model.IncomeSource, error) {
	rows, err := s.db.Query(`SELECT id, name, amount, frequency FROM incomes ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.IncomeSource
	for rows.Next() {
		var in model.IncomeSource
		var amountStr, freqStr string
		if err := rows.Scan(&in.ID, &in.Name, &amountStr, &freqStr); err != nil {
			return nil, err
		}
		in.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for income %s: %w", in.ID, err)
		}
		in.Frequency = model.Frequency(freqStr)
		out = append(out, in)
	}
	return out, rows.Err()
}

// DeleteIncome removes an income source.
func (s *Store) DeleteIncome(id string) error {
	_, err := s.db.Exec("DELETE FROM incomes WHERE id = ?", id)
	return err
}

// ReplaceAnomalies overwrites the stored anomaly history with the
// latest detection run.
func (s *Store) ReplaceAnomalies(anomalies []model.Anomaly) error {
	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = dbtx.Rollback() }()

	if _, err := dbtx.Exec("DELETE FROM anomaly_history"); err != nil {
		return err
	}
	for _, a := range anomalies {
		_, err := dbtx.Exec(`INSERT INTO anomaly_history
			(id, transaction_id, kind, severity, z_score, expected_amount, amount, category, name, date, detected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.TransactionID, a.Kind, a.Severity, a.ZScore,
			a.ExpectedAmount.String(), a.Amount.String(), a.Category, a.Name,
			a.Date.Format(dateLayout), a.DetectedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return dbtx.Commit()
}

// ListAnomalies returns the stored anomaly history, newest first.
func (s *Store) ListAnomalies() ([]model.Anomaly, error) {
	rows, err := s.db.Query(`SELECT id, transaction_id, kind, severity, z_score,
		expected_amount, amount, category, name, date, detected_at
		FROM anomaly_history ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Anomaly
	for rows.Next() {
		var a model.Anomaly
		var expStr, amtStr, dateStr, detStr string
		if err := rows.Scan(&a.ID, &a.TransactionID, &a.Kind, &a.Severity, &a.ZScore,
			&expStr, &amtStr, &a.Category, &a.Name, &dateStr, &detStr); err != nil {
			return nil, err
		}
		a.ExpectedAmount, err = decimal.NewFromString(expStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt expected amount for anomaly %s: %w", a.ID, err)
		}
		a.Amount, err = decimal.NewFromString(amtStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for anomaly %s: %w", a.ID, err)
		}
		a.Date, _ = time.Parse(dateLayout, dateStr)
		a.DetectedAt, _ = time.Parse(time.RFC3339, detStr)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ImportFileInfo holds tracking data for an imported statement file.
type ImportFileInfo struct {
	SHA256       string
	MtimeNs      int64
	SizeBytes    int64
	RowsTotal    int
	RowsImported int
}

// GetTrackedImports returns file_path -> ImportFileInfo for all
// statements seen by previous imports.
func (s *Store) GetTrackedImports() (map[string]ImportFileInfo, error) {
	rows, err := s.db.Query(`SELECT file_path, sha256, mtime_ns, size_bytes, rows_total, rows_imported
		FROM import_files`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]ImportFileInfo)
	for rows.Next() {
		var path string
		var fi ImportFileInfo
		if err := rows.Scan(&path, &fi.SHA256, &fi.MtimeNs, &fi.SizeBytes, &fi.RowsTotal, &fi.RowsImported); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveImportFile records tracking data for an imported statement.
func (s *Store) SaveImportFile(path string, fi ImportFileInfo) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO import_files
		(file_path, sha256, mtime_ns, size_bytes, rows_total, rows_imported, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path, fi.SHA256, fi.MtimeNs, fi.SizeBytes, fi.RowsTotal, fi.RowsImported,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// TransactionCount returns the number of stored transactions.
func (s *Store) TransactionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
