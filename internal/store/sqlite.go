package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the portfolio to a SQLite database. Money columns
// are stored as decimal strings so values round-trip exactly.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id                       INTEGER PRIMARY KEY AUTOINCREMENT,
			name                     TEXT NOT NULL,
			address                  TEXT NOT NULL,
			type                     TEXT NOT NULL CHECK (type IN ('HDB', 'Condo', 'Landed')),
			purchase_price           TEXT NOT NULL,
			purchase_date            TEXT NOT NULL,
			stamp_duty               TEXT NOT NULL DEFAULT '0',
			renovation_cost          TEXT NOT NULL DEFAULT '0',
			agent_fees               TEXT NOT NULL DEFAULT '0',
			current_value            TEXT NOT NULL DEFAULT '0',
			cpf_amount               TEXT NOT NULL DEFAULT '0',
			mortgage_amount          TEXT NOT NULL DEFAULT '0',
			mortgage_interest_rate   TEXT NOT NULL DEFAULT '0',
			mortgage_tenure          INTEGER NOT NULL DEFAULT 0,
			monthly_rental           TEXT NOT NULL DEFAULT '0',
			target_profit_percentage TEXT NOT NULL DEFAULT '0',
			target_profit_alert_sent INTEGER NOT NULL DEFAULT 0,
			created_at               INTEGER NOT NULL,
			updated_at               INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_purchase_date ON properties(purchase_date)`,

		`CREATE TABLE IF NOT EXISTS refinances (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id    INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			refinance_date TEXT NOT NULL,
			loan_amount    TEXT NOT NULL,
			interest_rate  TEXT NOT NULL,
			tenure         INTEGER NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			created_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refinances_property ON refinances(property_id, refinance_date)`,

		`CREATE TABLE IF NOT EXISTS user_settings (
			id                 INTEGER PRIMARY KEY CHECK (id = 1),
			telegram_bot_token TEXT NOT NULL DEFAULT '',
			telegram_chat_id   TEXT NOT NULL DEFAULT '',
			alerts_enabled     INTEGER NOT NULL DEFAULT 1,
			updated_at         INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

const propertyColumns = `id, name, address, type, purchase_price, purchase_date,
	stamp_duty, renovation_cost, agent_fees, current_value, cpf_amount,
	mortgage_amount, mortgage_interest_rate, mortgage_tenure, monthly_rental,
	target_profit_percentage, target_profit_alert_sent`

// CreateProperty inserts p and its refinances, then sets the assigned IDs on p.
func (s *SQLiteStore) CreateProperty(ctx context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertProperty(ctx, tx, p, false); err != nil {
			return err
		}
		return replaceRefinances(ctx, tx, p)
	})
}

// GetProperty loads one property with its refinances, oldest first.
func (s *SQLiteStore) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}

	refis, err := listRefinances(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	p.Refinances = refis
	return p, nil
}

// ListProperties returns every property with its refinances, ordered by id.
func (s *SQLiteStore) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.queryProperties(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id`)
}

// PropertiesInSSDWindow lists properties whose three-year SSD window has not
// closed before asOf.
func (s *SQLiteStore) PropertiesInSSDWindow(ctx context.Context, asOf time.Time) ([]domain.Property, error) {
	cutoff := dateutil.Format(dateutil.DateOnly(asOf).AddDate(-3, 0, 0))
	return s.queryProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE purchase_date >= ? ORDER BY id`, cutoff)
}

// PropertiesPendingProfitAlert lists properties with a profit target whose
// alert has not been sent yet.
func (s *SQLiteStore) PropertiesPendingProfitAlert(ctx context.Context) ([]domain.Property, error) {
	all, err := s.queryProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE target_profit_alert_sent = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	// targets are decimal strings, so the positivity test happens here
	pending := all[:0]
	for _, p := range all {
		if p.HasTarget() {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

func (s *SQLiteStore) queryProperties(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}

	var properties []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	// the single connection must be released before loading refinances
	rows.Close()

	for i := range properties {
		refis, err := listRefinances(ctx, s.db, properties[i].ID)
		if err != nil {
			return nil, err
		}
		properties[i].Refinances = refis
	}
	return properties, nil
}

// UpdateProperty overwrites the stored property and replaces its refinances.
// Changing the profit target re-arms its alert.
func (s *SQLiteStore) UpdateProperty(ctx context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE properties SET
			name = ?, address = ?, type = ?, purchase_price = ?, purchase_date = ?,
			stamp_duty = ?, renovation_cost = ?, agent_fees = ?, current_value = ?, cpf_amount = ?,
			mortgage_amount = ?, mortgage_interest_rate = ?, mortgage_tenure = ?, monthly_rental = ?,
			target_profit_alert_sent = CASE WHEN target_profit_percentage = ? THEN ? ELSE 0 END,
			target_profit_percentage = ?, updated_at = ?
			WHERE id = ?`,
			p.Name, p.Address, string(p.Type), p.PurchasePrice, dateutil.Format(p.PurchaseDate),
			p.StampDuty, p.RenovationCost, p.AgentFees, p.CurrentValue, p.CPFAmount,
			p.MortgageAmount, p.MortgageInterestRate, p.MortgageTenureYears, p.MonthlyRental,
			p.TargetProfitPercentage, p.TargetProfitAlertSent,
			p.TargetProfitPercentage, time.Now().Unix(),
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("update property %d: %w", p.ID, err)
		}
		if err := requireAffected(res, "property", p.ID); err != nil {
			return err
		}
		return replaceRefinances(ctx, tx, p)
	})
}

// DeleteProperty removes a property and, by cascade, its refinances.
func (s *SQLiteStore) DeleteProperty(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	return requireAffected(res, "property", id)
}

// AddRefinance records a refinance for an existing property and sets its ID.
func (s *SQLiteStore) AddRefinance(ctx context.Context, r *domain.Refinance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM properties WHERE id = ?`, r.PropertyID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("property %d: %w", r.PropertyID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup property %d: %w", r.PropertyID, err)
	}
	return insertRefinance(ctx, s.db, r)
}

// ListRefinances returns a property's refinances, oldest first.
func (s *SQLiteStore) ListRefinances(ctx context.Context, propertyID int64) ([]domain.Refinance, error) {
	return listRefinances(ctx, s.db, propertyID)
}

// DeleteRefinance removes one refinance.
func (s *SQLiteStore) DeleteRefinance(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM refinances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete refinance %d: %w", id, err)
	}
	return requireAffected(res, "refinance", id)
}

// MarkProfitAlertSent flags a property so its profit alert fires only once.
func (s *SQLiteStore) MarkProfitAlertSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE properties SET target_profit_alert_sent = 1, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("mark profit alert %d: %w", id, err)
	}
	return requireAffected(res, "property", id)
}

// TelegramSettings returns the stored alert settings, or the zero value when
// none have been saved.
func (s *SQLiteStore) TelegramSettings(ctx context.Context) (domain.TelegramSettings, error) {
	var t domain.TelegramSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT telegram_bot_token, telegram_chat_id, alerts_enabled FROM user_settings WHERE id = 1`,
	).Scan(&t.BotToken, &t.ChatID, &t.AlertsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TelegramSettings{}, nil
	}
	if err != nil {
		return domain.TelegramSettings{}, fmt.Errorf("load telegram settings: %w", err)
	}
	return t, nil
}

// SaveTelegramSettings upserts the alert settings.
func (s *SQLiteStore) SaveTelegramSettings(ctx context.Context, t domain.TelegramSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveTelegramSettings(ctx, s.db, t)
}

// ImportPortfolio writes every property of a portfolio file, replacing
// refinances, and stores its Telegram settings when present. Properties with
// an explicit ID are upserted and keep their profit-alert flag unless the
// target changed; the rest are inserted under new IDs. Returns the number of
// properties written.
func (s *SQLiteStore) ImportPortfolio(ctx context.Context, portfolio *domain.Portfolio) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i := range portfolio.Properties {
			p := &portfolio.Properties[i]
			if err := insertProperty(ctx, tx, p, true); err != nil {
				return err
			}
			if err := replaceRefinances(ctx, tx, p); err != nil {
				return err
			}
		}
		t := portfolio.Telegram
		if t.BotToken != "" || t.ChatID != "" {
			return saveTelegramSettings(ctx, tx, t)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import portfolio: %w", err)
	}

	s.logger.Info("portfolio imported", zap.Int("properties", len(portfolio.Properties)))
	return len(portfolio.Properties), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertProperty inserts p. With upsert set and a non-zero ID, an existing
// row with that ID is updated in place instead.
func insertProperty(ctx context.Context, q querier, p *domain.Property, upsert bool) error {
	now := time.Now().Unix()
	var id any
	if p.ID != 0 {
		id = p.ID
	}

	stmt := `INSERT INTO properties (` + propertyColumns + `, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	if upsert {
		stmt += ` ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, address = excluded.address, type = excluded.type,
			purchase_price = excluded.purchase_price, purchase_date = excluded.purchase_date,
			stamp_duty = excluded.stamp_duty, renovation_cost = excluded.renovation_cost,
			agent_fees = excluded.agent_fees, current_value = excluded.current_value,
			cpf_amount = excluded.cpf_amount, mortgage_amount = excluded.mortgage_amount,
			mortgage_interest_rate = excluded.mortgage_interest_rate,
			mortgage_tenure = excluded.mortgage_tenure, monthly_rental = excluded.monthly_rental,
			target_profit_alert_sent = CASE
				WHEN properties.target_profit_percentage = excluded.target_profit_percentage
				THEN properties.target_profit_alert_sent ELSE 0 END,
			target_profit_percentage = excluded.target_profit_percentage,
			updated_at = excluded.updated_at`
	}

	res, err := q.ExecContext(ctx, stmt,
		id, p.Name, p.Address, string(p.Type), p.PurchasePrice, dateutil.Format(p.PurchaseDate),
		p.StampDuty, p.RenovationCost, p.AgentFees, p.CurrentValue, p.CPFAmount,
		p.MortgageAmount, p.MortgageInterestRate, p.MortgageTenureYears, p.MonthlyRental,
		p.TargetProfitPercentage, p.TargetProfitAlertSent, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert property %q: %w", p.Name, err)
	}
	if p.ID == 0 {
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert property %q: %w", p.Name, err)
		}
		p.ID = newID
	}
	return nil
}

// replaceRefinances rewrites the refinance rows of p from p.Refinances
func replaceRefinances(ctx context.Context, q querier, p *domain.Property) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM refinances WHERE property_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear refinances of %d: %w", p.ID, err)
	}
	for i := range p.Refinances {
		r := &p.Refinances[i]
		r.ID = 0
		r.PropertyID = p.ID
		if err := insertRefinance(ctx, q, r); err != nil {
			return err
		}
	}
	return nil
}

func insertRefinance(ctx context.Context, q querier, r *domain.Refinance) error {
	res, err := q.ExecContext(ctx, `INSERT INTO refinances
		(property_id, refinance_date, loan_amount, interest_rate, tenure, description, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		r.PropertyID, dateutil.Format(r.RefinanceDate), r.LoanAmount, r.InterestRate,
		r.TenureYears, r.Description, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert refinance for %d: %w", r.PropertyID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert refinance for %d: %w", r.PropertyID, err)
	}
	r.ID = id
	return nil
}

func listRefinances(ctx context.Context, q querier, propertyID int64) ([]domain.Refinance, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, property_id, refinance_date, loan_amount,
		interest_rate, tenure, description
		FROM refinances WHERE property_id = ? ORDER BY refinance_date ASC, id ASC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("query refinances of %d: %w", propertyID, err)
	}
	defer rows.Close()

	var refis []domain.Refinance
	for rows.Next() {
		var (
			r    domain.Refinance
			date string
		)
		if err := rows.Scan(&r.ID, &r.PropertyID, &date, &r.LoanAmount,
			&r.InterestRate, &r.TenureYears, &r.Description); err != nil {
			return nil, fmt.Errorf("scan refinance: %w", err)
		}
		if r.RefinanceDate, err = dateutil.Parse(date); err != nil {
			return nil, fmt.Errorf("refinance %d: %w", r.ID, err)
		}
		refis = append(refis, r)
	}
	return refis, rows.Err()
}

func saveTelegramSettings(ctx context.Context, q querier, t domain.TelegramSettings) error {
	_, err := q.ExecContext(ctx, `INSERT INTO user_settings
		(id, telegram_bot_token, telegram_chat_id, alerts_enabled, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			telegram_bot_token = excluded.telegram_bot_token,
			telegram_chat_id = excluded.telegram_chat_id,
			alerts_enabled = excluded.alerts_enabled,
			updated_at = excluded.updated_at`,
		t.BotToken, t.ChatID, t.AlertsEnabled, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save telegram settings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	var (
		p    domain.Property
		typ  string
		date string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Address, &typ, &p.PurchasePrice, &date,
		&p.StampDuty, &p.RenovationCost, &p.AgentFees, &p.CurrentValue, &p.CPFAmount,
		&p.MortgageAmount, &p.MortgageInterestRate, &p.MortgageTenureYears, &p.MonthlyRental,
		&p.TargetProfitPercentage, &p.TargetProfitAlertSent)
	if err != nil {
		return nil, err
	}
	p.Type = domain.PropertyType(typ)
	if p.PurchaseDate, err = dateutil.Parse(date); err != nil {
		return nil, fmt.Errorf("property %d: %w", p.ID, err)
	}
	return &p, nil
}

func requireAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

var _ PropertyStore = (*SQLiteStore)(nil)
