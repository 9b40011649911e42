package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"swapflow/internal/domain"
)

// OpenDB opens the store, applies the schema and seeds the settings row with
// the given portfolio cap on first boot.
func OpenDB(dsn string, defaultMaxPortfolio int) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: keeps the foreign_keys pragma in force and makes
	// :memory: databases behave as a single store
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Global settings row (idempotent; safe to run every start)
	if err := seedSettings(db, defaultMaxPortfolio); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  user_id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  username TEXT,
  picture TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER','ADMIN')),
  trade_points INTEGER NOT NULL DEFAULT 0,
  rating REAL,
  rating_count INTEGER NOT NULL DEFAULT 0,
  suspended_until TEXT,
  suspension_reason TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username) WHERE username IS NOT NULL;

-- Sessions (opaque bearer tokens)
CREATE TABLE IF NOT EXISTS sessions(
  token TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Items
CREATE TABLE IF NOT EXISTS items(
  item_id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL,
  category TEXT NOT NULL,
  subcategory TEXT NOT NULL DEFAULT '',
  bottom_category TEXT NOT NULL DEFAULT '',
  is_available INTEGER NOT NULL DEFAULT 1,
  boost_score REAL NOT NULL DEFAULT 0,
  pin_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_items_owner    ON items(user_id);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
CREATE INDEX IF NOT EXISTS idx_items_ranking  ON items(is_available, boost_score DESC, created_at DESC);

-- Pin ledger: at most one active pin per (user, item)
CREATE TABLE IF NOT EXISTS pins(
  user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  item_id TEXT NOT NULL REFERENCES items(item_id) ON DELETE CASCADE,
  created_at TEXT NOT NULL,
  PRIMARY KEY (user_id, item_id)
);
CREATE INDEX IF NOT EXISTS idx_pins_item ON pins(item_id);

-- Categories (click_count drives popularity ordering)
CREATE TABLE IF NOT EXISTS categories(
  name TEXT NOT NULL,
  level TEXT NOT NULL DEFAULT 'main' CHECK (level IN ('main','sub','bottom')),
  click_count INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (name, level)
);

-- Portfolio (user-curated item showcase; display order is boost-driven)
CREATE TABLE IF NOT EXISTS portfolio_items(
  user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  item_id TEXT NOT NULL REFERENCES items(item_id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  PRIMARY KEY (user_id, item_id)
);

-- Messages
CREATE TABLE IF NOT EXISTS messages(
  message_id TEXT PRIMARY KEY,
  sender_id TEXT NOT NULL,
  receiver_id TEXT NOT NULL,
  item_id TEXT,
  content TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_sender   ON messages(sender_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, created_at);

-- Trades
CREATE TABLE IF NOT EXISTS trades(
  trade_id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL REFERENCES items(item_id) ON DELETE CASCADE,
  owner_id TEXT NOT NULL,
  trader_id TEXT NOT NULL,
  owner_confirmed INTEGER NOT NULL DEFAULT 0,
  trader_confirmed INTEGER NOT NULL DEFAULT 0,
  is_completed INTEGER NOT NULL DEFAULT 0,
  owner_rating INTEGER CHECK (owner_rating BETWEEN 1 AND 5),
  trader_rating INTEGER CHECK (trader_rating BETWEEN 1 AND 5),
  created_at TEXT NOT NULL,
  completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_trades_owner  ON trades(owner_id, created_at);
CREATE INDEX IF NOT EXISTS idx_trades_trader ON trades(trader_id, created_at);
-- at most one open trade per (item, requester)
CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_open ON trades(item_id, trader_id) WHERE is_completed = 0;

-- Reports
CREATE TABLE IF NOT EXISTS reports(
  report_id TEXT PRIMARY KEY,
  reporter_id TEXT NOT NULL,
  report_type TEXT NOT NULL CHECK (report_type IN ('user','item')),
  reported_id TEXT NOT NULL,
  reason TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','reviewed','resolved')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at);

-- Announcements
CREATE TABLE IF NOT EXISTS announcements(
  announcement_id TEXT PRIMARY KEY,
  message TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_by TEXT NOT NULL,
  created_at TEXT NOT NULL
);

-- Global settings (single row)
CREATE TABLE IF NOT EXISTS settings(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  max_portfolio_items INTEGER NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedSettings(db *sqlx.DB, maxPortfolio int) error {
	_, err := db.Exec(`
		INSERT INTO settings(id, max_portfolio_items)
		VALUES (1, ?)
		ON CONFLICT(id) DO NOTHING
	`, maxPortfolio)
	return err
}

// SeedAdmins ensures an ADMIN account exists for every allowlisted email
// (idempotent; safe to run every start). Existing accounts are promoted.
func SeedAdmins(db *sqlx.DB, emails []string, defaultPassword string) error {
	if len(emails) == 0 {
		return nil
	}
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, email := range emails {
		var n int
		if err := tx.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
			return err
		}
		if n > 0 {
			if _, err := tx.Exec(`UPDATE users SET role='ADMIN' WHERE LOWER(email)=LOWER(?)`, email); err != nil {
				return err
			}
			continue
		}
		if defaultPassword == "" {
			// no bootstrap password configured; the account gets ADMIN at registration instead
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), 12)
		if err != nil {
			return err
		}
		log.Printf("[seed] creating admin account %s", email)
		if _, err := tx.Exec(`
			INSERT INTO users(user_id, email, name, password_hash, role, created_at)
			VALUES (?, ?, 'Admin', ?, 'ADMIN', ?)
		`, domain.NewID("user"), email, string(h), time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
