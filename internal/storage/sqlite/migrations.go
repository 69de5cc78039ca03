package sqlite

import "github.com/jmoiron/sqlx"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Tables are ordered so that every foreign key target exists first.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'Player' CHECK (role IN ('Admin', 'Player', 'Guest')),
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_date TEXT NOT NULL,
    session_time TEXT NOT NULL,
    location TEXT NOT NULL,
    created_by INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS attendance (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    user_id INTEGER,
    guest_name TEXT,
    is_guest INTEGER NOT NULL DEFAULT 0,
    checked_in_by INTEGER,
    check_in_time INTEGER NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (checked_in_by) REFERENCES users(id) ON DELETE SET NULL,
    UNIQUE (session_id, user_id)
);

CREATE TABLE IF NOT EXISTS donations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    contributor_id INTEGER,
    contributor_name TEXT,
    is_guest INTEGER NOT NULL DEFAULT 0,
    amount REAL NOT NULL CHECK (amount >= 0),
    notes TEXT,
    is_paid INTEGER NOT NULL DEFAULT 0,
    donated_at INTEGER NOT NULL,
    FOREIGN KEY (contributor_id) REFERENCES users(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    category TEXT CHECK (category IN ('equipment', 'venue', 'maintenance', 'other')),
    notes TEXT,
    recorded_by INTEGER,
    is_paid INTEGER NOT NULL DEFAULT 0,
    recorded_at INTEGER NOT NULL,
    FOREIGN KEY (recorded_by) REFERENCES users(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS finance_settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    player_monthly_rate REAL NOT NULL DEFAULT 0,
    player_monthly_year INTEGER,
    player_monthly_month INTEGER,
    guest_daily_rate REAL NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO finance_settings (id) VALUES (1);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    match_number INTEGER NOT NULL,
    match_type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
    UNIQUE (session_id, match_number)
);

CREATE TABLE IF NOT EXISTS match_results (
    match_id INTEGER PRIMARY KEY,
    team_a_score INTEGER NOT NULL DEFAULT 0,
    team_b_score INTEGER NOT NULL DEFAULT 0,
    winner TEXT,
    FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS match_players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_id INTEGER NOT NULL,
    user_id INTEGER,
    guest_name TEXT,
    is_guest INTEGER NOT NULL DEFAULT 0,
    team TEXT NOT NULL CHECK (team IN ('Team A', 'Team B')),
    FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (match_id, user_id),
    UNIQUE (match_id, guest_name)
);

CREATE INDEX IF NOT EXISTS idx_attendance_session_id ON attendance(session_id);
CREATE INDEX IF NOT EXISTS idx_attendance_guest_name ON attendance(guest_name);
CREATE INDEX IF NOT EXISTS idx_donations_donated_at ON donations(donated_at);
CREATE INDEX IF NOT EXISTS idx_donations_contributor_id ON donations(contributor_id);
CREATE INDEX IF NOT EXISTS idx_expenses_recorded_at ON expenses(recorded_at);
CREATE INDEX IF NOT EXISTS idx_matches_session_id ON matches(session_id);
CREATE INDEX IF NOT EXISTS idx_match_players_match_id ON match_players(match_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
