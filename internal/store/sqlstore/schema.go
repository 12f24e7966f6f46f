package sqlstore

// Days are stored as DayLayout text in both dialects so equality on the
// column is calendar-day equality.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id INTEGER NOT NULL REFERENCES members(id),
		activity_id INTEGER NOT NULL REFERENCES activities(id),
		day TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_activity_day ON reservations (activity_id, day)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_member ON reservations (member_id)`,
	`CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		capacity INT NOT NULL CHECK (capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGSERIAL PRIMARY KEY,
		member_id BIGINT NOT NULL REFERENCES members(id),
		activity_id BIGINT NOT NULL REFERENCES activities(id),
		day TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_activity_day ON reservations (activity_id, day)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_member ON reservations (member_id)`,
	`CREATE TABLE IF NOT EXISTS events (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}
