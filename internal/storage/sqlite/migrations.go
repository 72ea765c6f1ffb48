package sqlite

import "database/sql"

// schema sets up the attendee tables. The legacy single "name" column is kept
// alongside the JSON "names" column so records written by the old format keep
// loading; normalization happens at the store boundary.
// attendee_names mirrors the name list one row per name so the any-overlap
// match query stays an indexed IN lookup.
const schema = `
CREATE TABLE IF NOT EXISTS attendees (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    names TEXT NOT NULL DEFAULT '[]',
    number_of_guests INTEGER NOT NULL DEFAULT 1,
    confirmed_at INTEGER NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    table_number INTEGER,
    special_message TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS attendee_names (
    attendee_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (attendee_id, name),
    FOREIGN KEY (attendee_id) REFERENCES attendees(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attendees_confirmed_at ON attendees(confirmed_at DESC);
CREATE INDEX IF NOT EXISTS idx_attendee_names_name ON attendee_names(name);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
