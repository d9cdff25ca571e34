package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Tables lists the service tables in dependency order.
var Tables = []string{"users", "trips", "messages", "profiles"}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(255) NOT NULL PRIMARY KEY,
		provider VARCHAR(255),
		access_token TEXT,
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		email VARCHAR(255),
		url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		trip_id SERIAL NOT NULL PRIMARY KEY,
		user_id VARCHAR(255) REFERENCES users(id) ON DELETE CASCADE,
		destination VARCHAR(255) NOT NULL,
		days_num VARCHAR(255) NOT NULL,
		travelers_num VARCHAR(255) NOT NULL,
		budget VARCHAR(255) NOT NULL,
		travel_preferences TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		message_id SERIAL NOT NULL PRIMARY KEY,
		trip_id INT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		role VARCHAR(255) NOT NULL,
		content_type VARCHAR(255) NOT NULL,
		content_text TEXT NOT NULL,
		message_category VARCHAR(255) NOT NULL,
		metadata JSONB
	)`,
	// tables created before metadata existed
	`ALTER TABLE messages ADD COLUMN IF NOT EXISTS metadata JSONB`,
	`CREATE INDEX IF NOT EXISTS idx_messages_trip_id ON messages (trip_id, message_id)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		profile_id SERIAL NOT NULL PRIMARY KEY,
		user_id VARCHAR(255) UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		age VARCHAR(255) NOT NULL,
		travelstyle TEXT NOT NULL,
		travelpriorities TEXT NOT NULL,
		travelavoidances TEXT NOT NULL,
		dietaryrestrictions TEXT NOT NULL,
		accomodations TEXT NOT NULL
	)`,
	// the profile upsert conflicts on user_id alone; older tables only had
	// UNIQUE (profile_id, user_id)
	`CREATE UNIQUE INDEX IF NOT EXISTS profiles_user_id_key ON profiles (user_id)`,
}

// Migrate creates any missing table. Existing tables are left untouched.
func Migrate(ctx context.Context, db *gorm.DB) error {
	for _, stmt := range ddl {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// DropAll drops the service tables, dependents first.
func DropAll(ctx context.Context, db *gorm.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if err := db.WithContext(ctx).Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(Tables[i]) + " CASCADE").Error; err != nil {
			return fmt.Errorf("drop %s: %w", Tables[i], err)
		}
	}
	return nil
}

// Truncate empties one service table and restarts its sequence.
func Truncate(ctx context.Context, db *gorm.DB, table string) error {
	if !knownTable(table) {
		return fmt.Errorf("truncate: unknown table %q", table)
	}
	return db.WithContext(ctx).Exec("TRUNCATE TABLE " + pq.QuoteIdentifier(table) + " RESTART IDENTITY CASCADE").Error
}

// ListTables returns the tables of the public schema.
func ListTables(ctx context.Context, db *gorm.DB) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name").
		Scan(&names).Error
	return names, err
}

func knownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
