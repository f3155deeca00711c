package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS profiles (
            user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            photo TEXT NOT NULL DEFAULT '',
            gender BOOLEAN
        );`,
		`CREATE TABLE IF NOT EXISTS chats (
            id SERIAL PRIMARY KEY,
            user1_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user2_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ DEFAULT NOW(),
            UNIQUE(user1_id, user2_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            sender_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            text TEXT NOT NULL,
            attachment TEXT,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages (chat_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS friendships (
            id SERIAL PRIMARY KEY,
            from_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            to_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		// One row per unordered pair regardless of request direction.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair
            ON friendships (LEAST(from_user_id, to_user_id), GREATEST(from_user_id, to_user_id));`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_status ON friendships (status);`,
		`CREATE TABLE IF NOT EXISTS interests (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS hobbies (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS music_genres (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS user_interests (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            interest_id INT NOT NULL REFERENCES interests(id) ON DELETE CASCADE,
            PRIMARY KEY(user_id, interest_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_hobbies (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            hobby_id INT NOT NULL REFERENCES hobbies(id) ON DELETE CASCADE,
            PRIMARY KEY(user_id, hobby_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_musics (
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            genre_id INT NOT NULL REFERENCES music_genres(id) ON DELETE CASCADE,
            PRIMARY KEY(user_id, genre_id)
        );`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
