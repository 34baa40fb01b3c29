package relational

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(120) NOT NULL UNIQUE,
		password VARCHAR(128) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS amenities (
		id VARCHAR(36) PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		id VARCHAR(36) PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		latitude DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		max_person INTEGER NOT NULL CHECK (max_person >= 1),
		owner_id VARCHAR(36) NOT NULL REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS places_owner_id_idx ON places (owner_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id VARCHAR(36) PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		text VARCHAR(300) NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		user_id VARCHAR(36) NOT NULL REFERENCES users(id),
		place_id VARCHAR(36) NOT NULL REFERENCES places(id),
		UNIQUE (user_id, place_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_place_id_idx ON reviews (place_id)`,
	`CREATE TABLE IF NOT EXISTS place_amenity (
		place_id VARCHAR(36) NOT NULL REFERENCES places(id) ON DELETE CASCADE,
		amenity_id VARCHAR(36) NOT NULL REFERENCES amenities(id) ON DELETE CASCADE,
		PRIMARY KEY (place_id, amenity_id)
	)`,
}

var mysqlSchema = []string{
	"CREATE TABLE IF NOT EXISTS `users` (" +
		"`id` VARCHAR(36) PRIMARY KEY," +
		"`created_at` DATETIME(6) NOT NULL," +
		"`updated_at` DATETIME(6) NOT NULL," +
		"`first_name` VARCHAR(50) NOT NULL," +
		"`last_name` VARCHAR(50) NOT NULL," +
		"`email` VARCHAR(120) NOT NULL UNIQUE," +
		"`password` VARCHAR(128) NOT NULL," +
		"`is_admin` BOOLEAN NOT NULL DEFAULT FALSE" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `amenities` (" +
		"`id` VARCHAR(36) PRIMARY KEY," +
		"`created_at` DATETIME(6) NOT NULL," +
		"`updated_at` DATETIME(6) NOT NULL," +
		"`name` VARCHAR(50) NOT NULL UNIQUE" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `places` (" +
		"`id` VARCHAR(36) PRIMARY KEY," +
		"`created_at` DATETIME(6) NOT NULL," +
		"`updated_at` DATETIME(6) NOT NULL," +
		"`title` VARCHAR(100) NOT NULL," +
		"`description` TEXT NOT NULL," +
		"`price` DOUBLE NOT NULL," +
		"`latitude` DOUBLE NOT NULL," +
		"`longitude` DOUBLE NOT NULL," +
		"`max_person` INT NOT NULL," +
		"`owner_id` VARCHAR(36) NOT NULL," +
		"INDEX `places_owner_id_idx` (`owner_id`)," +
		"FOREIGN KEY (`owner_id`) REFERENCES `users` (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `reviews` (" +
		"`id` VARCHAR(36) PRIMARY KEY," +
		"`created_at` DATETIME(6) NOT NULL," +
		"`updated_at` DATETIME(6) NOT NULL," +
		"`text` VARCHAR(300) NOT NULL," +
		"`rating` INT NOT NULL," +
		"`user_id` VARCHAR(36) NOT NULL," +
		"`place_id` VARCHAR(36) NOT NULL," +
		"UNIQUE KEY `reviews_user_place` (`user_id`, `place_id`)," +
		"INDEX `reviews_place_id_idx` (`place_id`)," +
		"FOREIGN KEY (`user_id`) REFERENCES `users` (`id`)," +
		"FOREIGN KEY (`place_id`) REFERENCES `places` (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `place_amenity` (" +
		"`place_id` VARCHAR(36) NOT NULL," +
		"`amenity_id` VARCHAR(36) NOT NULL," +
		"PRIMARY KEY (`place_id`, `amenity_id`)," +
		"FOREIGN KEY (`place_id`) REFERENCES `places` (`id`) ON DELETE CASCADE," +
		"FOREIGN KEY (`amenity_id`) REFERENCES `amenities` (`id`) ON DELETE CASCADE" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

// Migrate creates the five tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	var stmts []string
	switch s.name {
	case DialectPostgres:
		stmts = postgresSchema
	case DialectMySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("no schema for dialect %q", s.name)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
