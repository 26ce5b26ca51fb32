package database

import (
	"database/sql"
	"log"
	"time"

	"atcoder_bingo/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

const connectRetryInterval = 5 * time.Second

// Connect opens the database and pings it until the database answers.
// The board and status pollers cannot do anything useful without a
// store, so startup blocks here instead of crash-looping the process.
func Connect() *sql.DB {
	db, err := sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	for {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("ERROR: Failed to connect to the database: %v", err)
		time.Sleep(connectRetryInterval)
		log.Println("Trying to connect again...")
	}

	log.Println("Successfully connected to PostgreSQL database")
	return db
}

func Close(db *sql.DB) {
	if db != nil {
		db.Close()
		log.Println("Database connection closed.")
	}
}
