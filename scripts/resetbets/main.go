package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Maintenance script: refunds and deletes all pending bets, then grants
// every account a balance top-up. Run against a dev or staging database.
func main() {
	grant := flag.Int64("grant", 0, "coins to add to every account after the reset")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Connect to database
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("✅ Connected to database")

	// Step 1: Refund stakes of pending bets
	result, err := db.Exec(`
		UPDATE users
		SET balance = balance + refunds.total
		FROM (
			SELECT user_id, SUM(amount) AS total
			FROM bets
			WHERE is_settled = false
			GROUP BY user_id
		) AS refunds
		WHERE users.id = refunds.user_id
	`)
	if err != nil {
		log.Fatal("Failed to refund pending stakes:", err)
	}
	rows, _ := result.RowsAffected()
	fmt.Printf("💸 Refunded pending stakes to %d users\n", rows)

	// Step 2: Delete pending bets
	result, err = db.Exec(`DELETE FROM bets WHERE is_settled = false`)
	if err != nil {
		log.Fatal("Failed to delete pending bets:", err)
	}
	rows, _ = result.RowsAffected()
	fmt.Printf("🗑️  Deleted %d pending bets\n", rows)

	// Step 3: Optional balance grant
	if *grant > 0 {
		result, err = db.Exec(`UPDATE users SET balance = balance + $1`, *grant)
		if err != nil {
			log.Fatal("Failed to grant balance:", err)
		}
		rows, _ = result.RowsAffected()
		fmt.Printf("💰 Granted %d coins to %d users\n", *grant, rows)
	}

	fmt.Println("✅ Reset complete")
}
