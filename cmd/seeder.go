package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"payments", "jobs", "users"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email    string
			Name     string
			UserType string
			Phone    string
		}{
			{"shan@shanandassociates.in", "Shan", "admin", "+919876500001"},
			{"ramesh@mail.com", "Ramesh Traders", "client", "+919876500002"},
			{"priya@mail.com", "Priya Textiles", "client", "+919876500003"},
		}

		for _, u := range users {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email).Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			_, err := db.Exec(
				"INSERT INTO users (email, name, password_hash, user_type, phone, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now())",
				u.Email, u.Name, string(hash), u.UserType, u.Phone)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.UserType, u.Email)
		}

		var rameshID int64
		if err := db.QueryRow("SELECT id FROM users WHERE email = $1", "ramesh@mail.com").Scan(&rameshID); err != nil {
			log.Fatalf("failed to lookup seeded client: %v", err)
		}

		jobs := []struct {
			Title     string
			AmountDue int64
		}{
			{"GST Filing FY 2025-26 Q1", 5000},
			{"Income Tax Return FY 2024-25", 8000},
		}

		for _, j := range jobs {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM jobs WHERE client_id = $1 AND title = $2", rameshID, j.Title).Scan(&exists); err == nil {
				continue
			}

			_, err := db.Exec(
				"INSERT INTO jobs (client_id, title, status, amount_due, payment_status, created_at, updated_at) VALUES ($1, $2, 'in_progress', $3, 'none', now(), now())",
				rameshID, j.Title, j.AmountDue)
			if err != nil {
				log.Fatalf("failed to insert job %s: %v", j.Title, err)
			}
			fmt.Printf("Seeded job: %s\n", j.Title)
		}

		fmt.Println("Seeding complete")
	},
}
