package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"repayments", "loan_applications", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser := func(email, name, userType string, employerID *int64) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
				fmt.Printf("user %s already exists\n", email)
				return id
			}

			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, user_type, employer_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				email, name, string(hash), userType, employerID,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", email, err)
			}
			if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
				log.Fatalf("failed to lookup user %s: %v", email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", userType, email)
			return id
		}

		adminID := seedUser("admin@salarylink.test", "Site Admin", "admin", nil)
		employerID := seedUser("acme@salarylink.test", "Acme Corp", "employer", nil)
		seedUser("dewi@salarylink.test", "Dewi", "employee", &employerID)
		seedUser("budi@salarylink.test", "Budi", "employee", &employerID)

		fmt.Printf("Seeding complete (admin id %d, employer id %d). Default password: %s\n", adminID, employerID, password)
	},
}
