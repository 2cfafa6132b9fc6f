package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// seeder applies the schema and development seed data to the configured
// database. Run it once against a fresh environment.
func main() {
	_ = godotenv.Load()

	schemaPath := flag.String("schema", "db/schema.sql", "path to the schema file")
	seedPath := flag.String("seed", "db/seed/celebrities.sql", "path to the seed file, empty to skip")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	execFile(db, *schemaPath)
	if *seedPath != "" {
		execFile(db, *seedPath)
	}

	log.Println("database seeded")
}

func execFile(db *sql.DB, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	if _, err := db.Exec(string(raw)); err != nil {
		log.Fatalf("exec %s: %v", path, err)
	}
	log.Printf("applied %s", path)
}
