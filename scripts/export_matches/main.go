package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/duo_finder/internal/config"
	"github.com/mroshb/duo_finder/internal/database"
	"github.com/mroshb/duo_finder/internal/reports"
	"github.com/mroshb/duo_finder/internal/repositories"
)

func main() {
	out := flag.String("out", "matches.xlsx", "output workbook path")
	days := flag.Int("days", 7, "export matches created in the last N days")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -*days)
	matches, err := repositories.NewMatchRepository(db).ListSince(context.Background(), since)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := reports.WriteMatchReport(f, matches); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Exported %d matches to %s\n", len(matches), *out)
}
