package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mroshb/duo_finder/internal/config"
	"github.com/mroshb/duo_finder/internal/database"
	"github.com/mroshb/duo_finder/internal/reports"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/services"
)

func main() {
	in := flag.String("in", "", "workbook with one profile per row")
	flag.Parse()
	if *in == "" {
		log.Fatal("-in is required")
	}

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
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	profiles, rowErrs, err := reports.ReadProfiles(f)
	if err != nil {
		log.Fatal(err)
	}
	for _, rowErr := range rowErrs {
		fmt.Printf("Skipping %v\n", rowErr)
	}

	svc := services.NewProfileService(repositories.NewProfileRepository(db))
	imported := 0
	for i := range profiles {
		if _, err := svc.Upsert(context.Background(), &profiles[i]); err != nil {
			fmt.Printf("Error importing %q: %v\n", profiles[i].Nickname, err)
			continue
		}
		imported++
	}

	fmt.Printf("Successfully imported %d profiles.\n", imported)
}
