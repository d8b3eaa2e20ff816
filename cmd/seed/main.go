package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the ingredient catalog from a CSV or XLSX file with
// (name, measurement_unit) rows.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <ingredients.csv|ingredients.xlsx>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ingredientRepo := repository.NewIngredientRepository(db.GetDB())

	fmt.Printf("Reading ingredients file: %s\n", filePath)

	var ingredients []model.Ingredient
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		ingredients, err = readIngredientsFromCSV(filePath)
	case ".xlsx":
		ingredients, err = readIngredientsFromXLSX(filePath)
	default:
		log.Fatal("Unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		log.Fatal("Failed to read ingredients:", err)
	}

	fmt.Printf("Total ingredients to import: %d\n", len(ingredients))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := ingredientRepo.CreateInBatches(ingredients, batchSize); err != nil {
		log.Fatal("Failed to bulk create ingredients:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total ingredients imported: %d\n", len(ingredients))
}

func readIngredientsFromCSV(filePath string) ([]model.Ingredient, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return collectIngredients(records), nil
}

func readIngredientsFromXLSX(filePath string) ([]model.Ingredient, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return collectIngredients(rows), nil
}

// collectIngredients turns raw rows into unique catalog entries. The source
// files carry no header, but one is tolerated and skipped. Duplicate
// (name, unit) pairs keep the first occurrence.
func collectIngredients(rows [][]string) []model.Ingredient {
	var ingredients []model.Ingredient
	seen := make(map[string]bool, len(rows))
	skippedCount := 0

	for i, row := range rows {
		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])

		if name == "" || unit == "" {
			skippedCount++
			continue
		}
		if i == 0 && (strings.EqualFold(name, "name") || strings.EqualFold(unit, "measurement_unit")) {
			continue
		}

		key := strings.ToLower(name) + "\x00" + strings.ToLower(unit)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		ingredients = append(ingredients, model.Ingredient{
			Name:            name,
			MeasurementUnit: unit,
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d rows (empty, short or duplicate)\n", skippedCount)
	}
	return ingredients
}
