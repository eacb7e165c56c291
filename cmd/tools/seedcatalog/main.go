package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/catalog"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	shirts := []catalog.Shirt{
		{
			Name:        "Team Spirit Tee",
			Description: "Soft cotton tee with the school photo day logo.",
			Price:       "19.99",
			Active:      true,
			SizesJSON:   datatypes.JSON(`["S","M","L","XL"]`),
			ImagesJSON:  datatypes.JSON(`["/galleries/merch/spirit-tee.jpg"]`),
		},
		{
			Name:        "Studio Classic Hoodie",
			Description: "Heavyweight hoodie, embroidered logo.",
			Price:       "44.50",
			Active:      true,
			SizesJSON:   datatypes.JSON(`["S","M","L","XL","XXL"]`),
			ImagesJSON:  datatypes.JSON(`["/galleries/merch/classic-hoodie.jpg"]`),
		},
	}

	packages := []catalog.PhotoPackage{
		{
			Name:        "Basic Package",
			Description: "One 8x10, two 5x7s, eight wallets.",
			Price:       "29.00",
			Active:      true,
		},
		{
			Name:        "Deluxe Package",
			Description: "Two 8x10s, four 5x7s, sixteen wallets, digital download.",
			Price:       "54.00",
			Active:      true,
		},
		{
			Name:        "Digital Only",
			Description: "High-resolution digital download with print release.",
			Price:       "24.00",
			Active:      true,
		},
	}

	for _, s := range shirts {
		if err := db.Where("name = ?", s.Name).FirstOrCreate(&s).Error; err != nil {
			log.Fatalf("Failed to seed shirt %q: %v", s.Name, err)
		}
	}
	for _, p := range packages {
		if err := db.Where("name = ?", p.Name).FirstOrCreate(&p).Error; err != nil {
			log.Fatalf("Failed to seed package %q: %v", p.Name, err)
		}
	}

	log.Printf("Seeded %d shirts and %d photo packages", len(shirts), len(packages))
}
