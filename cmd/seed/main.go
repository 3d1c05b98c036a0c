package main // Seeds the database with the demo marketplace dataset.

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/marketplace-api/internal/config"
	"github.com/iliyamo/marketplace-api/internal/database"
	"github.com/iliyamo/marketplace-api/internal/repository"
)

type seedProduct struct {
	name     string
	typ      string
	price    float64
	stock    uint32
	category string
}

var seedCategories = []struct{ name, description string }{
	{"Informatique", "Ordinateurs, périphériques et accessoires"},
	{"Maison", "Articles pour la maison et la décoration"},
	{"Sport", "Equipements et vêtements de sport"},
}

var seedProducts = []seedProduct{
	{"Laptop 14\"", "INFORMATIQUE_LAPTOP", 899.99, 10, "Informatique"},
	{"Souris sans fil", "INFORMATIQUE_ACCESSOIRE", 24.99, 50, "Informatique"},
	{"Clavier mécanique", "INFORMATIQUE_ACCESSOIRE", 79.9, 30, "Informatique"},
	{"Ecran 27\"", "INFORMATIQUE_ECRAN", 199.0, 15, "Informatique"},
	{"Station d'accueil USB-C", "INFORMATIQUE_ACCESSOIRE", 149.0, 12, "Informatique"},
	{"Laptop 16\" Pro", "INFORMATIQUE_LAPTOP", 1499.99, 5, "Informatique"},
	{"Casque audio Bluetooth", "INFORMATIQUE_ACCESSOIRE", 129.0, 25, "Informatique"},
	{"Aspirateur", "MAISON_APPAREIL", 129.0, 20, "Maison"},
	{"Lampe de salon", "MAISON_DECO", 39.9, 40, "Maison"},
	{"Coussin déco", "MAISON_DECO", 19.99, 60, "Maison"},
	{"Table basse", "MAISON_MOBILIER", 149.5, 8, "Maison"},
	{"Canapé 3 places", "MAISON_MOBILIER", 599.0, 5, "Maison"},
	{"Chaise de bureau", "MAISON_MOBILIER", 89.9, 25, "Maison"},
	{"Machine à café filtre", "MAISON_APPAREIL", 79.0, 14, "Maison"},
	{"Robot cuiseur", "MAISON_APPAREIL", 349.0, 6, "Maison"},
	{"Rideaux occultants", "MAISON_DECO", 59.9, 18, "Maison"},
	{"Vélo route", "SPORTS_EQUIPMENT", 999.0, 4, "Sport"},
	{"Chaussures running", "SPORTS_APPAREL", 79.0, 35, "Sport"},
	{"Tapis de yoga", "SPORTS_ACCESSORY", 29.9, 40, "Sport"},
	{"Ballon de foot", "SPORTS_ACCESSORY", 25.0, 50, "Sport"},
	{"Raquette de tennis", "SPORTS_EQUIPMENT", 89.0, 18, "Sport"},
	{"Haltères 5kg", "SPORTS_EQUIPMENT", 39.0, 22, "Sport"},
	{"Veste de sport", "SPORTS_APPAREL", 59.9, 16, "Sport"},
	{"Short de sport", "SPORTS_APPAREL", 29.5, 28, "Sport"},
	{"Gants de fitness", "SPORTS_ACCESSORY", 19.5, 30, "Sport"},
	{"Sac de sport", "SPORTS_ACCESSORY", 49.9, 20, "Sport"},
	{"Vélo VTT", "SPORTS_EQUIPMENT", 799.0, 3, "Sport"},
	{"Collant de running", "SPORTS_APPAREL", 39.9, 24, "Sport"},
}

var seedUsers = []struct{ email, role string }{
	{"admin@example.com", "ADMIN"},
	{"user1@example.com", "USER"},
	{"user2@example.com", "USER"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	log.Println("seeding database...")

	// Children first to satisfy foreign keys.
	for _, table := range []string{"refresh_tokens", "products", "users", "categories"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("clear %s: %v", table, err)
		}
	}

	categoryIDs := make(map[string]uint64, len(seedCategories))
	for _, cat := range seedCategories {
		res, err := db.ExecContext(ctx,
			"INSERT INTO categories (name, description) VALUES (?,?)", cat.name, cat.description)
		if err != nil {
			log.Fatalf("insert category %q: %v", cat.name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			log.Fatalf("category id: %v", err)
		}
		categoryIDs[cat.name] = uint64(id)
	}

	for _, p := range seedProducts {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO products (name, type, price, stock, category_id) VALUES (?,?,?,?,?)",
			p.name, p.typ, p.price, p.stock, categoryIDs[p.category]); err != nil {
			log.Fatalf("insert product %q: %v", p.name, err)
		}
	}

	users := repository.NewUserRepo(db)
	for _, u := range seedUsers {
		if _, err := users.Create(ctx, u.email, "password123", u.role, cfg.BcryptCost); err != nil {
			log.Fatalf("insert user %q: %v", u.email, err)
		}
	}

	log.Printf("seeding done: %d categories, %d products, %d users",
		len(seedCategories), len(seedProducts), len(seedUsers))
}
