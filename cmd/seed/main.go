package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"unistay/internal/models"
	"unistay/internal/repositories"
	"unistay/pkg/database"
)

// Sample listings inserted for local development. Each carries a seed so the
// feed renders a deterministic fake poster instead of a real account.
var sampleListings = []models.Listing{
	{
		Title:         "Sunny studio near Leuven campus",
		Location:      "Naamsestraat 45, Leuven",
		State:         "Vlaams-Brabant",
		Price:         520,
		Description:   "Compact studio with private kitchenette, five minutes from the Arenberg library.",
		RoomType:      "studio",
		AvailableFrom: time.Now().AddDate(0, 1, 0),
		Seed:          "leuven-studio-045",
	},
	{
		Title:         "Room in shared house, Ghent center",
		Location:      "Overpoortstraat 12, Gent",
		State:         "Oost-Vlaanderen",
		Price:         410,
		Description:   "Furnished room in a five-person house, shared kitchen and garden.",
		RoomType:      "shared",
		AvailableFrom: time.Now().AddDate(0, 0, 14),
		Seed:          "gent-shared-012",
	},
	{
		Title:         "One-bedroom apartment near VUB",
		Location:      "Pleinlaan 9, Brussel",
		State:         "Brussel",
		Price:         780,
		Description:   "Renovated one-bedroom with balcony, two tram stops from campus Etterbeek.",
		RoomType:      "apartment",
		AvailableFrom: time.Now().AddDate(0, 2, 0),
		Seed:          "brussel-apt-009",
	},
	{
		Title:         "Budget room, Antwerp Zuid",
		Location:      "Brederodestraat 101, Antwerpen",
		State:         "Antwerpen",
		Price:         350,
		Description:   "Simple furnished room, utilities included, shared bathroom.",
		RoomType:      "shared",
		AvailableFrom: time.Now().AddDate(0, 0, 7),
		Seed:          "antwerpen-room-101",
	},
	{
		Title:         "Spacious kot with river view",
		Location:      "Dijlemolens 3, Leuven",
		State:         "Vlaams-Brabant",
		Price:         615,
		Description:   "Large student room overlooking the Dijle, bike storage in the courtyard.",
		RoomType:      "studio",
		AvailableFrom: time.Now().AddDate(0, 1, 15),
		Seed:          "leuven-kot-003",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	repo := repositories.NewListingRepo(pool)

	for _, listing := range sampleListings {
		listing.ID = uuid.New()
		if err := repo.Create(ctx, &listing); err != nil {
			log.Fatalf("Failed to seed listing %q: %v", listing.Title, err)
		}
		log.Printf("Seeded listing %s: %s", listing.ID, listing.Title)
	}

	log.Printf("Seeded %d listings", len(sampleListings))
}
