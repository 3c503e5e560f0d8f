package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/matchpoint-club/matchpoint/internal/ladder"
	"github.com/matchpoint-club/matchpoint/internal/player"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "matchpoint.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], "./migrations")
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ladders := ladder.New(db)
	players := player.New(db)
	avail := availability.New(db)

	endDate := time.Now().AddDate(0, 3, 0).Unix()
	seedLadders := []ladder.Ladder{
		{ID: uuid.NewString(), Name: "Division 1", Number: 1, EndDate: endDate, SetsToWin: 2, GamesPerSet: 6, Tiebreak: true},
		{ID: uuid.NewString(), Name: "Division 2", Number: 2, EndDate: endDate, SetsToWin: 2, GamesPerSet: 6, Tiebreak: true},
	}
	for _, l := range seedLadders {
		if err := ladders.Create(l); err != nil {
			log.Fatalf("Failed to create ladder %s: %s", l.Name, err)
		}
	}
	log.Info("Created ladders.", "count", len(seedLadders))

	names := []string{
		"Anna Holm", "Bo Madsen", "Clara Juhl", "David Skov",
		"Eva Lund", "Frederik Dahl", "Gitte Bruun", "Henrik Kjaer",
	}

	seeded := make([]*player.User, 0, len(names))
	for i, name := range names {
		ladderID := seedLadders[i%len(seedLadders)].ID
		email := emailFor(name)
		u, token, err := players.Register(email, name, "seeder-password", ladderID)
		if err != nil {
			log.Fatalf("Failed to register %s: %s", name, err)
		}
		if _, err := players.Verify(token); err != nil {
			log.Fatalf("Failed to verify %s: %s", name, err)
		}
		seeded = append(seeded, u)
	}
	log.Info("Registered players.", "count", len(seeded))

	// Pair players within each ladder.
	for i := 0; i+2 < len(seeded); i += 4 {
		if _, err := players.LinkPartner(seeded[i].ID, seeded[i+2].Email); err != nil {
			log.Fatalf("Failed to link partners: %s", err)
		}
	}
	log.Info("Linked partners.")

	// Scatter availability over the coming week.
	weekStart := nextWeekStart()
	for _, u := range seeded {
		entries := make([]availability.Entry, 0, 16)
		for day := 0; day < 7; day++ {
			for _, halfHour := range []int64{34, 35, 36, 37} { // 17:00 to 19:00
				if rand.Intn(2) == 0 {
					continue
				}
				slot := weekStart + int64(day)*48*1800 + halfHour*1800
				entries = append(entries, availability.Entry{
					UserID: u.ID, StartAt: slot, State: availability.Available, SetBy: u.ID,
				})
			}
		}
		if err := avail.ReplaceWeek(u.ID, "", weekStart, entries); err != nil {
			log.Fatalf("Failed to save availability for %s: %s", u.Name, err)
		}
	}
	log.Info("Seeded availability.", "week_start", weekStart)

	log.Info("Seeding complete.")
}

func emailFor(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '.')
		default:
			out = append(out, r)
		}
	}
	return string(out) + "@example.com"
}

func nextWeekStart() int64 {
	now := time.Now()
	daysUntilMonday := (8 - int(now.Weekday())) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysUntilMonday)
	return monday.Unix()
}
