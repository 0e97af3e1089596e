// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/tiered-events/internal/config"
	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type seedEvent struct {
	Title       string
	Description string
	EventDate   string
	Tier        tier.Tier
	ImageURL    string
}

// The showcase catalog: two events per tier.
var catalog = []seedEvent{
	{
		Title:       "Free Community Meetup",
		Description: "A casual get-together for our free tier users.",
		EventDate:   "2024-09-15T18:00:00Z",
		Tier:        tier.Free,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Introduction to Web Development",
		Description: "A beginner-friendly workshop for our free tier users.",
		EventDate:   "2024-09-20T14:00:00Z",
		Tier:        tier.Free,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Silver Exclusive: Networking Night",
		Description: "An exclusive networking event for Silver tier members.",
		EventDate:   "2024-10-05T19:00:00Z",
		Tier:        tier.Silver,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Advanced CSS Techniques",
		Description: "A deep dive into advanced CSS for our Silver tier members.",
		EventDate:   "2024-10-10T16:00:00Z",
		Tier:        tier.Silver,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Gold Tier Gala Dinner",
		Description: "An elegant gala dinner for our Gold tier members.",
		EventDate:   "2024-11-12T20:00:00Z",
		Tier:        tier.Gold,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "AI & Machine Learning Summit",
		Description: "An exclusive summit on AI for our Gold tier members.",
		EventDate:   "2024-11-20T09:00:00Z",
		Tier:        tier.Gold,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Platinum Members Retreat",
		Description: "A luxurious weekend retreat for our Platinum members.",
		EventDate:   "2024-12-01T10:00:00Z",
		Tier:        tier.Platinum,
		ImageURL:    "https://via.placeholder.com/300",
	},
	{
		Title:       "Exclusive Tech Conference",
		Description: "An invite-only tech conference for Platinum members.",
		EventDate:   "2024-12-15T09:00:00Z",
		Tier:        tier.Platinum,
		ImageURL:    "https://via.placeholder.com/300",
	},
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("seed error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	// One transaction so a partial catalog never lands.
	err = core.InTx(ctx, db.DB, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO events (id, title, description, event_date, image_url, tier)
			VALUES ($1, $2, $3, $4, $5, $6)`

		for _, e := range catalog {
			eventDate, parseErr := time.Parse(time.RFC3339, e.EventDate)
			if parseErr != nil {
				return parseErr
			}

			if _, execErr := tx.ExecContext(ctx, query,
				uuid.New().String(),
				e.Title,
				e.Description,
				eventDate,
				e.ImageURL,
				e.Tier,
			); execErr != nil {
				return execErr
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("seeding completed", "events", len(catalog))
	return nil
}
