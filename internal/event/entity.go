// AngelaMos | 2026
// entity.go

package event

import (
	"time"

	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// Event is one showcased happening. Its tier is the exact gating
// level: a member sees the event when their own tier ranks at or above
// it. Events are immutable on the read path; only the admin writer
// touches them.
type Event struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	EventDate   time.Time `db:"event_date"`
	ImageURL    *string   `db:"image_url"`
	Tier        tier.Tier `db:"tier"`
}
