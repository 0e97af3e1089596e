// AngelaMos | 2026
// entity.go

package member

import (
	"time"

	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// Member is one authenticated principal. Exactly one row exists per
// external identity; the tier field changes only through the tier
// transition service.
type Member struct {
	ID         string    `db:"id"`
	ExternalID string    `db:"external_id"`
	Tier       tier.Tier `db:"tier"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
