// AngelaMos | 2026
// dto.go

package member

import (
	"time"
)

type MemberResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Tier       string    `json:"tier"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToMemberResponse(m *Member) MemberResponse {
	return MemberResponse{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Tier:       m.Tier.String(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
