package entity

import (
	"time"

	"github.com/google/uuid"
)

type MembershipTier string
type MembershipStatus string

const (
	TierCommunity MembershipTier = "community"
	TierMeeting   MembershipTier = "meeting"
	TierPremium   MembershipTier = "premium"
	TierPartner   MembershipTier = "partner"

	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
	MembershipStatusLapsed   MembershipStatus = "lapsed"
)

// tierCatalog maps cart tier ids to tiers and their privilege rank.
// Rank breaks price ties: the more privileged tier wins.
var tierCatalog = map[string]struct {
	Tier MembershipTier
	Rank int
}{
	"community-member": {TierCommunity, 1},
	"meeting-member":   {TierMeeting, 2},
	"premium-member":   {TierPremium, 3},
	"partner-member":   {TierPartner, 4},
}

// TierFromId resolves a cart line's tierId to a catalog tier.
// Unknown ids resolve to the community tier with rank 0 so they never win
// a tie against a known tier.
func TierFromId(tierId string) (MembershipTier, int, bool) {
	if t, ok := tierCatalog[tierId]; ok {
		return t.Tier, t.Rank, true
	}
	return TierCommunity, 0, false
}

// TierRank returns the privilege rank of a tier already in the catalog.
func TierRank(tier MembershipTier) int {
	for _, t := range tierCatalog {
		if t.Tier == tier {
			return t.Rank
		}
	}
	return 0
}

type Member struct {
	Id                         uuid.UUID
	UserId                     uuid.UUID
	BusinessName               string
	ContactFirstName           string
	ContactLastName            string
	MembershipTier             MembershipTier
	MembershipStatus           MembershipStatus
	MembershipPaymentConfirmed bool
	JoinedAt                   time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
