package library

import (
	"sort"

	"github.com/agentstation/utc"
)

// OwnedGame is one entry of an account's owned-games list, produced fresh
// per account on every run. PrimaryAccount marks the account whose
// personalized fields (hours played, last played) win when the same game
// is owned by more than one tracked account.
type OwnedGame struct {
	AppID          int64     `json:"app_id"`
	AccountID      string    `json:"account_id"`
	HoursPlayed    float64   `json:"hours_played"`
	LastPlayedAt   *utc.Time `json:"last_played_at,omitempty"`
	PrimaryAccount bool      `json:"primary_account"`
}

// SortOwned orders an owned list by AppID ascending, in place.
func SortOwned(owned []OwnedGame) {
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].AppID < owned[j].AppID
	})
}
