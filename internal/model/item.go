package model

import "time"

// Item represents a found object registered with the lost-and-found office.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	LocationFound string    `json:"location_found"`
	DateFound     string    `json:"date_found"`
	Status        string    `json:"status"`
	OwnerID       string    `json:"owner_id"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusUnclaimed = "unclaimed"
	ItemStatusClaimed   = "claimed"
	ItemStatusReturned  = "returned"
	ItemStatusExpired   = "expired"
)

// itemTransitions maps each item status to the statuses reachable from it.
// Returned and expired are terminal.
var itemTransitions = map[string][]string{
	ItemStatusUnclaimed: {ItemStatusClaimed, ItemStatusExpired},
	ItemStatusClaimed:   {ItemStatusReturned, ItemStatusExpired},
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusUnclaimed, ItemStatusClaimed, ItemStatusReturned, ItemStatusExpired:
		return true
	}
	return false
}

// ItemCanTransition reports whether an item may move from one status to another.
func ItemCanTransition(from, to string) bool {
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ItemStatusTerminal reports whether no transition leaves the given status.
func ItemStatusTerminal(status string) bool {
	return len(itemTransitions[status]) == 0
}

// DateFoundFormat is the wire format for Item.DateFound.
const DateFoundFormat = "2006-01-02"
