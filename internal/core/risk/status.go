package risk

// EntityStatus is the derived standing of an aggregate profile
type EntityStatus string

// Entity statuses
const (
	EntityAlleged   EntityStatus = "alleged"
	EntityConfirmed EntityStatus = "confirmed"
	EntityDisputed  EntityStatus = "disputed"
	EntityCleared   EntityStatus = "cleared"
)

// Valid reports whether s is a known entity status
func (s EntityStatus) Valid() bool {
	switch s {
	case EntityAlleged, EntityConfirmed, EntityDisputed, EntityCleared:
		return true
	}
	return false
}

// StatusCounts summarizes the linked report set of an entity
type StatusCounts struct {
	Total       int
	Verified    int
	UnderReview int
	Rejected    int
}

// DeriveEntityStatus maps the linked report mix onto the entity standing:
// any verified report confirms the entity; any open review disputes it;
// everything rejected clears it; otherwise it stays alleged
func DeriveEntityStatus(c StatusCounts) EntityStatus {
	switch {
	case c.Verified > 0:
		return EntityConfirmed
	case c.UnderReview > 0:
		return EntityDisputed
	case c.Total > 0 && c.Rejected == c.Total:
		return EntityCleared
	default:
		return EntityAlleged
	}
}
