package entities

// PrizeTier is the Quina prize band reached by a ticket
type PrizeTier string

const (
	PrizeTierNone   PrizeTier = ""
	PrizeTierDuque  PrizeTier = "duque"  // 2 hits
	PrizeTierTerno  PrizeTier = "terno"  // 3 hits
	PrizeTierQuadra PrizeTier = "quadra" // 4 hits
	PrizeTierQuina  PrizeTier = "quina"  // 5 hits
)

// PrizeTierForHits maps a hit count to its prize tier
func PrizeTierForHits(hits int) PrizeTier {
	switch {
	case hits >= 5:
		return PrizeTierQuina
	case hits == 4:
		return PrizeTierQuadra
	case hits == 3:
		return PrizeTierTerno
	case hits == 2:
		return PrizeTierDuque
	default:
		return PrizeTierNone
	}
}

// TicketCheckResult compares a played ticket against one draw
type TicketCheckResult struct {
	SequenceNumber int       `json:"sequence_number"`
	Numbers        []int     `json:"numbers"`
	DrawnNumbers   []int     `json:"drawn_numbers"`
	Hits           []int     `json:"hits"`
	HitCount       int       `json:"hit_count"`
	PrizeTier      PrizeTier `json:"prize_tier,omitempty"`
}

// IsWinner returns true if the ticket reached any prize tier
func (r *TicketCheckResult) IsWinner() bool {
	return r.PrizeTier != PrizeTierNone
}
