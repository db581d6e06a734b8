package types

import "encoding/json"

const (
	// BasisPoints is 100% expressed in basis points.
	BasisPoints = 10000

	// MaxHouseEdgeBps caps the configurable house edge at 10%.
	MaxHouseEdgeBps = 1000
)

// CasinoConfig is the configuration record, one per authority.
type CasinoConfig struct {
	Authority    Address     `json:"authority"`
	HouseEdgeBps uint16      `json:"houseEdgeBps"`
	MinBet       uint64      `json:"minBet"`
	MaxBet       uint64      `json:"maxBet"`
	Operators    OperatorSet `json:"operators"`
}

// GameRecord is the per-wager record. Settlement fields are written exactly
// once, when IsSettled flips to true.
type GameRecord struct {
	GameID     Hash    `json:"gameId"`
	Player     Address `json:"player"`
	BetAmount  uint64  `json:"betAmount"`
	IsSettled  bool    `json:"isSettled"`
	IsWin      bool    `json:"isWin"`
	WinAmount  uint64  `json:"winAmount"`
	ResultHash Hash    `json:"resultHash"`
}

// OperatorSet holds the identities allowed to settle wagers. Members are kept
// in insertion order for stable encoding; membership never depends on order.
type OperatorSet struct {
	members []Address
}

func NewOperatorSet(members ...Address) OperatorSet {
	var s OperatorSet
	for _, m := range members {
		s.Add(m)
	}
	return s
}

func (s OperatorSet) Contains(a Address) bool {
	for _, m := range s.members {
		if m == a {
			return true
		}
	}
	return false
}

// Add inserts a and reports whether the set changed.
func (s *OperatorSet) Add(a Address) bool {
	if s.Contains(a) {
		return false
	}
	s.members = append(s.members, a)
	return true
}

// Remove deletes a and reports whether the set changed.
func (s *OperatorSet) Remove(a Address) bool {
	for i, m := range s.members {
		if m == a {
			s.members = append(s.members[:i:i], s.members[i+1:]...)
			return true
		}
	}
	return false
}

func (s OperatorSet) Len() int { return len(s.members) }

// Members returns a copy of the members in insertion order.
func (s OperatorSet) Members() []Address {
	return append([]Address(nil), s.members...)
}

func (s OperatorSet) MarshalJSON() ([]byte, error) {
	members := s.members
	if members == nil {
		members = []Address{}
	}
	return json.Marshal(members)
}

func (s *OperatorSet) UnmarshalJSON(b []byte) error {
	var members []Address
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}
	*s = NewOperatorSet(members...)
	return nil
}
