package services

// SetupSuggestion is the recommended configuration for a roster size,
// consumed by registration forms. Pure derivation, no state.
type SetupSuggestion struct {
	PlayerCount   int `json:"player_count"`
	SwissRounds   int `json:"swiss_rounds"`
	TopCutSize    int `json:"top_cut_size"`
	MinGroupCount int `json:"min_group_count"`
	MaxGroupCount int `json:"max_group_count"`
}

// SuggestSetup derives the recommended Swiss round count, top cut size and
// feasible group-count range for the given roster size.
func SuggestSetup(playerCount int) SetupSuggestion {
	s := SetupSuggestion{PlayerCount: playerCount}

	switch {
	case playerCount <= 11:
		s.SwissRounds = 4
	case playerCount <= 21:
		s.SwissRounds = 5
	default:
		s.SwissRounds = 6
	}

	switch {
	case playerCount >= 17:
		s.TopCutSize = 8
	case playerCount >= 7:
		s.TopCutSize = 4
	default:
		s.TopCutSize = 2
	}

	s.MinGroupCount, s.MaxGroupCount = GroupCountRange(playerCount)
	return s
}

// GroupCountRange returns the feasible group counts for a roster: groups of
// 3 to 5 players each, requiring at least 6 players overall. Returns (0, 0)
// when no split is feasible.
func GroupCountRange(playerCount int) (min, max int) {
	if playerCount < 6 {
		return 0, 0
	}
	min = (playerCount + 4) / 5
	max = playerCount / 3
	if max < min {
		return 0, 0
	}
	return min, max
}
