package brackets

import "github.com/zenkai-arena/tournament-server/models"

type GenerateBracketParams struct {
	// Standings is the full field in final Swiss standings order.
	Standings []models.Player
	// Groups lists active group labels in order, nil when groups are off.
	Groups []string
	// TopCutSize is 2, 4 or 8.
	TopCutSize int
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}
