package games

// catalogue is the fixed presentation order of all games.
var catalogue = []Game{
	speedTables, squareRoots, squaresFlash, cubeRoots,
	percentageFlash, simplificationBlitz, additionSprint, subtractionSprint,
	divisibilityDash, unitDigitHunter, fractionDecimal, decimalFraction,
	ratioSimplification, averageQuick, profitLoss, timeSpeed,
	seriesSprint, codingRush, alphabetRecall, analogyExpress,
	oddOneOut, dictionaryOrder, calendarCrunch,
	directionSense, bloodRelation, mirrorImage,
}

var byID = func() map[string]Game {
	m := make(map[string]Game, len(catalogue))
	for _, g := range catalogue {
		m[g.ID] = g
	}
	return m
}()

// All returns every game in catalogue order. The slice is a copy.
func All() []Game {
	out := make([]Game, len(catalogue))
	copy(out, catalogue)
	return out
}

// ByID looks up a game by its identifier.
func ByID(id string) (Game, bool) {
	g, ok := byID[id]
	return g, ok
}

// ByCategory returns the games in c, in catalogue order.
func ByCategory(c Category) []Game {
	var out []Game
	for _, g := range catalogue {
		if g.Category == c {
			out = append(out, g)
		}
	}
	return out
}

// Name returns the display name for id, or id itself when unknown.
func Name(id string) string {
	if g, ok := byID[id]; ok {
		return g.Name
	}
	return id
}
