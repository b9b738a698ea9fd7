package diplomacy

// SoloCenterCount is the number of supply centers needed for a solo win.
const SoloCenterCount = 18

// SoloWinner returns the power holding 18 or more supply centers,
// or Neutral if none.
func SoloWinner(s *State) Power {
	for _, p := range AllPowers() {
		if s.CenterCount(p) >= SoloCenterCount {
			return p
		}
	}
	return Neutral
}

// SquareScores returns the length-7 score vector in power enum order.
// A solo winner takes the unit vector; otherwise each power scores its
// squared supply-center count over the sum of squares. If no power holds
// a center, surviving powers split the pot equally. The vector always
// sums to 1 while any power survives.
func SquareScores(s *State) []float64 {
	scores := make([]float64, 7)

	if solo := SoloWinner(s); solo != Neutral {
		scores[PowerIndex(solo)] = 1
		return scores
	}

	var sumSquares float64
	for _, p := range AllPowers() {
		c := float64(s.CenterCount(p))
		sumSquares += c * c
	}

	if sumSquares > 0 {
		for i, p := range AllPowers() {
			c := float64(s.CenterCount(p))
			scores[i] = c * c / sumSquares
		}
		return scores
	}

	var alive []int
	for i, p := range AllPowers() {
		if s.PowerIsAlive(p) {
			alive = append(alive, i)
		}
	}
	for _, i := range alive {
		scores[i] = 1 / float64(len(alive))
	}
	return scores
}
