package diplomacy

import (
	"math"
	"testing"
)

func TestSquareScoresSumToOne(t *testing.T) {
	s := NewInitialState()
	scores := SquareScores(s)
	if len(scores) != 7 {
		t.Fatalf("expected 7 scores, got %d", len(scores))
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("scores sum to %v, want 1.0", sum)
	}
	// Russia starts with 4 of 22 centers; everyone else 3. Squared
	// scoring gives Russia 16/70 and the rest 9/70.
	if math.Abs(scores[PowerIndex(Russia)]-16.0/70.0) > 1e-9 {
		t.Errorf("Russia score %v, want %v", scores[PowerIndex(Russia)], 16.0/70.0)
	}
	if math.Abs(scores[PowerIndex(France)]-9.0/70.0) > 1e-9 {
		t.Errorf("France score %v, want %v", scores[PowerIndex(France)], 9.0/70.0)
	}
}

func TestSquareScoresSoloWinner(t *testing.T) {
	s := NewInitialState()
	n := 0
	for sc := range s.Centers {
		if n < SoloCenterCount {
			s.Centers[sc] = Turkey
			n++
		} else {
			s.Centers[sc] = Neutral
		}
	}
	if SoloWinner(s) != Turkey {
		t.Fatal("Turkey should be the solo winner at 18 centers")
	}
	scores := SquareScores(s)
	for i, p := range AllPowers() {
		want := 0.0
		if p == Turkey {
			want = 1.0
		}
		if scores[i] != want {
			t.Errorf("%s: score %v, want %v", p, scores[i], want)
		}
	}
}

func TestSquareScoresNoCentersSplitsAmongSurvivors(t *testing.T) {
	s := NewInitialState()
	for sc := range s.Centers {
		s.Centers[sc] = Neutral
	}
	s.Units = []Unit{{Army, France, "PAR"}, {Army, Italy, "ROM"}}
	scores := SquareScores(s)
	if scores[PowerIndex(France)] != 0.5 || scores[PowerIndex(Italy)] != 0.5 {
		t.Errorf("survivors should split equally: %v", scores)
	}
}
