package card

import (
	"math"
	"math/rand"
	"testing"
)

// Over many trials each card should land on each position with frequency
// close to 1/N. A chi-squared style bound would be stricter; a simple
// tolerance around the expected count is enough to catch a biased swap loop.
func TestShuffle_Fairness(t *testing.T) {
	const trials = 20000
	rng := rand.New(rand.NewSource(42))

	// counts[position][card] over all trials
	counts := make([]map[Card]int, DeckSize)
	for i := range counts {
		counts[i] = make(map[Card]int, DeckSize)
	}

	for trial := 0; trial < trials; trial++ {
		deck := NewShuffledDeck(rng)
		for pos, c := range deck {
			counts[pos][c]++
		}
	}

	expected := float64(trials) / float64(DeckSize)
	// 5 sigma of a binomial(trials, 1/52)
	sigma := math.Sqrt(float64(trials) * (1.0 / DeckSize) * (1.0 - 1.0/DeckSize))
	tolerance := 5 * sigma

	for pos := 0; pos < DeckSize; pos++ {
		for _, c := range FullDeck {
			got := float64(counts[pos][c])
			if math.Abs(got-expected) > tolerance {
				t.Fatalf("card %v at position %d occurred %v times, expected %v ± %v",
					c, pos, got, expected, tolerance)
			}
		}
	}
}

func TestRecycle_KeepsVisibleTop(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	discard := CardList{CardSpade2, CardHeart9, CardClubK, CardDiamondA}
	top := discard.Top()

	draw, newDiscard, err := Recycle(discard, rng)
	if err != nil {
		t.Fatalf("Recycle err: %v", err)
	}
	if draw.Count() != 3 {
		t.Fatalf("expected new draw pile of 3, got %d", draw.Count())
	}
	if newDiscard.Count() != 1 || newDiscard.Top() != top {
		t.Fatalf("expected discard pile [%v], got %v", top, newDiscard)
	}
	if draw.Contains(top) {
		t.Fatalf("visible top card leaked into the draw pile")
	}
}

func TestRecycle_RejectsThinDiscard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	if _, _, err := Recycle(CardList{CardSpade2}, rng); err != ErrNotRecyclable {
		t.Fatalf("expected ErrNotRecyclable, got %v", err)
	}
	if _, _, err := Recycle(nil, rng); err != ErrNotRecyclable {
		t.Fatalf("expected ErrNotRecyclable for empty pile, got %v", err)
	}
}
