package card

import "math/rand"

// CardList is an ordered pile of cards. The back of the slice is the top of
// the pile: PopTop draws the most recently added card.
type CardList []Card

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count returns the number of cards in the pile.
func (ds CardList) Count() int {
	return len(ds)
}

// Top returns the visible top card without removing it.
func (ds CardList) Top() Card {
	if len(ds) == 0 {
		return CardInvalid
	}
	return ds[len(ds)-1]
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the pile.
func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// Shuffle permutes the pile in place with Fisher-Yates. Each of the N!
// orderings is equally likely given a uniform rng.
func (ds CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// PopTop removes and returns the top card, or CardInvalid when empty.
func (ds *CardList) PopTop() Card {
	totalCount := ds.Count()
	if totalCount == 0 {
		return CardInvalid
	}
	c := (*ds)[totalCount-1]
	*ds = (*ds)[:totalCount-1]
	return c
}

// Remove deletes the first occurrence of c, preserving order.
// Returns false when c is not in the pile.
func (ds *CardList) Remove(c Card) bool {
	for i, cc := range *ds {
		if cc == c {
			*ds = append((*ds)[:i], (*ds)[i+1:]...)
			return true
		}
	}
	return false
}
