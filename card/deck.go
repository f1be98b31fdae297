package card

import (
	"errors"
	"math/rand"
)

// DeckSize is the number of cards in a full four-suit, thirteen-rank deck.
const DeckSize = 52

// FullDeck lists every card once, in suit then rank order.
var FullDeck = []Card{
	CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5, CardSpade6,
	CardSpade7, CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK,
	CardHeartA, CardHeart2, CardHeart3, CardHeart4, CardHeart5, CardHeart6,
	CardHeart7, CardHeart8, CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK,
	CardClubA, CardClub2, CardClub3, CardClub4, CardClub5, CardClub6,
	CardClub7, CardClub8, CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK,
	CardDiamondA, CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5, CardDiamond6,
	CardDiamond7, CardDiamond8, CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK,
}

// ErrNotRecyclable reports a recycle attempt against a discard pile with
// fewer than 2 cards: the visible top must stay where it is, so there is
// nothing left to rebuild the draw pile from.
var ErrNotRecyclable = errors.New("discard pile has no recyclable cards")

// NewDeck returns a fresh, ordered full deck.
func NewDeck() CardList {
	var deck CardList
	deck.Init(FullDeck)
	return deck
}

// NewShuffledDeck returns a full deck permuted by rng.
func NewShuffledDeck(rng *rand.Rand) CardList {
	deck := NewDeck()
	deck.Shuffle(rng)
	return deck
}

// Recycle rebuilds an exhausted draw pile from the discard pile: the top
// discard is set aside and stays visible, the remainder is shuffled into the
// new draw pile, and the set-aside card becomes the sole discard entry.
func Recycle(discard CardList, rng *rand.Rand) (draw, newDiscard CardList, err error) {
	if discard.Count() < 2 {
		return nil, nil, ErrNotRecyclable
	}
	top := discard.Top()
	draw = discard[:discard.Count()-1].Clone()
	draw.Shuffle(rng)
	newDiscard = CardList{top}
	return draw, newDiscard, nil
}
