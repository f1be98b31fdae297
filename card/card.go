package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card.
//
// Encoding:
// - high nibble: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - low nibble:  rank (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
//
// The deck holds exactly one copy of every suit/rank combination, so the
// byte value doubles as the card's unique identity.
type Card byte

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}

	suit := Suit(c >> 4)
	rank := c & 0x0F

	rankStr := ""
	switch rank {
	case 1:
		rankStr = "A"
	case 10:
		rankStr = "T"
	case 11:
		rankStr = "J"
	case 12:
		rankStr = "Q"
	case 13:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", rank)
	}

	return fmt.Sprintf("%s%s", suit, rankStr)
}

// Rank returns the card's rank 1-13 (A=1, K=13).
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the card's suit (0:Spade, 1:Heart, 2:Club, 3:Diamond).
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Counting value constants. These are rule configuration, not derived data.
const (
	AceValue      = 1
	FaceCardValue = 10
)

// FaceValue returns the card's counting value: numeral ranks count their
// numeral, T counts 10, the court cards J/Q/K count FaceCardValue and the
// Ace counts AceValue. Wildcard zeroing is the scoring engine's concern,
// not the card's.
func (c Card) FaceValue() int {
	r := int(c & 0x0F)
	switch {
	case r == 0:
		return 0
	case r == 1:
		return AceValue
	case r > 10:
		return FaceCardValue
	default:
		return r
	}
}

// ParseCard converts a string such as "As", "Td" or "10h" into a Card.
func ParseCard(cardStr string) (Card, error) {
	if len(cardStr) < 2 {
		return 0, fmt.Errorf("invalid card string: %s", cardStr)
	}

	suitChar := cardStr[len(cardStr)-1]
	var suitBase Card

	switch suitChar {
	case 's', 'S':
		suitBase = 0x00
	case 'h', 'H':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 'd', 'D':
		suitBase = 0x30
	default:
		return 0, fmt.Errorf("invalid suit: %c", suitChar)
	}

	rankStr := cardStr[:len(cardStr)-1]
	var rankVal Card

	switch strings.ToUpper(rankStr) {
	case "A":
		rankVal = 0x01
	case "2":
		rankVal = 0x02
	case "3":
		rankVal = 0x03
	case "4":
		rankVal = 0x04
	case "5":
		rankVal = 0x05
	case "6":
		rankVal = 0x06
	case "7":
		rankVal = 0x07
	case "8":
		rankVal = 0x08
	case "9":
		rankVal = 0x09
	case "T", "10":
		rankVal = 0x0A
	case "J":
		rankVal = 0x0B
	case "Q":
		rankVal = 0x0C
	case "K":
		rankVal = 0x0D
	default:
		return 0, fmt.Errorf("invalid rank: %s", rankStr)
	}

	return suitBase + rankVal, nil
}
