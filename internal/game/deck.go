package game

import "math/rand/v2"

const (
	// CopiesPerKind is how many of each card kind a full deck holds.
	CopiesPerKind = 3

	// DeckSize is the full deck: three of each of the three kinds.
	DeckSize = 9

	// HandSize is how many cards a deal tries to draw per role.
	HandSize = 3
)

// Deck is the room-scoped shared pool of undealt cards. Size only
// decreases via Draw and only returns to DeckSize via Reset.
type Deck []Card

func NewDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for _, kind := range []Card{CardRock, CardPaper, CardScissors} {
		for i := 0; i < CopiesPerKind; i++ {
			d = append(d, kind)
		}
	}
	return d
}

// Draw removes up to n cards chosen uniformly at random without
// replacement. Returns fewer than n when the deck is nearly empty;
// never errors.
func (d *Deck) Draw(n int) []Card {
	hand := make([]Card, 0, n)
	for len(hand) < n && len(*d) > 0 {
		i := rand.IntN(len(*d))
		hand = append(hand, (*d)[i])
		*d = append((*d)[:i], (*d)[i+1:]...)
	}
	return hand
}

// Reset restores the full nine-card composition, discarding whatever
// remained.
func (d *Deck) Reset() {
	*d = NewDeck()
}

func (d Deck) Remaining() int { return len(d) }
