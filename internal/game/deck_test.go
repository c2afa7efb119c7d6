package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func countKinds(cards []Card) map[Card]int {
	counts := make(map[Card]int)
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

func TestNewDeckComposition(t *testing.T) {
	d := NewDeck()
	require.Equal(t, DeckSize, d.Remaining())

	counts := countKinds(d)
	require.Equal(t, CopiesPerKind, counts[CardRock])
	require.Equal(t, CopiesPerKind, counts[CardPaper])
	require.Equal(t, CopiesPerKind, counts[CardScissors])
}

func TestDrawRemovesWithoutReplacement(t *testing.T) {
	d := NewDeck()

	hand := d.Draw(HandSize)
	require.Len(t, hand, HandSize)
	require.Equal(t, DeckSize-HandSize, d.Remaining())

	// Multiset conservation: deck + hand together are still exactly
	// the original {3,3,3}.
	counts := countKinds(append(append([]Card{}, d...), hand...))
	for _, kind := range []Card{CardRock, CardPaper, CardScissors} {
		require.Equal(t, CopiesPerKind, counts[kind], "kind %s", kind)
	}
}

func TestDrawDegradesWhenDeckNearlyEmpty(t *testing.T) {
	d := NewDeck()
	d.Draw(7)
	require.Equal(t, 2, d.Remaining())

	hand := d.Draw(HandSize)
	require.Len(t, hand, 2)
	require.Equal(t, 0, d.Remaining())

	require.Empty(t, d.Draw(HandSize))
}

func TestResetRestoresFullDeck(t *testing.T) {
	d := NewDeck()
	d.Draw(6)

	d.Reset()
	require.Equal(t, DeckSize, d.Remaining())

	counts := countKinds(d)
	require.Equal(t, CopiesPerKind, counts[CardRock])
	require.Equal(t, CopiesPerKind, counts[CardPaper])
	require.Equal(t, CopiesPerKind, counts[CardScissors])
}

func TestSequentialDrawsNeverOverlap(t *testing.T) {
	// Two hands drawn from the same shrinking multiset can never hold
	// more copies of a kind than the deck started with.
	for i := 0; i < 50; i++ {
		d := NewDeck()
		first := d.Draw(HandSize)
		second := d.Draw(HandSize)

		counts := countKinds(append(append([]Card{}, first...), second...))
		for kind, n := range counts {
			require.LessOrEqual(t, n, CopiesPerKind, "kind %s", kind)
		}
	}
}
