package game

import "errors"

var ErrNotEnoughPlayers = errors.New("room is not full")
var ErrSelectionPending = errors.New("selection already in flight")
var ErrAlreadySelected = errors.New("role already selected this round")
var ErrInvalidCardIndex = errors.New("card index out of range")
var ErrRoundIncomplete = errors.New("both selections required")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseWaiting          Phase = "waiting"
	PhaseReady            Phase = "ready"
	PhaseDealt            Phase = "dealt"
	PhaseAwaitingOpponent Phase = "awaiting_opponent"
	PhaseResolved         Phase = "resolved"
)

// reshuffleThreshold: a deal that finds this many cards or fewer in the
// deck resets it first, so both hands come from a fresh pool.
const reshuffleThreshold = 3

// Selection holds each role's committed card for the current round.
// The zero Card means no selection yet.
type Selection struct {
	Host       Card
	Challenger Card
}

type Score struct {
	Host       int
	Challenger int
}

type State struct {
	Deck           Deck
	HostHand       []Card
	ChallengerHand []Card
	Selection      Selection
	Score          Score
	Occupants      int
	Phase          Phase
}

func NewState() State {
	return State{
		Deck:  NewDeck(),
		Phase: PhaseWaiting,
	}
}

func (s State) hand(r Role) []Card {
	if r == RoleHost {
		return s.HostHand
	}
	return s.ChallengerHand
}

func (s State) selected(r Role) bool {
	if r == RoleHost {
		return s.Selection.Host != ""
	}
	return s.Selection.Challenger != ""
}

type CommandType string

const (
	CmdDeal       CommandType = "Deal"
	CmdSelectCard CommandType = "SelectCard"
	CmdResolve    CommandType = "Resolve"
	CmdReset      CommandType = "Reset"
)

type Command struct {
	Type      CommandType
	Role      Role
	CardIndex int
}

type EventType string

const (
	EvtDeckReshuffled EventType = "DeckReshuffled"
	EvtHandsDealt     EventType = "HandsDealt"
	EvtCardSelected   EventType = "CardSelected"
	EvtRoundResolved  EventType = "RoundResolved"
	EvtMatchReset     EventType = "MatchReset"
)

type Event struct {
	Type       EventType
	Role       Role
	Outcome    Outcome
	Host       Card // revealed card on RoundResolved
	Challenger Card // revealed card on RoundResolved
}

// OccupantsChanged records a join or departure and keeps the phase
// consistent with the occupant count. It never interrupts a round in
// progress: the caller resets the room separately when a player leaves.
func OccupantsChanged(s State, n int) State {
	s.Occupants = n
	if n < 2 {
		s.Phase = PhaseWaiting
	} else if s.Phase == PhaseWaiting {
		s.Phase = PhaseReady
	}
	return s
}

// Apply runs one command against the round state machine. On error the
// returned state is the input untouched; callers treat guard errors as
// silent no-ops.
func Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s

	switch cmd.Type {
	case CmdDeal:
		if s.Occupants < 2 {
			return nil, s, ErrNotEnoughPlayers
		}
		if s.Selection.Host != "" || s.Selection.Challenger != "" {
			return nil, s, ErrSelectionPending
		}

		// Own the deck before drawing so the splice cannot reach back
		// into the caller's copy.
		newState.Deck = append(Deck(nil), s.Deck...)

		var events []Event
		if newState.Deck.Remaining() <= reshuffleThreshold {
			newState.Deck.Reset()
			events = append(events, Event{Type: EvtDeckReshuffled})
		}

		// Sequential draws from the same shrinking multiset, so the
		// two hands can never overlap.
		newState.HostHand = newState.Deck.Draw(HandSize)
		newState.ChallengerHand = newState.Deck.Draw(HandSize)
		newState.Phase = PhaseDealt

		events = append(events, Event{Type: EvtHandsDealt})
		return events, newState, nil

	case CmdSelectCard:
		if s.selected(cmd.Role) {
			return nil, s, ErrAlreadySelected
		}
		hand := s.hand(cmd.Role)
		if cmd.CardIndex < 0 || cmd.CardIndex >= len(hand) {
			return nil, s, ErrInvalidCardIndex
		}

		card := hand[cmd.CardIndex]
		rest := make([]Card, 0, len(hand)-1)
		rest = append(rest, hand[:cmd.CardIndex]...)
		rest = append(rest, hand[cmd.CardIndex+1:]...)

		if cmd.Role == RoleHost {
			newState.HostHand = rest
			newState.Selection.Host = card
		} else {
			newState.ChallengerHand = rest
			newState.Selection.Challenger = card
		}

		if s.selected(cmd.Role.Opponent()) {
			newState.Phase = PhaseResolved
		} else {
			newState.Phase = PhaseAwaitingOpponent
		}
		return []Event{{Type: EvtCardSelected, Role: cmd.Role}}, newState, nil

	case CmdResolve:
		if s.Selection.Host == "" || s.Selection.Challenger == "" {
			return nil, s, ErrRoundIncomplete
		}

		outcome := Duel(s.Selection.Host, s.Selection.Challenger)
		switch outcome {
		case OutcomeHost:
			newState.Score.Host++
		case OutcomeChallenger:
			newState.Score.Challenger++
		}

		event := Event{
			Type:       EvtRoundResolved,
			Outcome:    outcome,
			Host:       s.Selection.Host,
			Challenger: s.Selection.Challenger,
		}
		newState.Selection = Selection{}
		return []Event{event}, newState, nil

	case CmdReset:
		newState.Deck.Reset()
		newState.HostHand = nil
		newState.ChallengerHand = nil
		newState.Selection = Selection{}
		newState.Score = Score{}
		if newState.Occupants < 2 {
			newState.Phase = PhaseWaiting
		} else {
			newState.Phase = PhaseReady
		}
		return []Event{{Type: EvtMatchReset}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}
