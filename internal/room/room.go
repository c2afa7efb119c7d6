// Package room owns the state of one two-player match. All mutation of
// a room's deck, hands, selections and score happens inside the room's
// single loop goroutine, so commands from the two occupants are
// serialized into some total order without locks.
package room

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"jokenpo-server/internal/game"
	"jokenpo-server/internal/protocol"
)

var ErrRoomFull = errors.New("room is full")
var ErrRoomClosed = errors.New("room is closed")

type Msg interface{ isRoomMsg() }

// Join registers a connection. The first joiner is the host (the
// creator joins its own room immediately after creation); the second is
// always the challenger.
type Join struct {
	ClientID string
	Username string
	Outbox   chan protocol.ServerMessage
	Reply    chan JoinReply
}

func (Join) isRoomMsg() {}

type JoinReply struct {
	Role game.Role
	Err  error
}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type FromClient struct {
	ClientID string
	Cmd      game.Command
}

func (FromClient) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState reflects internal state without data races; used by tests
// and nothing else.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type View struct {
	Code       string
	NumClients int
	State      game.State
}

type client struct {
	id       string
	username string
	role     game.Role
	outbox   chan protocol.ServerMessage
}

type Room struct {
	code    string
	inbox   chan Msg
	state   game.State
	clients map[string]*client
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	onClose func()
}

// NewRoom starts the room's loop. onClose runs once when the room tears
// down, after every client outbox has been closed; the registry uses it
// to drop the code.
func NewRoom(parent context.Context, code string, log *zap.Logger, onClose func()) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   game.NewState(),
		clients: make(map[string]*client),
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With(zap.String("room", code)),
		onClose: onClose,
	}

	go r.loop()
	return r
}

func (r *Room) Code() string { return r.code }

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed when the room has torn down and will never answer
// another message.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.close()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				if len(r.clients) >= 2 {
					msg.Reply <- JoinReply{Err: ErrRoomFull}
					break
				}

				role := game.RoleHost
				if r.clientByRole(game.RoleHost) != nil {
					role = game.RoleChallenger
				}
				r.clients[msg.ClientID] = &client{
					id:       msg.ClientID,
					username: msg.Username,
					role:     role,
					outbox:   msg.Outbox,
				}
				r.state = game.OccupantsChanged(r.state, len(r.clients))
				msg.Reply <- JoinReply{Role: role}

				r.log.Info("player joined",
					zap.String("client", msg.ClientID),
					zap.String("role", string(role)))
				r.broadcast(r.usersOnline())

			case Leave:
				r.handleLeave(msg.ClientID)
				if len(r.clients) == 0 {
					// Host gone, or room vacated entirely.
					r.close()
					return
				}

			case FromClient:
				events, newState, err := game.Apply(r.state, msg.Cmd)
				if err != nil {
					// Guard violation: silent no-op by design.
					r.log.Debug("command ignored",
						zap.String("client", msg.ClientID),
						zap.String("cmd", string(msg.Cmd.Type)),
						zap.Error(err))
					break
				}
				r.state = newState
				r.emit(events)

			case GetState:
				msg.Reply <- View{
					Code:       r.code,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.close()
				return
			}

			if r.reconcileDrops() {
				return
			}
		}
	}
}

// reconcileDrops settles the occupant count after a slow client was
// dropped mid-broadcast. Losing the host closes the room, same as a
// disconnect; losing the challenger resets to the waiting baseline.
func (r *Room) reconcileDrops() (closed bool) {
	for r.state.Occupants != len(r.clients) {
		if len(r.clients) == 0 || r.clientByRole(game.RoleHost) == nil {
			r.broadcast(protocol.New(protocol.MsgDisconnectRoom, nil))
			r.close()
			return true
		}

		r.state = game.OccupantsChanged(r.state, len(r.clients))
		events, newState, _ := game.Apply(r.state, game.Command{Type: game.CmdReset})
		r.state = newState

		r.broadcast(protocol.New(protocol.MsgDisconnectRoom, nil))
		r.broadcast(r.usersOnline())
		r.emit(events)
	}
	return false
}

func (r *Room) handleLeave(clientID string) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)
	close(c.outbox)

	r.log.Info("player left",
		zap.String("client", clientID),
		zap.String("role", string(c.role)))

	if c.role == game.RoleHost {
		// Host leaving ends the room unconditionally. Tell the
		// remaining occupant and drop everyone.
		r.broadcast(protocol.New(protocol.MsgDisconnectRoom, nil))
		for id, other := range r.clients {
			close(other.outbox)
			delete(r.clients, id)
		}
		return
	}

	// Challenger left: the room survives and returns to a clean
	// waiting-for-opponent baseline.
	r.state = game.OccupantsChanged(r.state, len(r.clients))
	events, newState, _ := game.Apply(r.state, game.Command{Type: game.CmdReset})
	r.state = newState

	r.broadcast(protocol.New(protocol.MsgDisconnectRoom, nil))
	r.broadcast(r.usersOnline())
	r.emit(events)
}

// emit translates state-machine events into the outbound notifications
// each audience is allowed to see. Hands go only to their owner; the
// opponent ever learns only the count.
func (r *Room) emit(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EvtDeckReshuffled:
			r.log.Debug("deck reshuffled")

		case game.EvtHandsDealt:
			for _, c := range r.clients {
				r.send(c, protocol.New(protocol.MsgChangeCards, protocol.ChangeCardsPayload{
					Cards: handOf(r.state, c.role),
				}))
				r.send(c, protocol.New(protocol.MsgOponentCards, protocol.OponentCardsPayload{
					Count: len(handOf(r.state, c.role.Opponent())),
				}))
			}

		case game.EvtCardSelected:
			selector := r.clientByRole(ev.Role)
			if selector == nil {
				break
			}
			r.send(selector, protocol.New(protocol.MsgChangeCards, protocol.ChangeCardsPayload{
				Cards: handOf(r.state, ev.Role),
			}))
			r.send(selector, protocol.New(protocol.MsgAlreadyPlayed, protocol.AlreadyPlayedPayload{
				AlreadyPlayed: true,
			}))
			if opponent := r.clientByRole(ev.Role.Opponent()); opponent != nil {
				r.send(opponent, protocol.New(protocol.MsgOponentCards, protocol.OponentCardsPayload{
					Count: len(handOf(r.state, ev.Role)),
				}))
			}
			r.broadcast(protocol.New(protocol.MsgCardSelected, protocol.CardSelectedPayload{
				ID: selector.id,
			}))

		case game.EvtRoundResolved:
			for _, c := range r.clients {
				r.send(c, protocol.New(protocol.MsgResultGame, r.resultFor(c.role, ev.Outcome)))
				reveal := protocol.CardsMatchPayload{You: ev.Host, Oponent: ev.Challenger}
				if c.role == game.RoleChallenger {
					reveal = protocol.CardsMatchPayload{You: ev.Challenger, Oponent: ev.Host}
				}
				r.send(c, protocol.New(protocol.MsgCardsMatch, reveal))
			}

		case game.EvtMatchReset:
			for _, c := range r.clients {
				r.send(c, protocol.New(protocol.MsgChangeCards, protocol.ChangeCardsPayload{
					Cards: []game.Card{},
				}))
				r.send(c, protocol.New(protocol.MsgResultGame, r.resultFor(c.role, "")))
			}
		}
	}
}

func (r *Room) resultFor(role game.Role, outcome game.Outcome) protocol.ResultGamePayload {
	points := protocol.Points{You: r.state.Score.Host, Oponent: r.state.Score.Challenger}
	if role == game.RoleChallenger {
		points = protocol.Points{You: r.state.Score.Challenger, Oponent: r.state.Score.Host}
	}

	var winner string
	switch outcome {
	case game.OutcomeTie:
		winner = protocol.WinnerTie
	case game.OutcomeHost:
		winner = protocol.WinnerOponent
		if role == game.RoleHost {
			winner = protocol.WinnerYou
		}
	case game.OutcomeChallenger:
		winner = protocol.WinnerOponent
		if role == game.RoleChallenger {
			winner = protocol.WinnerYou
		}
	}
	return protocol.ResultGamePayload{Points: points, Winner: winner}
}

func (r *Room) usersOnline() protocol.ServerMessage {
	users := make([]protocol.User, 0, len(r.clients))
	for _, role := range []game.Role{game.RoleHost, game.RoleChallenger} {
		if c := r.clientByRole(role); c != nil {
			users = append(users, protocol.User{ID: c.id, Username: c.username, Role: string(c.role)})
		}
	}
	return protocol.New(protocol.MsgUsersOnline, protocol.UsersOnlinePayload{Users: users})
}

func (r *Room) clientByRole(role game.Role) *client {
	for _, c := range r.clients {
		if c.role == role {
			return c
		}
	}
	return nil
}

func handOf(s game.State, role game.Role) []game.Card {
	hand := s.HostHand
	if role == game.RoleChallenger {
		hand = s.ChallengerHand
	}
	if hand == nil {
		hand = []game.Card{}
	}
	return hand
}

func (r *Room) send(c *client, msg protocol.ServerMessage) {
	if _, ok := r.clients[c.id]; !ok {
		// Already dropped earlier in this handler.
		return
	}
	select {
	case c.outbox <- msg:
	default:
		// Client is slow/full - drop them.
		close(c.outbox)
		delete(r.clients, c.id)
	}
}

func (r *Room) broadcast(msg protocol.ServerMessage) {
	for _, c := range r.clients {
		r.send(c, msg)
	}
}

func (r *Room) close() {
	for id, c := range r.clients {
		close(c.outbox)
		delete(r.clients, id)
	}
	r.cancel()
	if r.onClose != nil {
		r.onClose()
	}
}
