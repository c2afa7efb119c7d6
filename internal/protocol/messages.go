// Package protocol defines the JSON messages exchanged with clients.
// The message names are fixed: they are the socket.io event names the
// browser client already listens for.
package protocol

import (
	"encoding/json"

	"jokenpo-server/internal/game"
)

// Client -> Server
const (
	MsgLogin      = "login"
	MsgCreateRoom = "createRoom"
	MsgEnterRoom  = "enterRoom"
	MsgStart      = "start"
	MsgSelectCard = "selectCard"
	MsgFinishGame = "finish_game"
	MsgReset      = "reset"
)

// Server -> Client
const (
	MsgRoomCreated     = "roomCreated"
	MsgConnectionError = "connectionError"
	MsgUsersOnline     = "usersOnline"
	MsgChangeCards     = "changeCards"
	MsgOponentCards    = "oponentCards"
	MsgCardSelected    = "cardSelected"
	MsgAlreadyPlayed   = "alreadyPlayed"
	MsgResultGame      = "result_game"
	MsgCardsMatch      = "cardsMatch"
	MsgDisconnectRoom  = "disconnect_room"
)

// Winner values in result_game, relative to the recipient.
const (
	WinnerYou     = "you"
	WinnerOponent = "oponente"
	WinnerTie     = "empate"
)

type ClientMessage struct {
	Type      string `json:"type"`
	Username  string `json:"username,omitempty"`
	Code      string `json:"code,omitempty"`
	CardIndex int    `json:"cardIndex"`
}

type ServerMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RoomCreatedPayload struct {
	Code string `json:"code"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type UsersOnlinePayload struct {
	Users []User `json:"users"`
}

type ChangeCardsPayload struct {
	Cards []game.Card `json:"cards"`
}

type OponentCardsPayload struct {
	Count int `json:"count"`
}

type CardSelectedPayload struct {
	ID string `json:"id"`
}

type AlreadyPlayedPayload struct {
	AlreadyPlayed bool `json:"alreadyPlayed"`
}

type Points struct {
	You     int `json:"you"`
	Oponent int `json:"oponent"`
}

type ResultGamePayload struct {
	Points Points `json:"points"`
	Winner string `json:"winner,omitempty"`
}

type CardsMatchPayload struct {
	You     game.Card `json:"you"`
	Oponent game.Card `json:"oponent"`
}

// New builds a ServerMessage envelope. Payloads here are plain structs
// that always marshal; a failure would be a programming error.
func New(msgType string, payload any) ServerMessage {
	m := ServerMessage{Type: msgType}
	if payload != nil {
		m.Payload, _ = json.Marshal(payload)
	}
	return m
}

// Decode unmarshals the payload into out, for clients and tests.
func (m ServerMessage) Decode(out any) error {
	return json.Unmarshal(m.Payload, out)
}
