// Package gateway is the protocol boundary: it admits connections,
// validates identity and room commands, dispatches them to the registry
// and the room actors, and relays room notifications back out.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jokenpo-server/internal/game"
	"jokenpo-server/internal/hub"
	"jokenpo-server/internal/protocol"
	"jokenpo-server/internal/room"
	"jokenpo-server/internal/session"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 10

	writeTimeout = 3 * time.Second
)

type Gateway struct {
	hub      *hub.Hub
	sessions *session.Directory
	log      *zap.Logger
	origins  []string
}

func New(h *hub.Hub, sessions *session.Directory, log *zap.Logger, origins []string) *Gateway {
	return &Gateway{hub: h, sessions: sessions, log: log, origins: origins}
}

func (g *Gateway) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: g.origins,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		log := g.log.With(zap.String("conn", connID))
		log.Info("connected")

		// The room actor owns this channel once the connection joins a
		// room; whoever closes it ends the writer below.
		outbox := make(chan protocol.ServerMessage, 8)

		defer func() {
			if sess, ok := g.sessions.Get(connID); ok {
				g.sessions.Remove(connID)
				if rm := g.room(sess.RoomCode); rm != nil {
					rm.Inbox() <- room.Leave{ClientID: connID}
				}
			} else {
				close(outbox)
			}
			log.Info("disconnected")
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(context.Background())
		defer writeCancel()
		go func() {
			for msg := range outbox {
				g.write(writeCtx, conn, msg)
			}
			// Outbox closed: the room tore down or we were rejected.
			// Closing the connection unblocks the reader loop, so a
			// "room closed" is a forced disconnect, not a limbo state.
			conn.Close(websocket.StatusNormalClosure, "room closed")
		}()

		var username string

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or broken pipe, either way the deferred
				// cleanup tears down the session.
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Debug("malformed frame", zap.Error(err))
				continue
			}

			switch cm.Type {
			case protocol.MsgLogin:
				if username != "" {
					continue // already authenticated
				}
				reason, ok := validUsername(cm.Username)
				if !ok {
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: reason}))
					log.Info("login rejected", zap.String("reason", reason))
					return
				}
				username = cm.Username
				log.Info("logged in", zap.String("username", username))

			case protocol.MsgCreateRoom:
				if username == "" {
					continue // must log in first
				}
				if _, ok := g.sessions.Get(connID); ok {
					// Already in a room: reject, then force disconnect.
					// Writing here is safe alongside the writer goroutine;
					// the connection serializes concurrent writes.
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: "already in a room"}))
					return
				}

				rm, err := g.createRoom()
				if err != nil {
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: "could not create room"}))
					return
				}
				g.write(r.Context(), conn, protocol.New(protocol.MsgRoomCreated,
					protocol.RoomCreatedPayload{Code: rm.Code()}))

				role, err := joinRoom(rm, connID, username, outbox)
				if err != nil {
					return
				}
				g.sessions.Put(session.Session{
					ConnID:   connID,
					Username: username,
					Role:     role,
					RoomCode: rm.Code(),
				})

			case protocol.MsgEnterRoom:
				if username == "" {
					continue
				}
				if _, ok := g.sessions.Get(connID); ok {
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: "already in a room"}))
					return
				}

				rm := g.room(cm.Code)
				if rm == nil {
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: "room not found"}))
					return
				}
				role, err := joinRoom(rm, connID, username, outbox)
				if err != nil {
					// A room that died between lookup and join reads
					// the same as an unknown code.
					reason := "room is full"
					if errors.Is(err, room.ErrRoomClosed) {
						reason = "room not found"
					}
					g.write(r.Context(), conn, protocol.New(protocol.MsgConnectionError,
						protocol.ErrorPayload{Message: reason}))
					return
				}
				g.sessions.Put(session.Session{
					ConnID:   connID,
					Username: username,
					Role:     role,
					RoomCode: cm.Code,
				})

			case protocol.MsgStart, protocol.MsgFinishGame, protocol.MsgReset:
				// Host-only commands. Anything off is a silent no-op.
				sess, ok := g.sessions.Get(connID)
				if !ok || sess.Role != game.RoleHost {
					continue
				}
				rm := g.room(sess.RoomCode)
				if rm == nil {
					continue
				}
				rm.Inbox() <- room.FromClient{
					ClientID: connID,
					Cmd:      game.Command{Type: commandFor(cm.Type)},
				}

			case protocol.MsgSelectCard:
				sess, ok := g.sessions.Get(connID)
				if !ok {
					continue
				}
				rm := g.room(sess.RoomCode)
				if rm == nil {
					continue
				}
				rm.Inbox() <- room.FromClient{
					ClientID: connID,
					Cmd: game.Command{
						Type:      game.CmdSelectCard,
						Role:      sess.Role,
						CardIndex: cm.CardIndex,
					},
				}

			default:
				log.Debug("unknown message type", zap.String("type", cm.Type))
			}
		}
	}
}

func commandFor(msgType string) game.CommandType {
	switch msgType {
	case protocol.MsgStart:
		return game.CmdDeal
	case protocol.MsgFinishGame:
		return game.CmdResolve
	default:
		return game.CmdReset
	}
}

func validUsername(username string) (string, bool) {
	switch n := utf8.RuneCountInString(username); {
	case username == "":
		return "username is required", false
	case n < minUsernameLen:
		return "username too short", false
	case n > maxUsernameLen:
		return "username too long", false
	}
	return "", true
}

// createRoom allocates a room under a fresh code, regenerating on the
// off chance the code collides with a live room.
func (g *Gateway) createRoom() (*room.Room, error) {
	for {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		reply := make(chan hub.CreateReply, 1)
		g.hub.Inbox() <- hub.CreateRoom{Code: code, Reply: reply}
		rep := <-reply
		if errors.Is(rep.Err, hub.ErrRoomExists) {
			g.log.Warn("room code collision, regenerating", zap.String("code", code))
			continue
		}
		return rep.Room, rep.Err
	}
}

func (g *Gateway) room(code string) *room.Room {
	reply := make(chan *room.Room, 1)
	g.hub.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
	return <-reply
}

func joinRoom(rm *room.Room, connID, username string, outbox chan protocol.ServerMessage) (game.Role, error) {
	reply := make(chan room.JoinReply, 1)
	rm.Inbox() <- room.Join{
		ClientID: connID,
		Username: username,
		Outbox:   outbox,
		Reply:    reply,
	}
	select {
	case rep := <-reply:
		return rep.Role, rep.Err
	case <-rm.Done():
		// The room tore down before answering. A reply may still have
		// squeaked through just before.
		select {
		case rep := <-reply:
			return rep.Role, rep.Err
		default:
			return "", room.ErrRoomClosed
		}
	}
}

func (g *Gateway) write(ctx context.Context, conn *websocket.Conn, msg protocol.ServerMessage) {
	payload, _ := json.Marshal(msg)
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
