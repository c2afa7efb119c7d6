// Package hub is the registry of live rooms. A single goroutine owns
// the code->room map, so creation, lookup and teardown never race.
package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"jokenpo-server/internal/room"
)

// ErrRoomExists is returned when a freshly generated code collides with
// a live room. The caller retries with a new code; the collision is
// never surfaced to a user.
var ErrRoomExists = errors.New("room code already in use")

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	Reply chan CreateReply
}

type CreateReply struct {
	Room *room.Room
	Err  error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if h.rooms[msg.Code] != nil {
					msg.Reply <- CreateReply{Err: ErrRoomExists}
					break
				}

				code := msg.Code
				rm := room.NewRoom(h.ctx, code, h.log, func() {
					// Runs on the room goroutine. Non-blocking: during
					// hub shutdown nobody drains this inbox anymore.
					select {
					case h.inbox <- RemoveRoom{Code: code}:
					default:
					}
				})
				h.rooms[code] = rm
				h.log.Info("room created", zap.String("room", code))
				msg.Reply <- CreateReply{Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case RemoveRoom:
				if h.rooms[msg.Code] != nil {
					h.log.Info("room removed", zap.String("room", msg.Code))
				}
				delete(h.rooms, msg.Code)

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
				return
			}
		}
	}
}
