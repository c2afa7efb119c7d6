// Package session tracks which room and role each connection currently
// occupies. A connection without a session is unauthenticated room-wise
// and may only attempt login, createRoom or enterRoom.
package session

import (
	"sync"

	"jokenpo-server/internal/game"
)

type Session struct {
	ConnID   string
	Username string
	Role     game.Role
	RoomCode string
}

// Directory maps connection IDs to sessions. At most one session per
// connection; created on successful join, removed on disconnect.
type Directory struct {
	mu     sync.RWMutex
	byConn map[string]Session
}

func NewDirectory() *Directory {
	return &Directory{byConn: make(map[string]Session)}
}

func (d *Directory) Put(s Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byConn[s.ConnID] = s
}

func (d *Directory) Get(connID string) (Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.byConn[connID]
	return s, ok
}

func (d *Directory) Remove(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byConn, connID)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byConn)
}
