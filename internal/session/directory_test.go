package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jokenpo-server/internal/game"
)

func TestDirectoryLifecycle(t *testing.T) {
	d := NewDirectory()

	_, ok := d.Get("conn-1")
	require.False(t, ok)

	d.Put(Session{ConnID: "conn-1", Username: "alice", Role: game.RoleHost, RoomCode: "AB12C"})
	d.Put(Session{ConnID: "conn-2", Username: "bob", Role: game.RoleChallenger, RoomCode: "AB12C"})
	require.Equal(t, 2, d.Len())

	sess, ok := d.Get("conn-1")
	require.True(t, ok)
	require.Equal(t, "alice", sess.Username)
	require.Equal(t, game.RoleHost, sess.Role)
	require.Equal(t, "AB12C", sess.RoomCode)

	d.Remove("conn-1")
	_, ok = d.Get("conn-1")
	require.False(t, ok)
	require.Equal(t, 1, d.Len())

	// Removing an unknown connection is a no-op.
	d.Remove("conn-1")
	require.Equal(t, 1, d.Len())
}

func TestPutOverwritesExistingSession(t *testing.T) {
	d := NewDirectory()

	d.Put(Session{ConnID: "conn-1", Username: "alice", Role: game.RoleHost, RoomCode: "AB12C"})
	d.Put(Session{ConnID: "conn-1", Username: "alice", Role: game.RoleChallenger, RoomCode: "XY99Z"})

	sess, _ := d.Get("conn-1")
	require.Equal(t, "XY99Z", sess.RoomCode)
	require.Equal(t, game.RoleChallenger, sess.Role)
	require.Equal(t, 1, d.Len())
}
