package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestParticipant(id, name string) *Participant {
	return NewParticipant(id, UserProfile{Name: name})
}

func TestParty_FirstJoinerIsHost(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")

	a := newTestParticipant("conn-a", "Alice")
	party.AddParticipant(a)

	req.True(a.IsHost)
	req.Equal("conn-a", party.HostID())
	req.True(party.IsHost("conn-a"))
	req.Equal(DefaultPartyState, party.State())
}

func TestParty_LaterJoinersAreNotHost(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))

	b := newTestParticipant("conn-b", "Bob")
	party.AddParticipant(b)

	req.False(b.IsHost)
	req.Equal(2, party.Size())
	req.True(party.IsHost("conn-a"))
	req.False(party.IsHost("conn-b"))
}

func TestParty_AddSameConnectionTwiceIsNoop(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))
	party.AddParticipant(newTestParticipant("conn-a", "Alice Again"))

	req.Equal(1, party.Size())
	got, ok := party.Get("conn-a")
	req.True(ok)
	req.Equal("Alice", got.Name)
}

func TestParty_ParticipantsSnapshotInJoinOrder(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))
	party.AddParticipant(newTestParticipant("conn-b", "Bob"))
	party.AddParticipant(newTestParticipant("conn-c", "Carol"))

	snapshot := party.Participants()
	req.Len(snapshot, 3)
	req.Equal("Alice", snapshot[0].Name)
	req.Equal("Bob", snapshot[1].Name)
	req.Equal("Carol", snapshot[2].Name)

	// Snapshot is detached from live state.
	party.SetState("playing")
	party.RemoveParticipant("conn-b")
	req.Len(snapshot, 3)
}

func TestParty_ElectHostPromotesEarliestJoined(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))
	party.AddParticipant(newTestParticipant("conn-b", "Bob"))
	party.AddParticipant(newTestParticipant("conn-c", "Carol"))

	removed, ok := party.RemoveParticipant("conn-a")
	req.True(ok)
	req.Equal("Alice", removed.Name)

	newHost := party.ElectHost()
	req.NotNil(newHost)
	req.Equal("conn-b", newHost.ID)
	req.True(newHost.IsHost)
	req.True(party.IsHost("conn-b"))
	req.False(party.IsHost("conn-c"))
}

func TestParty_ElectHostOnEmptyPartyReturnsNil(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))
	party.RemoveParticipant("conn-a")

	req.Nil(party.ElectHost())
	req.Equal(0, party.Size())
}

func TestParty_RemoveUnknownParticipant(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))

	removed, ok := party.RemoveParticipant("conn-zzz")
	req.False(ok)
	req.Nil(removed)
	req.Equal(1, party.Size())
}

func TestParty_HostLeavesWithoutElectionLeavesNoHost(t *testing.T) {
	req := require.New(t)
	party := NewParty("p1", "conn-a")
	party.AddParticipant(newTestParticipant("conn-a", "Alice"))
	party.AddParticipant(newTestParticipant("conn-b", "Bob"))

	party.RemoveParticipant("conn-a")

	// Until ElectHost runs nobody passes the host check.
	req.False(party.IsHost("conn-a"))
	req.False(party.IsHost("conn-b"))
	req.Nil(party.Host())
}
