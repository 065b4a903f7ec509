package claims

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/domain/meeting"
)

var msk = time.FixedZone("MSK", 3*60*60)

// fakeStore implements Store in memory with the same CAS semantics as the
// Postgres repo.
type fakeStore struct {
	mu       sync.Mutex
	meetings map[string]meeting.Meeting
}

func newFakeStore(ms ...meeting.Meeting) *fakeStore {
	s := &fakeStore{meetings: make(map[string]meeting.Meeting)}
	for _, m := range ms {
		s.meetings[m.ExternalID] = m
	}
	return s
}

func (s *fakeStore) FindByExternalID(_ context.Context, id string) (meeting.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok {
		return meeting.Meeting{}, db.ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) TryClaim(_ context.Context, id, claimant string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok || m.IsTaken {
		return false, nil
	}
	m.IsTaken = true
	m.TakenBy = claimant
	s.meetings[id] = m
	return true, nil
}

func (s *fakeStore) Release(_ context.Context, id, claimant string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok || !m.IsTaken || m.TakenBy != claimant {
		return false, nil
	}
	m.IsTaken = false
	m.TakenBy = ""
	s.meetings[id] = m
	return true, nil
}

type fakeRoster map[string]bool

func (r fakeRoster) Exists(_ context.Context, userID string) (bool, error) {
	return r[userID], nil
}

// Wednesday, safely outside any maintenance window.
func openMeeting() meeting.Meeting {
	return meeting.Meeting{
		ExternalID: "E1",
		Title:      "Встреча с клиентом",
		Start:      time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
}

func TestClaim_Success(t *testing.T) {
	store := newFakeStore(openMeeting())
	mgr := NewManager(store, fakeRoster{"100": true}, msk)

	got, err := mgr.Claim(context.Background(), "E1", "100", "ivanov")
	require.NoError(t, err)
	assert.True(t, got.IsTaken)
	assert.Equal(t, "ivanov", got.TakenBy)

	stored, _ := store.FindByExternalID(context.Background(), "E1")
	assert.True(t, stored.IsTaken)
}

func TestClaim_NotAuthorized(t *testing.T) {
	mgr := NewManager(newFakeStore(openMeeting()), fakeRoster{}, msk)

	_, err := mgr.Claim(context.Background(), "E1", "999", "stranger")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestClaim_NotFound(t *testing.T) {
	mgr := NewManager(newFakeStore(), fakeRoster{"100": true}, msk)

	_, err := mgr.Claim(context.Background(), "missing", "100", "ivanov")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaim_AlreadyTakenReportsClaimant(t *testing.T) {
	m := openMeeting()
	m.IsTaken = true
	m.TakenBy = "petrov"
	mgr := NewManager(newFakeStore(m), fakeRoster{"100": true}, msk)

	_, err := mgr.Claim(context.Background(), "E1", "100", "ivanov")

	var taken *AlreadyTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "petrov", taken.Claimant)
}

func TestClaim_WindowConflict(t *testing.T) {
	m := openMeeting()
	// Monday 15:30-16:30 MSK = 12:30-13:30 UTC, inside the Monday window.
	m.Start = time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC)
	m.End = time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	store := newFakeStore(m)
	mgr := NewManager(store, fakeRoster{"100": true}, msk)

	_, err := mgr.Claim(context.Background(), "E1", "100", "ivanov")
	assert.ErrorIs(t, err, ErrWindowConflict)

	stored, _ := store.FindByExternalID(context.Background(), "E1")
	assert.False(t, stored.IsTaken)
}

func TestClaim_DefaultClaimantFromActorID(t *testing.T) {
	mgr := NewManager(newFakeStore(openMeeting()), fakeRoster{"100": true}, msk)

	got, err := mgr.Claim(context.Background(), "E1", "100", "")
	require.NoError(t, err)
	assert.Equal(t, "user_id_100", got.TakenBy)
}

func TestClaim_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	store := newFakeStore(openMeeting())
	mgr := NewManager(store, fakeRoster{"100": true, "200": true}, msk)

	type outcome struct {
		claimant string
		err      error
	}
	results := make(chan outcome, 2)
	var start sync.WaitGroup
	start.Add(1)
	for _, actor := range []struct{ id, name string }{
		{"100", "ivanov"},
		{"200", "petrov"},
	} {
		go func(id, name string) {
			start.Wait()
			_, err := mgr.Claim(context.Background(), "E1", id, name)
			results <- outcome{claimant: name, err: err}
		}(actor.id, actor.name)
	}
	start.Done()

	var wins, losses int
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err == nil {
			wins++
			continue
		}
		var taken *AlreadyTakenError
		require.ErrorAs(t, r.err, &taken)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
}

func TestRelease_Success(t *testing.T) {
	m := openMeeting()
	m.IsTaken = true
	m.TakenBy = "ivanov"
	store := newFakeStore(m)
	mgr := NewManager(store, fakeRoster{"100": true}, msk)

	got, err := mgr.Release(context.Background(), "E1", "100", "ivanov")
	require.NoError(t, err)
	assert.False(t, got.IsTaken)
	assert.Empty(t, got.TakenBy)

	stored, _ := store.FindByExternalID(context.Background(), "E1")
	assert.False(t, stored.IsTaken)
}

func TestRelease_NotClaimant(t *testing.T) {
	m := openMeeting()
	m.IsTaken = true
	m.TakenBy = "petrov"
	mgr := NewManager(newFakeStore(m), fakeRoster{"100": true}, msk)

	// A valid employee, but not the one holding the meeting.
	_, err := mgr.Release(context.Background(), "E1", "100", "ivanov")
	assert.ErrorIs(t, err, ErrNotClaimant)
	assert.False(t, errors.Is(err, ErrNotAuthorized))
}

func TestRelease_OpenMeetingIsNotClaimant(t *testing.T) {
	mgr := NewManager(newFakeStore(openMeeting()), fakeRoster{"100": true}, msk)

	_, err := mgr.Release(context.Background(), "E1", "100", "ivanov")
	assert.ErrorIs(t, err, ErrNotClaimant)
}

func TestRelease_NotAuthorized(t *testing.T) {
	mgr := NewManager(newFakeStore(openMeeting()), fakeRoster{}, msk)

	_, err := mgr.Release(context.Background(), "E1", "999", "ivanov")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
