package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/domain/meeting"
)

var (
	// ErrNotAuthorized: the actor is not on the employee roster.
	ErrNotAuthorized = errors.New("not an employee")
	// ErrNotFound: no persisted meeting with that identifier.
	ErrNotFound = errors.New("meeting not found")
	// ErrNotClaimant: release attempted by someone other than the current
	// claimant. Distinct from ErrNotAuthorized: the actor is a valid
	// employee, just not responsible for this meeting.
	ErrNotClaimant = errors.New("not the claimant of this meeting")
	// ErrWindowConflict: the meeting collides with a maintenance window and
	// must not be claimed at all.
	ErrWindowConflict = errors.New("meeting overlaps the support maintenance window")
)

// AlreadyTakenError reports who currently holds the meeting.
type AlreadyTakenError struct {
	Claimant string
}

func (e *AlreadyTakenError) Error() string {
	return fmt.Sprintf("meeting already taken by %s", e.Claimant)
}

// Store is the slice of meeting storage the claim workflow needs. TryClaim
// and Release must be atomic check-and-set operations: under concurrent
// calls on the same meeting at most one returns true.
type Store interface {
	FindByExternalID(ctx context.Context, externalID string) (meeting.Meeting, error)
	TryClaim(ctx context.Context, externalID, claimant string) (bool, error)
	Release(ctx context.Context, externalID, claimant string) (bool, error)
}

// Roster answers membership of the authorization allow-list.
type Roster interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Manager runs the Open <-> Taken transitions.
type Manager struct {
	store  Store
	roster Roster
	loc    *time.Location
}

func NewManager(store Store, roster Roster, loc *time.Location) *Manager {
	return &Manager{store: store, roster: roster, loc: loc}
}

// Claim transitions Open -> Taken(claimant). actorID is checked against the
// roster; claimant is the display identity stored on the meeting.
func (m *Manager) Claim(ctx context.Context, meetingID, actorID, claimant string) (meeting.Meeting, error) {
	if claimant == "" {
		claimant = "user_id_" + actorID
	}
	mt, err := m.guard(ctx, meetingID, actorID)
	if err != nil {
		return meeting.Meeting{}, err
	}

	if mt.IsTaken {
		return meeting.Meeting{}, &AlreadyTakenError{Claimant: mt.TakenBy}
	}
	if meeting.OverlapsMaintenance(mt.Start.In(m.loc), mt.End.In(m.loc)) {
		// Hard rule, not a warning: no claims during maintenance windows.
		return meeting.Meeting{}, ErrWindowConflict
	}

	ok, err := m.store.TryClaim(ctx, meetingID, claimant)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if !ok {
		// Lost the race; report whoever won it.
		cur, err := m.store.FindByExternalID(ctx, meetingID)
		if err != nil {
			return meeting.Meeting{}, &AlreadyTakenError{}
		}
		return meeting.Meeting{}, &AlreadyTakenError{Claimant: cur.TakenBy}
	}

	mt.IsTaken = true
	mt.TakenBy = claimant
	return mt, nil
}

// Release transitions Taken(claimant) -> Open, only for the claimant itself.
func (m *Manager) Release(ctx context.Context, meetingID, actorID, claimant string) (meeting.Meeting, error) {
	if claimant == "" {
		claimant = "user_id_" + actorID
	}
	mt, err := m.guard(ctx, meetingID, actorID)
	if err != nil {
		return meeting.Meeting{}, err
	}

	if !mt.IsTaken || mt.TakenBy != claimant {
		return meeting.Meeting{}, ErrNotClaimant
	}

	ok, err := m.store.Release(ctx, meetingID, claimant)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if !ok {
		return meeting.Meeting{}, ErrNotClaimant
	}

	mt.IsTaken = false
	mt.TakenBy = ""
	return mt, nil
}

func (m *Manager) guard(ctx context.Context, meetingID, actorID string) (meeting.Meeting, error) {
	ok, err := m.roster.Exists(ctx, actorID)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if !ok {
		return meeting.Meeting{}, ErrNotAuthorized
	}

	mt, err := m.store.FindByExternalID(ctx, meetingID)
	if err != nil {
		if db.IsNotFound(err) {
			return meeting.Meeting{}, ErrNotFound
		}
		return meeting.Meeting{}, err
	}
	return mt, nil
}
