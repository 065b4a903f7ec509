package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meetingbot/internal/domain/meeting"
)

func TestRetention_SweepDeletesOnlyStale(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stale := meeting.Meeting{
		ExternalID: "stale",
		Start:      now.AddDate(0, 0, -61).Add(-time.Hour),
		End:        now.AddDate(0, 0, -61),
	}
	fresh := meeting.Meeting{
		ExternalID: "fresh",
		Start:      now.AddDate(0, 0, -59).Add(-time.Hour),
		End:        now.AddDate(0, 0, -59),
	}
	store := newMemStore(msk, stale, fresh)

	j := &Retention{Store: store}
	n, err := j.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.FindByExternalID(context.Background(), "stale")
	assert.Error(t, err)
	_, err = store.FindByExternalID(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestRetention_SweepIsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stale := meeting.Meeting{
		ExternalID: "stale",
		Start:      now.AddDate(0, 0, -90),
		End:        now.AddDate(0, 0, -90).Add(time.Hour),
	}
	store := newMemStore(msk, stale)
	j := &Retention{Store: store}

	first, err := j.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := j.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, second)
}
