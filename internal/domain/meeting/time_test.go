package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUTC_ConvertsZoneAndTruncates(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	in := time.Date(2024, 3, 4, 14, 30, 45, 123456789, msk)

	got := NormalizeUTC(in)

	assert.Equal(t, time.Date(2024, 3, 4, 11, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Second())
	assert.Zero(t, got.Nanosecond())
}

func TestNormalizeUTC_Idempotent(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	times := []time.Time{
		time.Date(2024, 3, 4, 14, 30, 45, 500, msk),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, in := range times {
		once := NormalizeUTC(in)
		require.Equal(t, once, NormalizeUTC(once))
	}
}

func TestNormalizeUTC_NaiveInputIsTreatedAsUTC(t *testing.T) {
	// Timestamps parsed without a zone come out in UTC already.
	in, err := time.Parse("2006-01-02 15:04:05", "2024-03-04 11:00:30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC), NormalizeUTC(in))
}

func TestTimesDifferEnough(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		other time.Time
		want  bool
	}{
		{"equal", base, false},
		{"three minutes later", base.Add(3 * time.Minute), false},
		{"exactly tolerance", base.Add(4 * time.Minute), true},
		{"five minutes later", base.Add(5 * time.Minute), true},
		{"five minutes earlier", base.Add(-5 * time.Minute), true},
		{"just under tolerance", base.Add(4*time.Minute - time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimesDifferEnough(base, tt.other))
		})
	}
}
