package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestConflictsOverlap(t *testing.T) {
	cases := []struct {
		name      string
		requested time.Time
		existing  time.Time
		want      bool
	}{
		{"same start", at(18, 0), at(18, 0), true},
		{"requested inside existing", at(19, 0), at(18, 0), true},
		{"existing inside requested", at(18, 0), at(19, 0), true},
		{"one minute overlap before", at(16, 1), at(18, 0), true},
		{"one minute overlap after", at(19, 59), at(18, 0), true},
		{"back to back after", at(20, 0), at(18, 0), false},
		{"back to back before", at(16, 0), at(18, 0), false},
		{"far apart", at(10, 0), at(18, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Conflicts(tc.requested, tc.existing))
		})
	}
}

// The overlap relation must be symmetric: if A conflicts with B then B
// conflicts with A, whichever one was booked first.
func TestConflictsSymmetric(t *testing.T) {
	starts := []time.Time{at(10, 0), at(11, 30), at(12, 0), at(13, 59), at(14, 0), at(18, 45)}
	for _, a := range starts {
		for _, b := range starts {
			assert.Equal(t, Conflicts(a, b), Conflicts(b, a), "a=%v b=%v", a, b)
		}
	}
}

// The window is half-open: a booking ending exactly when the next one
// starts does not conflict, but one minute earlier does.
func TestConflictsHalfOpenBoundary(t *testing.T) {
	existing := at(10, 0)
	assert.False(t, Conflicts(at(12, 0), existing))
	assert.True(t, Conflicts(at(11, 59), existing))
	assert.False(t, Conflicts(at(8, 0), existing))
	assert.True(t, Conflicts(at(8, 1), existing))
}

func TestFreeAt(t *testing.T) {
	existing := []time.Time{at(10, 0), at(14, 0)}
	assert.True(t, FreeAt(existing, at(12, 0)))
	assert.False(t, FreeAt(existing, at(13, 0)))
	assert.False(t, FreeAt(existing, at(9, 0)))
	assert.True(t, FreeAt(existing, at(16, 0)))
	assert.True(t, FreeAt(nil, at(12, 0)))
}
