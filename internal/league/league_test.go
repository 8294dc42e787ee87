package league

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlayerKey_OrderIndependent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, PlayerKey([]uuid.UUID{a, b, c}), PlayerKey([]uuid.UUID{c, a, b}))
	assert.Equal(t, PlayerKey([]uuid.UUID{a, b}), PlayerKey([]uuid.UUID{b, a, b}))
	assert.NotEqual(t, PlayerKey([]uuid.UUID{a, b}), PlayerKey([]uuid.UUID{a, b, c}))
}

func TestSeasonOverlaps(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	ptr := func(t time.Time) *time.Time { return &t }

	testCases := []struct {
		name     string
		season   Season
		start    time.Time
		end      *time.Time
		expected bool
	}{
		{name: "disjoint after", season: Season{StartDate: day(1), EndDate: ptr(day(10))}, start: day(11), end: ptr(day(20)), expected: false},
		{name: "disjoint before", season: Season{StartDate: day(10), EndDate: ptr(day(20))}, start: day(1), end: ptr(day(9)), expected: false},
		{name: "shared boundary", season: Season{StartDate: day(1), EndDate: ptr(day(10))}, start: day(10), end: ptr(day(20)), expected: true},
		{name: "open ended existing", season: Season{StartDate: day(1)}, start: day(25), end: ptr(day(30)), expected: true},
		{name: "open ended new", season: Season{StartDate: day(10), EndDate: ptr(day(20))}, start: day(1), end: nil, expected: true},
		{name: "open ended new after existing", season: Season{StartDate: day(1), EndDate: ptr(day(5))}, start: day(6), end: nil, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.season.Overlaps(tc.start, tc.end))
		})
	}
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleOwner.CanSubmitMatches())
	assert.True(t, RoleEditor.CanSubmitMatches())
	assert.True(t, RoleMember.CanSubmitMatches())
	assert.False(t, RoleViewer.CanSubmitMatches())
	assert.False(t, RoleMember.CanManage())
	assert.True(t, RoleEditor.CanManage())
}
