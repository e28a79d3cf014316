package transaction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name      string
		value     string
		loc       *time.Location
		wantStart time.Time
		wantErr   bool
	}{
		{
			name:      "bare date in UTC",
			value:     "2024-03-15",
			loc:       time.UTC,
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "bare date in configured zone",
			value:     "2024-03-15",
			loc:       berlin,
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, berlin),
		},
		{
			name:      "timestamp selects its day",
			value:     "2024-03-15T18:30:00Z",
			loc:       time.UTC,
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "timestamp late in UTC rolls into next day in Berlin",
			value:     "2024-03-15T23:30:00Z",
			loc:       berlin,
			wantStart: time.Date(2024, 3, 16, 0, 0, 0, 0, berlin),
		},
		{
			name:    "garbage",
			value:   "yesterday",
			loc:     time.UTC,
			wantErr: true,
		},
		{
			name:    "impossible date",
			value:   "2024-02-30",
			loc:     time.UTC,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := ParseDay(tt.value, tt.loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(day.Start), "start %s != %s", day.Start, tt.wantStart)
			assert.True(t, tt.wantStart.AddDate(0, 0, 1).Equal(day.End))
		})
	}
}

func TestDayRange_Contains(t *testing.T) {
	day := NewDayRange(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.UTC)

	assert.True(t, day.Contains(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, day.Contains(time.Date(2024, 1, 10, 23, 59, 59, 999999999, time.UTC)))
	assert.False(t, day.Contains(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.False(t, day.Contains(time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC)))
}

func TestDayRange_DSTDayIsNot24Hours(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day, err := ParseDay("2024-03-31", berlin)
	require.NoError(t, err)

	assert.Equal(t, 23*time.Hour, day.End.Sub(day.Start))
}

func TestFilter_NeedsJoin(t *testing.T) {
	day := NewDayRange(time.Now(), time.UTC)

	assert.False(t, Filter{}.NeedsJoin())
	assert.False(t, Filter{CreatedAt: &day}.NeedsJoin())
	assert.True(t, Filter{Email: "a@example.com"}.NeedsJoin())
	assert.True(t, Filter{CompanyName: "Company 1 Media"}.NeedsJoin())
}

func TestPage_Skip(t *testing.T) {
	assert.Equal(t, int64(0), Page{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(40), Page{Page: 3, Limit: 20}.Skip())
	assert.Equal(t, int64(0), Page{Page: 0, Limit: 20}.Skip())

	// offsets saturate instead of wrapping negative
	assert.Equal(t, int64(math.MaxInt64), Page{Page: math.MaxInt64 / 5, Limit: 10}.Skip())
	assert.Equal(t, int64(math.MaxInt64), Page{Page: math.MaxInt64, Limit: 100}.Skip())

	last := Page{Page: MaxPage(10), Limit: 10}
	assert.Positive(t, last.Skip())
	assert.Equal(t, (MaxPage(10)-1)*10, last.Skip())
}
