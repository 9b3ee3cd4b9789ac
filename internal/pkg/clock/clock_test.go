package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 4}, d)
	assert.Equal(t, "2024-03-04", d.String())

	_, err = ParseDate("04/03/2024")
	assert.Error(t, err)
}

func TestDate_ISOWeekday(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2024-03-04", 1}, // Monday
		{"2024-03-06", 3},
		{"2024-03-09", 6},
		{"2024-03-10", 7}, // Sunday
	}
	for _, c := range cases {
		d, err := ParseDate(c.date)
		require.NoError(t, err)
		assert.Equal(t, c.want, d.ISOWeekday(), c.date)
	}
}

func TestDate_AddDays(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", TimeOfDay{Hour: 8}, false},
		{"17:30:15", TimeOfDay{Hour: 17, Minute: 30, Second: 15}, false},
		{"23:59", TimeOfDay{Hour: 23, Minute: 59}, false},
		{"24:00", TimeOfDay{}, true},
		{"8:00", TimeOfDay{}, true},
		{"08", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		if c.wantErr {
			assert.Error(t, err, c.input)
			continue
		}
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got)
	}
}

func TestTimeOfDayFromDuration(t *testing.T) {
	got := TimeOfDayFromDuration(17*time.Hour + 30*time.Minute + 5*time.Second)
	assert.Equal(t, TimeOfDay{Hour: 17, Minute: 30, Second: 5}, got)
	assert.Equal(t, "17:30:05", got.String())
	assert.Equal(t, "08:00", MustTimeOfDay("08:00").String())
}

func TestLocalClock_AtAndTimeOfDay(t *testing.T) {
	c := New(time.FixedZone("WIB", 7*3600))

	d := Date{Year: 2024, Month: time.March, Day: 4}
	instant := c.At(d, MustTimeOfDay("08:00"))

	assert.Equal(t, time.Date(2024, time.March, 4, 1, 0, 0, 0, time.UTC), instant.UTC())
	assert.Equal(t, MustTimeOfDay("08:00"), c.TimeOfDay(instant))
	assert.Equal(t, MustTimeOfDay("01:00"), New(nil).TimeOfDay(instant))
}

func TestForZone_FallsBack(t *testing.T) {
	c := ForZone("Not/AZone", time.UTC)
	instant := c.At(Date{Year: 2024, Month: time.January, Day: 1}, MustTimeOfDay("09:15"))
	assert.Equal(t, time.UTC, instant.Location())
}

func TestParseInstant(t *testing.T) {
	c := New(time.FixedZone("WIB", 7*3600))

	abs, err := ParseInstant(c, "2024-03-04T07:40:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 4, 7, 40, 0, 0, time.UTC), abs.UTC())

	local, err := ParseInstant(c, "2024-03-04 07:40")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 40, 0, 0, time.UTC), local.UTC())

	localT, err := ParseInstant(c, "2024-03-04T07:40:30")
	require.NoError(t, err)
	assert.Equal(t, 30, localT.Second())

	_, err = ParseInstant(c, "yesterday")
	assert.Error(t, err)
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, 90, RoundMinutes(89*time.Minute+30*time.Second))
	assert.Equal(t, 89, RoundMinutes(89*time.Minute+29*time.Second))
	assert.Equal(t, 4, WholeMinutes(4*time.Minute+59*time.Second))
	assert.Equal(t, 0, WholeMinutes(-3*time.Minute))
}
