package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "colon", input: "09:30", want: 9*60 + 30},
		{name: "dot", input: "09.30", want: 9*60 + 30},
		{name: "midnight", input: "00:00", want: 0},
		{name: "both separators", input: "09:3.0", wantErr: true},
		{name: "neither separator", input: "0930", wantErr: true},
		{name: "non numeric", input: "ab:cd", wantErr: true},
		{name: "minutes overflow", input: "10:75", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseHHMM(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				var badTime *ErrBadTime
				assert.ErrorAs(t, err, &badTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEffectiveLengthHours(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{name: "under threshold keeps full length", start: "09:00", end: "13:00", want: 4},
		{name: "exactly eight hours drops break", start: "09:00", end: "17:00", want: 7.5},
		{name: "over eight hours drops break", start: "08:00", end: "20:00", want: 11.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EffectiveLengthHours(tc.start, tc.end)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEffectiveLengthHoursRejectsNonPositiveLength(t *testing.T) {
	_, err := EffectiveLengthHours("17:00", "09:00")
	require.Error(t, err)
}

func TestRestBetween(t *testing.T) {
	// shift a ends 24:00 (24.0), shift b starts 05:00 -> rest = 0 + 5 = 5
	got := RestBetween(24.0, 5.0)
	assert.InDelta(t, 5.0, got, 1e-9)

	// shift a ends 20:00, shift b starts 09:00 -> rest = 4 + 9 = 13
	got = RestBetween(20.0, 9.0)
	assert.InDelta(t, 13.0, got, 1e-9)
}

func TestRestBetweenMinutesMatchesHours(t *testing.T) {
	got := RestBetweenMinutes(24*60, 5*60)
	assert.InDelta(t, 5.0, got, 1e-9)
}
