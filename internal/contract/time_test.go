package contract

import (
	"testing"
	"time"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthFilter(t *testing.T) {
	tests := []struct {
		input     string
		want      schema.MonthFilter
		expectErr bool
	}{
		{"", schema.AllMonths, false},
		{"all", schema.AllMonths, false},
		{" ALL ", schema.AllMonths, false},
		{"2024-01", schema.ForMonth(2024, time.January), false},
		{"1999-12", schema.ForMonth(1999, time.December), false},
		{"2024-13", schema.MonthFilter{}, true},
		{"2024-1", schema.MonthFilter{}, true},
		{"January", schema.MonthFilter{}, true},
		{"2024/01", schema.MonthFilter{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonthFilter(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNow(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Time
		expectErr bool
	}{
		{"empty is clock", "", fixedClock, false},
		{"now is clock", "NOW", fixedClock, false},
		{"date", "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2024-06-01T12:30:00Z", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), false},
		{"relative weeks", "3 weeks ago", fixedClock.AddDate(0, 0, -21), false},
		{"relative months", "1 month ago", fixedClock.AddDate(0, -1, 0), false},
		{"garbage", "someday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNow(tt.input, fixedClock)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"plural months mixed case", "3 MoNtHs AgO", fixedClock.AddDate(0, -3, 0), false},
		{"singular week", "1 Week Ago", fixedClock.AddDate(0, 0, -7), false},
		{"days with extra spaces", " 10  DAYS  AGO ", fixedClock.AddDate(0, 0, -10), false},
		{"years", "2 years ago", fixedClock.AddDate(-2, 0, 0), false},
		{"missing ago", "2 years", time.Time{}, true},
		{"hours are too fine", "4 hours ago", time.Time{}, true},
		{"non-numeric", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedClock)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMemberList(t *testing.T) {
	assert.Nil(t, ParseMemberList(""))
	assert.Nil(t, ParseMemberList(" , ,"))
	assert.Equal(t, []string{"kim", "lee park"}, ParseMemberList("Kim, Lee  Park,kim"))
}

// FuzzParseMonthFilter fuzzes the month filter parser.
func FuzzParseMonthFilter(f *testing.F) {
	for _, seed := range []string{"all", "2024-01", "2024-13", "", "1999-12", "x"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		filter, err := ParseMonthFilter(input)
		if err != nil {
			return
		}
		again, err := ParseMonthFilter(filter.String())
		if err != nil || again != filter {
			t.Fatalf("round trip of %q failed: %v %v", input, again, err)
		}
	})
}

// FuzzParseRelativeTime fuzzes the ParseRelativeTime function with random inputs.
func FuzzParseRelativeTime(f *testing.F) {
	for _, seed := range []string{"1 year ago", "2 months ago", "3 weeks ago", "4 days ago", "0 days ago"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseRelativeTime(input, fixedClock)
	})
}
