package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func TestResolveRelative(t *testing.T) {
	loc := jakarta(t)
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	tests := []struct {
		name   string
		text   string
		locale Locale
		want   time.Time
	}{
		{"kemarin", "makan siang kemarin 50rb", LocaleID, today.AddDate(0, 0, -1)},
		{"besok", "bayar kos besok", LocaleID, today.AddDate(0, 0, 1)},
		{"hari lalu", "parkir 3 hari yang lalu", LocaleID, today.AddDate(0, 0, -3)},
		{"minggu lalu", "servis motor minggu lalu", LocaleID, today.AddDate(0, 0, -7)},
		{"yesterday", "lunch yesterday 50k", LocaleEN, today.AddDate(0, 0, -1)},
		{"days ago", "taxi 2 days ago", LocaleEN, today.AddDate(0, 0, -2)},
		{"last week", "groceries last week", LocaleEN, today.AddDate(0, 0, -7)},
		{"mixed language", "taxi yesterday", LocaleID, today.AddDate(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.text, tt.locale, now)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestResolveNamedMonthDefaultsToCurrentYear(t *testing.T) {
	loc := jakarta(t)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, loc)

	got, ok := Resolve("15 juli", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2026, time.July, 15, 0, 0, 0, 0, loc).Equal(got))

	got, ok = Resolve("dinner on July 15th", LocaleEN, now)
	require.True(t, ok)
	assert.True(t, time.Date(2026, time.July, 15, 0, 0, 0, 0, loc).Equal(got))

	got, ok = Resolve("3 agustus 2024 bensin", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2024, time.August, 3, 0, 0, 0, 0, loc).Equal(got))
}

func TestResolveNumeric(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	got, ok := Resolve("15/7/2024 listrik", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC).Equal(got))

	got, ok = Resolve("pulsa 5/8", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC).Equal(got))

	got, ok = Resolve("tgl 1/2 beli 2 kg beras", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC).Equal(got))

	got, ok = Resolve("beras 1/2/2026 kg", LocaleID, now)
	require.True(t, ok)
	assert.True(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC).Equal(got))

	got, ok = Resolve("rent 2025-12-01", LocaleEN, now)
	require.True(t, ok)
	assert.True(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestResolveNoMatch(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	for _, text := range []string{
		"",
		"beli kopi 25000",
		"spent 50k on lunch",
		"31 februari",
		"45/13",
		"2 kopi susu",
		"beli beras 1/2 kg",
		"gula 3/4kg 12rb",
		"susu 1/2 liter",
	} {
		_, ok := Resolve(text, LocaleID, now)
		assert.False(t, ok, text)
	}
}
