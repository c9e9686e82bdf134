package dateparse_test

import (
	"testing"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/dateparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseDate(t *testing.T) {
	t.Parallel()

	p := &dateparse.Parser{Location: time.UTC}

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"iso date", "2024-03-12", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-03-12T10:30:00Z", time.Date(2024, 3, 12, 10, 30, 0, 0, time.UTC)},
		{"day first numeric", "03-04-2024", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)},
		{"display format", "03-04-2024, 14:15", time.Date(2024, 4, 3, 14, 15, 0, 0, time.UTC)},
		{"dutch month", "12 januari 2024", time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)},
		{"dutch month abbreviation", "5 mrt. 2023", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"weekday prefix", "dinsdag 1 oktober 2024", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.ParseDate(tt.in)

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := p.ParseDate("  ")

		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})

	t.Run("rejects text", func(t *testing.T) {
		t.Parallel()

		_, err := p.ParseDate("onbekend")

		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	p := dateparse.NewParser()

	require.NotNil(t, p.Location)
	got, err := p.ParseDate("2024-07-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC).Equal(got))
}
