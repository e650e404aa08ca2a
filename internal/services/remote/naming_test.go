package remote

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"
)

func namingLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func fixedClock(epoch int64) func() time.Time {
	return func() time.Time { return time.Unix(epoch, 0) }
}

func TestFilename_SingleSiblingWithoutID(t *testing.T) {
	reg := NewRegistry(namingLogger())
	reg.Register("MySQL")

	assert.Equal(t, "MySQL", reg.Filename("MySQL", ""))
}

func TestFilename_ExplicitIDIsSanitized(t *testing.T) {
	reg := NewRegistry(namingLogger())
	reg.Register("MySQL")

	assert.Equal(t, "MySQL-a_b_c", reg.Filename("MySQL", "a/b c"))
}

func TestFilename_ExplicitIDSkipsSiblingCheck(t *testing.T) {
	var slept bool
	reg := NewRegistryWithClock(namingLogger(), fixedClock(1712345678), func(time.Duration) { slept = true })
	reg.Register("MySQL")
	reg.Register("MySQL")

	assert.Equal(t, "MySQL-app", reg.Filename("MySQL", "app"))
	assert.False(t, slept)
}

func TestFilename_MissingIDAmongSiblings(t *testing.T) {
	var sleeps []time.Duration
	epoch := int64(1712345678)
	reg := NewRegistryWithClock(namingLogger(), func() time.Time {
		epoch++
		return time.Unix(epoch, 0)
	}, func(d time.Duration) { sleeps = append(sleeps, d) })

	reg.Register("MySQL")
	reg.Register("MySQL")
	reg.Register("MySQL")

	first := reg.Filename("MySQL", "")
	second := reg.Filename("MySQL", "")

	assert.Regexp(t, `^MySQL-\d{5}$`, first)
	assert.Regexp(t, `^MySQL-\d{5}$`, second)
	assert.NotEqual(t, first, second)

	require.Len(t, sleeps, 2)
	assert.Equal(t, time.Second, sleeps[0])
}

func TestFilename_CountsArePerEngine(t *testing.T) {
	reg := NewRegistry(namingLogger())
	reg.Register("MySQL")
	reg.Register("PostgreSQL")

	assert.Equal(t, "MySQL", reg.Filename("MySQL", ""))
	assert.Equal(t, "PostgreSQL", reg.Filename("PostgreSQL", ""))
	assert.Equal(t, 1, reg.Siblings("MySQL"))
	assert.Equal(t, 0, reg.Siblings("MongoDB"))
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"a/b c", "a_b_c"},
		{"app", "app"},
		{"app-2024.01", "app_2024_01"},
		{"under_score", "under_score"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeID(tt.in))
	}
}
