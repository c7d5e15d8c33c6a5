package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, err := ParseMood(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	for _, bad := range []string{"", "Happy", "HAPPY", "elated", " sad"} {
		_, err := ParseMood(bad)
		assert.Error(t, err, "mood %q should be rejected", bad)
	}
}

func TestMoodNames(t *testing.T) {
	names := MoodNames()
	require.Len(t, names, len(Moods))
	assert.Equal(t, "happy", names[0])
	assert.Equal(t, "neutral", names[len(names)-1])
}
