package model

import "fmt"

// Mood is a sentiment tag attached to a diary entry.
type Mood string

// Moods is the closed set of accepted mood values, in display order.
var Moods = []Mood{
	"happy",
	"sad",
	"frustrated",
	"curious",
	"satisfied",
	"anxious",
	"excited",
	"tired",
	"confused",
	"hopeful",
	"proud",
	"neutral",
}

// ParseMood validates s against Moods. Matching is case-sensitive.
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// MoodNames returns Moods as plain strings, e.g. for schema enums.
func MoodNames() []string {
	names := make([]string, len(Moods))
	for i, m := range Moods {
		names[i] = string(m)
	}
	return names
}

// Entry represents a single persisted diary entry.
type Entry struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Content   string  `json:"content"`
	Mood      *Mood   `json:"mood"`
	Context   *string `json:"context"`
}

// Stats is the aggregate view over all entries.
type Stats struct {
	TotalEntries     int          `json:"totalEntries"`
	MoodDistribution map[Mood]int `json:"moodDistribution"`
	FirstEntry       *string      `json:"firstEntry"`
	LastEntry        *string      `json:"lastEntry"`
}
