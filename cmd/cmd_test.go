package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/solaris-diary/solaris/internal/config"
	"github.com/solaris-diary/solaris/internal/deviceauth"
	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func TestPrintList(t *testing.T) {
	entries := []model.Entry{
		{ID: 2, Timestamp: "2026-10-15 09:30:00", Content: "second", Mood: ptr(model.Mood("happy")), Context: ptr("standup")},
		{ID: 1, Timestamp: "2026-10-14 18:05:00", Content: "first"},
	}

	var buf bytes.Buffer
	printList(&buf, entries, time.UTC)

	want := "2026-10-15 09:30  [happy]\n  second\n  (standup)\n\n2026-10-14 18:05\n  first\n"
	if got := buf.String(); got != want {
		t.Errorf("printList() =\n%q\nwant\n%q", got, want)
	}
}

func TestPrintList_Empty(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil, time.UTC)
	if got := buf.String(); got != "No memos found.\n" {
		t.Errorf("printList(nil) = %q", got)
	}
}

func TestPrintStatsMarkdown(t *testing.T) {
	stats := model.Stats{
		TotalEntries:     3,
		MoodDistribution: map[model.Mood]int{"tired": 1, "happy": 2},
		FirstEntry:       ptr("2026-10-13 08:00:00"),
		LastEntry:        ptr("2026-10-15 12:00:00"),
	}

	var buf bytes.Buffer
	printStatsMarkdown(&buf, stats)
	out := buf.String()

	for _, want := range []string{
		"Total entries: 3",
		"Span: 2d 4h",
		"| happy | 2 |\n| tired | 1 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatsMarkdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	printStatsMarkdown(&buf, model.Stats{MoodDistribution: map[model.Mood]int{}})
	out := buf.String()
	if !strings.Contains(out, "Total entries: 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "| Mood |") {
		t.Errorf("empty stats should not render a mood table:\n%s", out)
	}
}

func TestLoginError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{deviceauth.ErrDeviceCodeExpired, "expired"},
		{deviceauth.ErrAuthorizationDenied, "denied"},
		{&deviceauth.NetworkError{Op: "token request", Err: errors.New("dial tcp: refused")}, "authentication failed"},
	}
	for _, tt := range tests {
		got := loginError(tt.err).Error()
		if !strings.Contains(got, tt.want) {
			t.Errorf("loginError(%v) = %q, want it to mention %q", tt.err, got, tt.want)
		}
	}
}

func TestRunList_ReadsFromAppDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv(config.HomeEnv, base)
	ctx := context.Background()

	engine := storage.New(config.DatabasePath(base), logging.NewDiscard())
	if _, err := engine.WriteEntry(ctx, storage.NewEntry{Content: "from the CLI", Mood: ptr(model.Mood("curious"))}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	listLimit, listMood, listFormat = 5, "curious", "json"
	t.Cleanup(func() { listLimit, listMood, listFormat = storage.DefaultLimit, "", "text" })

	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	listCmd.SetContext(ctx)
	t.Cleanup(func() { listCmd.SetOut(nil) })

	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if !strings.Contains(buf.String(), `"content": "from the CLI"`) {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunList_RejectsBadFlags(t *testing.T) {
	t.Cleanup(func() { listLimit, listMood, listFormat = storage.DefaultLimit, "", "text" })

	listLimit, listFormat = 0, "text"
	if err := runList(listCmd, nil); err == nil {
		t.Error("expected error for --limit 0")
	}

	listLimit, listFormat = 3, "csv"
	if err := runList(listCmd, nil); err == nil {
		t.Error("expected error for --format csv")
	}
}
