package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

func newTestSink(t *testing.T) (*FileSink, string) {
	t.Helper()
	dir := t.TempDir()
	loc := time.FixedZone("MSK", 3*3600)
	clock := fakeClock{now: time.Date(2024, 12, 24, 9, 30, 0, 0, loc)}
	s, err := NewFileSink(dir, clock, zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func sampleEvents() []harvest.Event {
	return []harvest.Event{
		{
			Title:       "Лекция о космосе",
			Date:        "25.12.2024",
			Time:        "18:00",
			Location:    "Аудитория 204",
			Description: "Приглашаем всех на лекцию",
			Category:    "education",
			SourceURL:   "https://t.me/mospolytech/101",
			Confidence:  0.93,
		},
		{
			Title:       "Турнир по шахматам",
			Date:        "26.12.2024",
			Time:        "Не указано",
			Location:    "Онлайн",
			Description: "Регистрация открыта",
			Category:    "competitions",
			SourceURL:   "https://t.me/mospolytech/102",
			Confidence:  0.85,
		},
	}
}

func TestWriteEventsRoundTrip(t *testing.T) {
	s, dir := newTestSink(t)
	events := sampleEvents()
	require.NoError(t, s.WriteEvents(context.Background(), "mospolytech", events))

	f, err := os.Open(filepath.Join(dir, "mospolytech_events.jsonl"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var got []harvest.Event
	dec := json.NewDecoder(f)
	for dec.More() {
		var e harvest.Event
		require.NoError(t, dec.Decode(&e))
		got = append(got, e)
	}
	require.Equal(t, events, got)
}

func TestWriteEventsJSONFieldNames(t *testing.T) {
	s, dir := newTestSink(t)
	require.NoError(t, s.WriteEvents(context.Background(), "mospolytech", sampleEvents()))

	raw, err := os.ReadFile(filepath.Join(dir, "mospolytech_events.jsonl"))
	require.NoError(t, err)
	for _, key := range []string{
		`"title"`, `"date"`, `"time"`, `"location"`,
		`"description"`, `"category"`, `"telegram_url"`, `"confidence"`,
	} {
		require.Contains(t, string(raw), key)
	}
}

func TestWriteEventsSkipsEmptyChannel(t *testing.T) {
	s, dir := newTestSink(t)
	require.NoError(t, s.WriteEvents(context.Background(), "mospolytech", nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteEventsReport(t *testing.T) {
	s, dir := newTestSink(t)
	require.NoError(t, s.WriteEvents(context.Background(), "mospolytech", sampleEvents()))

	raw, err := os.ReadFile(filepath.Join(dir, "mospolytech_events.txt"))
	require.NoError(t, err)
	report := string(raw)

	require.Contains(t, report, "События из канала 'mospolytech'")
	require.Contains(t, report, "Дата обработки: 24.12.2024 09:30:00")
	require.Contains(t, report, "Всего найдено: 2 событий")
	require.Contains(t, report, "[1] Лекция о космосе")
	require.Contains(t, report, "[2] Турнир по шахматам")
	require.Contains(t, report, "📅 Дата: 25.12.2024")
	require.Contains(t, report, "📊 Уверенность: 93%")
	require.Contains(t, report, strings.Repeat("=", 80))
}

func TestWriteStats(t *testing.T) {
	s, dir := newTestSink(t)
	stats := harvest.FleetStats{
		RunID:         "run-1",
		TotalChannels: 2,
		Processed:     2,
		TotalMessages: 40,
		TotalEvents:   3,
		Channels: map[string]harvest.ChannelStats{
			"mospolytech": {Total: 25, Events: 2, Skipped: 23},
			"mospolyfest": {Total: 15, Events: 1, Skipped: 14},
		},
		ElapsedSeconds: 4.2,
	}
	require.NoError(t, s.WriteStats(context.Background(), stats))

	raw, err := os.ReadFile(filepath.Join(dir, "statistics.json"))
	require.NoError(t, err)

	var got harvest.FleetStats
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, stats, got)
}

func TestWriteCanceledContext(t *testing.T) {
	s, _ := newTestSink(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.WriteEvents(ctx, "mospolytech", sampleEvents()))
	require.Error(t, s.WriteStats(ctx, harvest.FleetStats{}))
}
