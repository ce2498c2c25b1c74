// Package sink persists extracted events and run statistics to disk.
// This is the boundary the rest of the bot consumes; nothing upstream of
// it reads these files back.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// FileSink implements harvest.Sink rooted at one output directory.
type FileSink struct {
	root   string
	clock  harvest.Clock
	logger *zap.Logger
}

// NewFileSink returns a sink rooted at dir, creating it if needed.
func NewFileSink(root string, clock harvest.Clock, logger *zap.Logger) (*FileSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir %s: %w", root, err)
	}
	return &FileSink{root: root, clock: clock, logger: logger}, nil
}

// WriteEvents writes the channel's JSONL file plus a human-readable text
// report. A channel with no events produces no files.
func (s *FileSink) WriteEvents(ctx context.Context, channel string, events []harvest.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	var buf bytes.Buffer
	for _, event := range events {
		payload, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		buf.Write(payload)
		buf.WriteByte('\n')
	}
	jsonlPath := filepath.Join(s.root, channel+"_events.jsonl")
	if err := os.WriteFile(jsonlPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write events %s: %w", jsonlPath, err)
	}

	reportPath := filepath.Join(s.root, channel+"_events.txt")
	if err := os.WriteFile(reportPath, []byte(s.buildReport(channel, events)), 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", reportPath, err)
	}

	s.logger.Info("events written",
		zap.String("channel", channel),
		zap.Int("count", len(events)),
		zap.String("path", jsonlPath),
	)
	return nil
}

// WriteStats writes one statistics JSON object for the fleet run.
func (s *FileSink) WriteStats(ctx context.Context, stats harvest.FleetStats) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	path := filepath.Join(s.root, "statistics.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write stats %s: %w", path, err)
	}
	s.logger.Info("statistics written", zap.String("path", path))
	return nil
}

func (s *FileSink) buildReport(channel string, events []harvest.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "События из канала '%s'\n", channel)
	fmt.Fprintf(&b, "Дата обработки: %s\n", s.clock.Now().Format("02.01.2006 15:04:05"))
	fmt.Fprintf(&b, "Всего найдено: %d событий\n", len(events))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, e := range events {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, e.Title)
		fmt.Fprintf(&b, "📅 Дата: %s\n", e.Date)
		fmt.Fprintf(&b, "⏰ Время: %s\n", e.Time)
		fmt.Fprintf(&b, "📍 Место: %s\n", e.Location)
		fmt.Fprintf(&b, "🏷️ Категория: %s\n", e.Category)
		fmt.Fprintf(&b, "🔗 URL: %s\n", e.SourceURL)
		fmt.Fprintf(&b, "📊 Уверенность: %.0f%%\n", e.Confidence*100)
		fmt.Fprintf(&b, "\n📝 Описание:\n%s\n", e.Description)
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
	}
	return b.String()
}
