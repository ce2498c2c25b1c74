// Package refine implements the optional generative refinement pass over
// heuristic event drafts. The model handle is shared by all channel
// pipelines, loaded lazily on first use, and latched off permanently if
// that load fails.
package refine

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// State is the load state of the shared model handle.
type State int

const (
	// StateUnloaded means no load has been attempted yet.
	StateUnloaded State = iota
	// StateLoaded means the model is ready.
	StateLoaded
	// StateFailed is terminal: refinement stays disabled for the
	// remainder of the process lifetime.
	StateFailed
)

// refinedConfidence stamps model-reviewed records; it is distinct from
// any heuristic score combination.
const refinedConfidence = 0.85

const maxRefinedTitleLen = 150

// Client is a minimal generative-model handle.
type Client interface {
	Load(ctx context.Context) error
	Generate(ctx context.Context, prompt string) (string, error)
}

// Refiner implements harvest.Refiner with a one-shot load circuit breaker.
type Refiner struct {
	mu     sync.Mutex
	state  State
	client Client
	logger *zap.Logger
}

// New constructs a Refiner around an unloaded client.
func New(client Client, logger *zap.Logger) *Refiner {
	return &Refiner{client: client, logger: logger}
}

// State returns the current load state.
func (r *Refiner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ensureLoaded serializes first access across channel pipelines so the
// model loads at most once. A load failure is logged once and latched.
func (r *Refiner) ensureLoaded(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateLoaded:
		return true
	case StateFailed:
		return false
	}
	if err := r.client.Load(ctx); err != nil {
		r.state = StateFailed
		r.logger.Warn("refinement model failed to load, refinement disabled for this process", zap.Error(err))
		return false
	}
	r.state = StateLoaded
	r.logger.Info("refinement model loaded")
	return true
}

// Refine re-derives event fields from the raw text. It reports false when
// the model is unavailable or its response is unusable; the caller keeps
// the heuristic draft in that case.
func (r *Refiner) Refine(ctx context.Context, text string, draft harvest.Event) (harvest.Event, bool) {
	if !r.ensureLoaded(ctx) {
		return harvest.Event{}, false
	}

	response, err := r.client.Generate(ctx, buildPrompt(text, draft))
	if err != nil {
		r.logger.Debug("refinement generation failed", zap.Error(err))
		return harvest.Event{}, false
	}

	payload, ok := extractJSON(response)
	if !ok {
		return harvest.Event{}, false
	}
	var parsed refinement
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return harvest.Event{}, false
	}
	if strings.TrimSpace(parsed.Title) == "" {
		return harvest.Event{}, false
	}
	return merge(draft, parsed), true
}

// refinement is the JSON object the prompt asks the model to return.
type refinement struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// merge prefers refinement output field-by-field; unset fields retain the
// heuristic value. Category and source URL are never the model's to change.
func merge(draft harvest.Event, ref refinement) harvest.Event {
	out := draft
	out.Title = truncateRunes(strings.TrimSpace(ref.Title), maxRefinedTitleLen)
	if v := strings.TrimSpace(ref.Date); v != "" {
		out.Date = v
	}
	if v := strings.TrimSpace(ref.Time); v != "" {
		out.Time = v
	}
	if v := strings.TrimSpace(ref.Location); v != "" {
		out.Location = v
	}
	if v := strings.TrimSpace(ref.Description); v != "" {
		out.Description = v
	}
	out.Confidence = refinedConfidence
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// extractJSON returns the first balanced {...} object in s. Brace depth is
// tracked outside string literals so nested objects survive.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
