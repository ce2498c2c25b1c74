package refine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

type fakeClient struct {
	mu        sync.Mutex
	loadCalls int
	loadErr   error
	response  string
	genErr    error
}

func (c *fakeClient) Load(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadCalls++
	return c.loadErr
}

func (c *fakeClient) Generate(context.Context, string) (string, error) {
	return c.response, c.genErr
}

func (c *fakeClient) loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadCalls
}

func sampleDraft() harvest.Event {
	return harvest.Event{
		Title:       "Лекция о космосе",
		Date:        "25.12.2024",
		Time:        "18:00",
		Location:    "Аудитория 204",
		Description: "Старое описание",
		Category:    "education",
		SourceURL:   "https://t.me/mospolytech/1",
		Confidence:  0.9,
	}
}

func TestRefineMergesFields(t *testing.T) {
	client := &fakeClient{response: `Вот результат:
{"title": "Лекция о космосе и звездах", "date": "", "time": "19:00", "location": "", "description": "Новое описание"}`}
	r := New(client, zap.NewNop())

	refined, ok := r.Refine(context.Background(), "текст", sampleDraft())
	require.True(t, ok)
	require.Equal(t, StateLoaded, r.State())

	require.Equal(t, "Лекция о космосе и звездах", refined.Title)
	// unset refinement fields retain the heuristic values
	require.Equal(t, "25.12.2024", refined.Date)
	require.Equal(t, "Аудитория 204", refined.Location)
	require.Equal(t, "19:00", refined.Time)
	require.Equal(t, "Новое описание", refined.Description)
	require.Equal(t, "education", refined.Category)
	require.Equal(t, "https://t.me/mospolytech/1", refined.SourceURL)
	require.Equal(t, refinedConfidence, refined.Confidence)
}

func TestRefineCircuitBreaker(t *testing.T) {
	client := &fakeClient{loadErr: errors.New("model unavailable")}
	r := New(client, zap.NewNop())

	for i := 0; i < 100; i++ {
		_, ok := r.Refine(context.Background(), "текст", sampleDraft())
		require.False(t, ok)
	}
	require.Equal(t, 1, client.loads())
	require.Equal(t, StateFailed, r.State())
}

func TestRefineLoadsOnlyOnce(t *testing.T) {
	client := &fakeClient{response: `{"title": "Ок"}`}
	r := New(client, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Refine(context.Background(), "текст", sampleDraft())
		}()
	}
	wg.Wait()
	require.Equal(t, 1, client.loads())
	require.Equal(t, StateLoaded, r.State())
}

func TestRefineFallsBackOnBadResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
		genErr   error
	}{
		{"no json", "модель ответила прозой без объекта", nil},
		{"unbalanced braces", `{"title": "обрыв`, nil},
		{"missing title", `{"date": "01.01.2025"}`, nil},
		{"invalid json", `{title: незакавыченный}`, nil},
		{"generation error", "", errors.New("timeout")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response, genErr: tt.genErr}
			r := New(client, zap.NewNop())
			_, ok := r.Refine(context.Background(), "текст", sampleDraft())
			require.False(t, ok)
			// parse failure does not trip the breaker
			require.Equal(t, StateLoaded, r.State())
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"embedded in prose", `ответ: {"a": 1} спасибо`, `{"a": 1}`, true},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"braces inside strings", `{"a": "скобка } в строке"}`, `{"a": "скобка } в строке"}`, true},
		{"no object", "нет объекта", "", false},
		{"unbalanced", `{"a": 1`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
