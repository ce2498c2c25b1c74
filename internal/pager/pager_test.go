package pager

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
	"github.com/Iasm789/event-mospolytech-bot/internal/hash/sha256"
)

func messageBlock(id, datetime, text string) string {
	return fmt.Sprintf(`
<div class="tgme_widget_message">
  <div class="tgme_widget_message_text">%s</div>
  <a class="tgme_widget_message_date" href="https://t.me/mospolytech/%s">
    <time datetime="%s"></time>
  </a>
</div>`, text, id, datetime)
}

func newTestPager() *Pager {
	return New(sha256.New(), time.UTC, 10, zap.NewNop())
}

func TestParseExtractsPosts(t *testing.T) {
	html := "<html><body>" +
		messageBlock("101", "2024-12-20T10:00:00+00:00", "Лекция о космосе<br>Завтра в 18:00, аудитория 204") +
		messageBlock("102", "2024-12-21T11:30:00+00:00", "Приглашаем на мастер-класс 25.12.2024") +
		"</body></html>"

	p := newTestPager()
	cutoff := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	posts, err := p.Parse(html, "mospolytech", cutoff, harvest.NewDedupIndex())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	require.Equal(t, "101", posts[0].ID)
	require.Equal(t, "https://t.me/mospolytech/101", posts[0].URL)
	require.Equal(t, "mospolytech", posts[0].Channel)
	require.Equal(t, "Лекция о космосе\nЗавтра в 18:00, аудитория 204", posts[0].Text)
	require.NotEmpty(t, posts[0].Digest)
	require.Equal(t, time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC), posts[0].Timestamp)
}

func TestParseDropsOldPosts(t *testing.T) {
	html := messageBlock("50", "2024-11-01T10:00:00+00:00", "Старое мероприятие прошло давно") +
		messageBlock("51", "2024-12-20T10:00:00+00:00", "Свежая встреча клуба в 19:00")

	p := newTestPager()
	cutoff := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	posts, err := p.Parse(html, "mospolytech", cutoff, harvest.NewDedupIndex())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "51", posts[0].ID)
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	html := `<div class="tgme_widget_message"><div class="tgme_widget_message_text">нет таймстампа у поста</div></div>` +
		messageBlock("60", "not-a-date", "таймстамп не разбирается") +
		messageBlock("61", "2024-12-20T10:00:00+00:00", "короткий") +
		messageBlock("62", "2024-12-20T10:00:00+00:00", "Нормальный пост про встречу")

	p := newTestPager()
	posts, err := p.Parse(html, "mospolytech", time.Time{}, harvest.NewDedupIndex())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "62", posts[0].ID)
}

func TestParseDeduplicatesByDigest(t *testing.T) {
	block := messageBlock("70", "2024-12-20T10:00:00+00:00", "Повторяющийся анонс мероприятия")
	html := block + block

	p := newTestPager()
	index := harvest.NewDedupIndex()
	posts, err := p.Parse(html, "mospolytech", time.Time{}, index)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// a second pass over the same markup reports nothing new
	again, err := p.Parse(html, "mospolytech", time.Time{}, index)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestCleanTextStripsChrome(t *testing.T) {
	in := "Концерт в актовом зале\n\n1.2K views\nПодписаться на канал\n12 reactions\nНачало в 18:00"
	require.Equal(t, "Концерт в актовом зале\nНачало в 18:00", cleanText(in))
}
