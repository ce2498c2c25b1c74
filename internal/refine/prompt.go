package refine

import (
	"fmt"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// promptTemplate embeds the heuristic draft and the raw post text and asks
// for a bare JSON object back.
const promptTemplate = `Проанализируй следующий текст о событии на русском языке.

Уже извлечена информация:
- Название: %s
- Дата: %s
- Время: %s
- Место: %s
- Категория: %s

Текст события:
%s

Задача: Проверь извлеченную информацию и уточни её, если необходимо.
Если информация упущена или неточна, дополни её.

Верни ТОЛЬКО JSON без дополнительного текста:
{
    "title": "Точное название события",
    "date": "Дата в формате ДД.ММ.ГГГГ или описание",
    "time": "Время в формате ЧЧ:ММ или описание",
    "location": "Место проведения",
    "description": "Краткое описание события (2-3 предложения)"
}`

func buildPrompt(text string, draft harvest.Event) string {
	return fmt.Sprintf(promptTemplate,
		draft.Title, draft.Date, draft.Time, draft.Location, draft.Category, text)
}
