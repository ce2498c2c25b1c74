package extract

import "strings"

// DefaultCategory is assigned when no category keyword scores.
const DefaultCategory = "student_life"

// categories is a fixed, ordered taxonomy: scoring folds over it once and
// ties go to the earlier entry.
var categories = []struct {
	tag      string
	keywords []string
}{
	{"education", []string{
		"лекция", "семинар", "мастер-класс", "тренинг", "курс", "школа",
		"конференция", "дебаты", "практикум", "консультация",
	}},
	{"career", []string{
		"профориентация", "карьера", "стажировка", "интернш", "собеседование",
		"работа", "вакансия", "центр карьеры",
	}},
	{"competitions", []string{
		"конкурс", "фестиваль", "олимпиада", "чемпионат", "турнир",
		"соревнование",
	}},
	{"exhibitions", []string{
		"выставка", "экспозиция", "выставочный", "галерея", "инсталляция",
	}},
	{"culture", []string{
		"концерт", "выступление", "танец", "танцевальный", "кино", "фильм",
		"иллюзион", "шоу", "перформанс", "представление", "спектакль",
		"творческий", "вокальный",
	}},
	{"volunteering", []string{
		"волонтер", "волонтёрск", "социальн", "благотворител", "помощь",
		"акция", "инициатива", "проект", "общественн",
	}},
	{"student_life", []string{
		"студенческ", "студент", "встреча", "клуб", "сообщество",
		"собрание", "самоуправлени", "соуправлени",
	}},
}

// Category scores every taxonomy entry by keyword-hit count and returns
// the best tag.
func Category(text string) string {
	lower := strings.ToLower(text)

	best := DefaultCategory
	bestScore := 0
	for _, c := range categories {
		score := 0
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = c.tag
		}
	}
	return best
}
