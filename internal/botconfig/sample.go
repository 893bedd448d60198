package botconfig

import "time"

// Sample returns the diving-school demo document the editor opens with when no file
// has been imported.
func Sample() *BotConfig {
	doc := New(Company{
		Lang:              "Русский",
		SalespersonName:   "Мария",
		SalespersonGender: "Женский",
		SalespersonRole:   "Эксперт с опытом дайвинга более 20 лет",
		Product:           "собранная информация о клиенте",
		CompanyName:       "Время Нырять",
	})
	doc.Settings.Version = 4
	doc.Settings.CreatedAt = time.Now().UTC()
	doc.Content.WakeupsBase = []string{"Вы с нами? 😊", "Если удобно, я продолжу!"}
	doc.Content.ThankYouNote = "Спасибо за интерес — надеюсь, погружение будет волшебным!"
	doc.Stages = []Stage{
		{
			Name:     "Приветствие",
			Prompt:   "Поприветствуй клиента, представься расскажи о себе…",
			Question: "Подскажите, пожалуйста, как я могу к вам обращаться?",
			Theme:    "Обращение к клиенту",
			Segments: []Segment{
				{
					ID:          "seg1",
					Type:        "Нет ответа",
					Description: "Клиент не дал никакого ответа",
					Examples:    []string{},
				},
				{
					ID:          "seg2",
					Type:        "Имя указано",
					Description: "Клиент представился нормальным тоном",
					Examples:    []string{"Меня зовут Анна", "Алексей", "Можно просто Миша"},
				},
			},
			Wakeups: []Wakeup{
				{
					ID:       "wk1",
					Trigger:  "no_response_15s",
					Timer:    15,
					Prompt:   "Я тут, если что! Могу задать вопрос?",
					Question: "Как к вам обращаться, чтобы было удобно?",
				},
			},
		},
	}
	Normalize(doc)
	return doc
}
