package catalog

import "fmt"

var milestones = map[int]string{
	1:   "Первый день - ты красавчик! 🌟",
	2:   "Ого, уже второй день! Отлично держишься! 💪",
	3:   "День третий - так держать! 🔥",
	7:   "Неделя без курения! Невероятно! 🚀",
	14:  "Две недели! Ты просто молодец! 🏆",
	30:  "Месяц без курения! Легенда! 🎯",
	60:  "Два месяца! Ты профи! 🎖️",
	90:  "Три месяца! Просто космос! 🌌",
	180: "Полгода! Ты герой! 🦸‍♂️",
	365: "ГОД БЕЗ КУРЕНИЯ! ЧЕМПИОН! 🏅",
}

// Motivational returns the milestone text for day if there is one, else the
// text of the smallest bucket containing day, else an anniversary text.
func Motivational(day int) string {
	if msg, ok := milestones[day]; ok {
		return msg
	}
	switch {
	case day <= 7:
		return fmt.Sprintf("День %d - неделя почти за плечами! 🚀", day)
	case day <= 14:
		return fmt.Sprintf("День %d - уже больше недели! Гордись собой! 🏆", day)
	case day <= 30:
		return fmt.Sprintf("День %d - месяц на горизонте! Невероятно! 🎯", day)
	case day <= 90:
		return fmt.Sprintf("День %d - ты уже профи! Месяц за плечами! 🎖️", day)
	case day <= 180:
		return fmt.Sprintf("День %d - полгода почти рядом! 🌟", day)
	case day <= 365:
		return fmt.Sprintf("День %d - год на горизонте! Легенда! 🌌", day)
	}
	years, remaining := day/365, day%365
	return fmt.Sprintf("День %d (%d лет %d дней) - ты абсолютная легенда! 🏅", day, years, remaining)
}

// HealthBenefit describes what the body has recovered by day.
func HealthBenefit(day int) string {
	switch {
	case day == 1:
		return "🫁 Через 20 минут пульс и давление нормализуются!"
	case day == 2:
		return "👃 Вкус и запах уже начинают восстанавливаться!"
	case day == 3:
		return "💪 Дыхание становится легче, энергии больше!"
	case day <= 7:
		return "🔋 Никотин полностью вышел из организма!"
	case day <= 14:
		return "🏃‍♂️ Кровообращение улучшается, легче заниматься спортом!"
	case day <= 30:
		return "🫁 Функция легких улучшается на 30%!"
	case day <= 90:
		return "❤️ Риск сердечного приступа значительно снижен!"
	case day <= 365:
		return "🩺 Риск инсульта снизился в 2 раза!"
	default:
		return "🌟 Твой организм благодарит тебя каждый день!"
	}
}
