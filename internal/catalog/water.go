package catalog

// Window is a fixed part of the day.
type Window int

const (
	Night Window = iota
	Morning
	Midday
	Evening
)

func (w Window) String() string {
	switch w {
	case Morning:
		return "morning"
	case Midday:
		return "midday"
	case Evening:
		return "evening"
	default:
		return "night"
	}
}

// WindowFor maps an hour (0-23) to its half-open window:
// [6,12) morning, [12,17) midday, [17,22) evening, otherwise night.
func WindowFor(hour int) Window {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Midday
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

var waterSpecial = map[Window]string{
	Morning: "🌅 Доброе утро! Начни день со стакана воды! 💧",
	Midday:  "☀️ Обеденное время! Не забудь про водичку! 🥤",
	Evening: "🌇 Вечер - время расслабиться с чашкой травяного чая или воды! 💦",
	Night:   "🌙 Перед сном - последний глоток воды для хорошего сна! 😴",
}

// HourReminder is the window-bound water message for a local hour.
func HourReminder(hour int) string {
	return waterSpecial[WindowFor(hour)]
}

var WaterReminders = []string{
	"💧 Пить нужно часто! Глотни водички 😊",
	"🌊 А не засохнешь? Время попить воды!",
	"💦 Твой организм просит воды! Не забывай пить",
	"🥤 Гидратация - это важно! Выпей стаканчик воды",
	"💧 Вода - источник жизни! Время освежиться",
	"🌊 Почки скажут спасибо за стакан воды!",
	"💦 Кожа будет благодарна за глоток воды",
	"🥛 Не дай себе засохнуть! Пей больше воды",
	"💧 Время водной паузы! Выпей немного воды",
	"🌊 Вода помогает мозгу работать лучше! Попей",
	"💦 Маленький глоток - большая польза!",
	"🥤 Помни: 8 стаканов в день - это норма!",
	"💧 Каждая клеточка твоего тела просит воды!",
	"🌊 Выпей воды и почувствуй прилив энергии!",
	"💦 Водичка поможет коже сиять! ✨",
	"🥛 Глоток воды = забота о себе 💕",
	"💧 Не забывай: ты на 60% состоишь из воды!",
	"🌊 Время гидратации! Твой организм скажет спасибо",
	"💦 Вода - лучший напиток для красоты и здоровья!",
	"🥤 Маленький перерыв на воду - большая польза!",
	"💧 Пей воду и будь здоровой! 🌸",
	"🌊 Каждый глоток воды - инвестиция в здоровье!",
	"💦 Время освежиться! Попей водички 😌",
	"🥛 Вода - твой лучший друг для хорошего самочувствия!",
}

var WaterFacts = []string{
	"💧 Факт: Даже 2% обезвоживания может снизить концентрацию на 30%!",
	"🌊 Знала ли ты? Вода помогает выводить токсины через почки!",
	"💦 Интересно: Достаточное количество воды улучшает настроение!",
	"🥤 Факт: Вода ускоряет метаболизм на 30% в течение часа!",
	"💧 Знала ли ты? Недостаток воды - частая причина усталости!",
	"🌊 Факт: Кожа на 64% состоит из воды - пей для красоты!",
	"💦 Интересно: Мозг на 75% состоит из воды!",
	"🥛 Факт: Вода помогает суставам оставаться здоровыми!",
}
