package catalog

var MedicineReminders = []string{
	"💊 Мамочка, время принять лекарства! Не забывай о своем здоровье ❤️",
	"🩺 Напоминание: пора принять препараты! Твое здоровье важно 💕",
	"💊 Время лекарств! Береги себя, дорогая мама 🌸",
	"🩺 Не забудь про таблетки! Здоровье - это главное 💖",
	"💊 Мама, пора принять лекарства! Заботься о себе 🤗",
	"🩺 Время препаратов! Твое самочувствие очень важно ❤️",
	"💊 Напоминание о лекарствах! Будь здорова, мамуля 💐",
	"🩺 Пора принять таблетки! Береги свое здоровье 🌺",
	"💊 Время лечения! Не пропускай прием лекарств 💝",
	"🩺 Мамочка, твои препараты ждут! Заботься о себе 🌹",
}

var MedicineMotivation = []string{
	"💊 Регулярный прием лекарств - залог хорошего самочувствия! 🌟\nТвое здоровье бесценно ❤️",
	"🩺 Каждая таблетка - это забота о твоем будущем! 💖\nПродолжай заботиться о себе 🌸",
	"💊 Постоянство в лечении приводит к отличным результатам! 🎯\nТы молодец, что следишь за здоровьем! 💕",
	"🩺 Твое здоровье - это подарок всей семье! 🎁\nСпасибо, что заботишься о себе ❤️",
	"💊 Регулярность - ключ к успешному лечению! 🗝️\nПродолжай в том же духе! 🌺",
}

var MedicineTips = []string{
	"💡 Совет: принимай лекарства в одно и то же время для лучшего эффекта!",
	"💡 Помни: запивай таблетки достаточным количеством воды!",
	"💡 Совет: веди дневник приема лекарств - это поможет врачу!",
	"💡 Важно: не пропускай прием, даже если чувствуешь себя хорошо!",
	"💡 Помни: если есть вопросы о лекарствах - обращайся к врачу!",
	"💡 Совет: храни препараты в прохладном сухом месте!",
	"💡 Важно: проверяй срок годности лекарств регулярно!",
}

var MedicineMorning = []string{
	"🌅 Доброе утро, мамочка! Начни день с заботы о здоровье - прими утренние лекарства! ☀️💊",
	"🌄 Утро - лучшее время для заботы о себе! Не забудь про препараты! 💕",
	"☀️ Новый день начинается с заботы о здоровье! Время утренних лекарств! 🌸",
	"🌅 Доброе утро! Пусть день начнется с правильной заботы о себе! 💊❤️",
}

var MedicineEvening = []string{
	"🌆 Вечер - время позаботиться о здоровье! Прими вечерние лекарства! 💊✨",
	"🌙 Заверши день заботой о себе - время вечерних препаратов! 💕",
	"🌇 Вечернее напоминание: твое здоровье в твоих руках! 💊🌟",
	"🌆 Пусть вечер пройдет с пользой для здоровья! Время лекарств! ❤️",
}
