package catalog

var FrenchReminders = []string{
	"🇫🇷 Bonsoir! Время изучать французский для TFSL теста! 📚✨",
	"📖 Salut! 15-20 минут французского - и ты ближе к своей цели! 🎯",
	"🇫🇷 C'est l'heure d'étudier! Время французского для Канады! 🍁",
	"📚 Bonjour! Каждый день изучения приближает к мечте! 🌟",
	"🇫🇷 Allons-y! Давай изучать французский для TFSL! 💪",
	"📖 Время французского! 15-20 минут для большой цели! 🚀",
	"🇫🇷 Bonne chance! Изучай французский для своего будущего! ❤️",
	"📚 Каждое слово на французском - шаг к жизни в Канаде! 🏔️",
	"🇫🇷 Étudions ensemble! Время вечернего французского! 🌙",
	"📖 Motivation française! Твой французский становится лучше каждый день! ⭐",
}

var FrenchMotivation = []string{
	"🎯 TFSL Test: Каждый день учебы приближает к успеху!\n📈 Французский - это инвестиция в будущее!",
	"🇨🇦 Канада ждет! TFSL тест откроет двери к новой жизни!\n💼 Твой французский - ключ к успеху!",
	"📚 TFSL подготовка: постоянство важнее интенсивности!\n🌟 15-20 минут каждый день = большой результат!",
	"🎓 Французский для TFSL: ты можешь это сделать!\n🚀 Каждое занятие делает тебя сильнее!",
	"🏆 TFSL успех начинается с ежедневной практики!\n💪 Твоя настойчивость обязательно окупится!",
}

var FrenchTips = []string{
	"💡 Совет: сегодня сосредоточься на грамматике - это основа TFSL теста!",
	"💡 Рекомендация: почитай вслух 5 минут - улучшай произношение!",
	"💡 Совет: повтори вчерашние слова перед изучением новых!",
	"💡 Tip: сделай 10 упражнений на времена глаголов!",
	"💡 Совет: послушай французскую речь 5 минут для тренировки слуха!",
	"💡 Рекомендация: напиши 3 предложения на французском о своем дне!",
	"💡 Совет: изучи 5 новых слов и используй их в предложениях!",
	"💡 Tip: повтори правила согласования времен - важно для TFSL!",
	"💡 Совет: прочитай один абзац на французском и переведи его!",
	"💡 Рекомендация: сделай упражнения на аудирование 10 минут!",
}

var FrenchPhrases = []string{
	"🇫🇷 \"Petit à petit, l'oiseau fait son nid\" - Шаг за шагом птица вьет гнездо",
	"🇫🇷 \"Rome ne s'est pas faite en un jour\" - Рим построили не за один день",
	"🇫🇷 \"Vouloir, c'est pouvoir\" - Хотеть значит мочь",
	"🇫🇷 \"La patience est la clé du succès\" - Терпение - ключ к успеху",
	"🇫🇷 \"Qui veut voyager loin ménage sa monture\" - Кто хочет далеко ехать, бережет лошадь",
	"🇫🇷 \"L'avenir appartient à ceux qui se lèvent tôt\" - Будущее принадлежит тем, кто рано встает",
	"🇫🇷 \"Aide-toi, le ciel t'aidera\" - На Бога надейся, а сам не плошай",
}

var FrenchWeekend = []string{
	"🌟 Выходные - отличное время для интенсивного изучения французского!\n🇫🇷 Можешь заниматься дольше обычного! 📚",
	"🎯 Weekend français! Сегодня можно уделить французскому больше времени!\n💪 TFSL тест приближается!",
	"🇫🇷 Викенд - время для французского марафона!\n📖 30-40 минут сегодня вместо обычных 15-20!",
	"🌈 Выходные = французские дни!\n🎓 Повтори всё изученное за неделю!",
}

var FrenchWeekly = []string{
	"📊 Неделя изучения французского завершена!\n🎯 Как прошла подготовка к TFSL тесту?\n💪 Продолжай в том же духе!",
	"🏆 Weekly French Check!\n📚 7 дней занятий = большой прогресс!\n🇫🇷 Français devient plus facile!",
	"⭐ Еженедельный отчет по французскому!\n🎓 Каждый день приближает к цели TFSL!\n🚀 Продолжай двигаться вперед!",
}
