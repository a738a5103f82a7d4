package catalog

const Greeting = "Привет! Я бот с OpenAI. Задай мне любой вопрос!"

// ChatErrors are shown when the chat completion call fails.
var ChatErrors = []string{
	"🤔 Кажется, что-то пошло не так с моими мозгами!",
	"⚠️ Произошла ошибка при обработке запроса.",
	"🔧 Технические неполадки, попробуй еще раз через минуту.",
	"💭 Что-то сломалось, но я работаю над этим!",
}
