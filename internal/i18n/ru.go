package i18n

var ru = map[string]string{
	"chooseLang": "🌐 Выбери язык / Tilni tanlang:",
	"hint": "👋 <b>Привет!</b>\n\nЯ помогу тебе прокачать английский методом интервальных повторений. 🧠\n\n🎯 <b>Как это работает?</b>\n1. Ты кидаешь мне слова ➕\n2. Я вовремя о них напоминаю 🔔\n3. Ты оцениваешь, насколько легко было вспомнить ⭐\n\nПогнали? 🚀",
	"askInterval": "⏱ <b>Твой ритм</b>\n\nКак часто присылать слова?\n\n👇 Напиши число минут (от {min} до {max}).\n<i>Например: 15, 30 или 60.</i>",

	"onboarding.finished": "🚀 <b>Ты в игре!</b>\nИнтервал: {value} мин.\n\n👇 <b>Отправь мне первое слово</b> на английском, и начнем обучение.",
	"onboarding.menuTip":  "⚙️ <b>Меню настроек</b> появилось внизу.",

	"btn.settings":    "⚙️ Настройки",
	"btn.stats":       "📊 Прогресс",
	"btn.back":        "⬅️ Назад",
	"btn.next":        "Понятно, погнали! 🚀",
	"btn.interval":    "⏱ Интервал",
	"btn.cancel":      "❌ Отмена",
	"btn.limit":       "🛑 Лимит",
	"btn.notifyOn":    "🔔 Включены",
	"btn.notifyOff":   "🔕 Выключены",
	"btn.confirmOk":   "✅ Всё верно",
	"btn.confirmEdit": "✏️ Исправить",
	"btn.gradeHard":   "😓 Сложно",
	"btn.gradeGood":   "🙂 Нормально",
	"btn.gradeEasy":   "😎 Легко",

	"settings.title":            "⚙️ <b>Твои настройки</b>",
	"settings.notificationsOn":  "🔔 <b>Уведомления</b>: Работают",
	"settings.notificationsOff": "🔕 <b>Уведомления</b>: Спят",
	"settings.intervalLine":     "⏱ <b>Интервал</b>: {value} мин",
	"settings.limitLine":        "🛑 <b>Лимит</b>: {value} слов/день",

	"settings.interval.ask":        "⏱ <b>Настрой ритм</b>\n\nСейчас: раз в {current} мин.\n👇 Напиши новое число (от {min} до {max}):",
	"settings.limit.ask":           "🛑 <b>Лимит уведомлений</b>\n\nСейчас: {current} в день.\n👇 Введи новый лимит (от {min} до {max}):",
	"settings.interval.saved":      "✅ <b>Готово!</b> Новый ритм: {value} мин.",
	"settings.limit.saved":         "🛑 <b>Лимит обновлен:</b> {value} уведомлений.",
	"settings.interval.needNumber": "🤔 <b>Нужно число.</b> Например: 15",
	"settings.limit.needNumber":    "🤔 <b>Введи число.</b> Например: 30",
	"settings.interval.outRange":   "⚠️ <b>От {min} до {max} минут.</b>",
	"settings.limit.outRange":      "⚠️ <b>От {min} до {max}.</b>",

	"add.enter":         "➕ <b>Новое слово</b>\n\nНапиши слово на английском:",
	"add.exists":        "🤓 <b>Уже есть:</b> {en} — {ru}",
	"add.suggest":       "💡 <b>Мой вариант перевода:</b> {tr}\n\nВсё верно?",
	"add.noSuggest":     "🤷 Не нашел перевод для <b>{en}</b>.\nНапиши свой вариант:",
	"add.manual":        "✏️ Напиши свой перевод:",
	"add.saved":         "✅ <b>Сохранил:</b> {en} — {ru}\nПервое повторение через 5 минут. ⏱",
	"add.duplicate":     "🤓 Слово <b>{en}</b> уже есть в твоем словаре.",
	"add.dailyLimit":    "🛑 <b>Лимит на сегодня:</b> {limit} новых слов.\nПродолжим завтра!",
	"add.error":         "😿 Не получилось сохранить слово. Попробуй еще раз.",
	"add.failSave":      "😿 Потерял слово по дороге. Начни заново: /add",
	"add.cancelled":     "❌ Отменил.",
	"add.confirmPrompt": "👇 Нажми кнопку: подтвердить, исправить или отменить.",

	"import.ask":           "📥 Пришли .xlsx файл: первая колонка — слово, вторая — перевод.",
	"import.fetchError":    "❌ Не удалось получить файл.",
	"import.downloadError": "❌ Не удалось скачать файл.",
	"import.parseError":    "❌ Не удалось разобрать файл.",
	"import.done":          "📥 Импорт завершен.\nДобавлено: {added}\nПропущено: {skipped}",
	"import.errorsLine":    "Ошибок: {count}",

	"worker.verifyPrompt": "🧠 <b>Переведи:</b> {phrase}",
	"worker.answerPrompt": "✍️ Ответь сообщением.",
	"worker.reminder":     "👋 <b>Эй!</b> Слово всё еще ждет перевода. ⏳",
	"worker.skipped":      "💤 <b>Пропускаем.</b> Вернемся к этому слову через часик.",

	"answer.correct":   "✅ <b>Верно!</b>",
	"answer.incorrect": "❌ <b>Мимо.</b>",
	"answer.correctIs": "Правильный ответ: <b>{answer}</b>",
	"answer.pickGrade": "Насколько легко было вспомнить? 👇",

	"grade.accepted":     "📈 <b>Записал!</b>",
	"grade.saved":        "Оценка сохранена",
	"grade.noActive":     "Сейчас нет активной карточки",
	"grade.progress":     "Сегодня: {done}/{limit}. Осталось {left}. 💪",
	"grade.limitReached": "🏁 План на сегодня выполнен!",

	"session.lost": "🔄 Сессия потерялась. Начни заново — пришли слово или жди следующую карточку.",

	"stats.title":  "📊 <b>Твой прогресс</b>",
	"stats.words":  "📚 Слов в словаре: <b>{count}</b>",
	"stats.due":    "⏳ Ждут повторения: <b>{count}</b>",
	"stats.streak": "🔥 Серия: <b>{days}</b> дн.",
}
