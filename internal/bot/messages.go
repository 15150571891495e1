package bot

// Chat texts. The welcome is HTML, everything else plain text.
const (
	welcomeTemplate = `👋 Приветствую, %s!
Я <b>HH Scout</b> — твой помощник в поиске вакансий с hh.ru 🚀

📌 <b>Основные команды:</b>
▫️ /start — показать это сообщение
▫️ /parse — начать поиск вакансий
▫️ /cancel — остановить текущий поиск

🔎 <b>Как работать с ботом:</b>
1. Отправь команду /parse
2. Введи название профессии (например: Сварщик)
3. Дождись завершения поиска (~2-5 минут)
4. Получи файл Excel с результатами 📄

⚙️ <b>Особенности поиска:</b>
• Ищет вакансии за последние %d дней
• Проверяет все регионы России
• Поддерживает русский и английский язык`

	msgAskProfession = "📝 Введите название профессии для поиска:"
	msgBadProfession = "⚠️ Пожалуйста, введите корректное название профессии (до 100 символов)!"
	msgSearchStarted = "🔍 Начинаем поиск по запросу: %s"
	msgSearchBusy    = "⏳ Поиск уже выполняется. Дождитесь завершения или отправьте /cancel."
	msgCancelled     = "❌ Операция отменена"
)
