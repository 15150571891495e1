package collector

import (
	"errors"
	"fmt"
	"strings"

	"hhscout/collector-service/internal/interval"
)

// User-facing text is Russian, matching the audience of the hh.ru
// provider. Everything the bot says during a run is assembled here.
const (
	msgSearchStarted   = "🎣 Начинаем поиск вакансий..."
	msgRateLimited     = "⚠️ Превышен лимит запросов! Ждем 10 секунд..."
	msgIntervalTimeout = "⚠️ Превышено время ожидания ответа. Пропускаем период и продолжаем..."
	msgNoResults       = "😞 Не найдено подходящих вакансий"
	msgBadWindow       = "Неверный временной диапазон"
)

// fillerPhrases rotate through the progress message and feed the
// periodic filler notifications while a run is fetching.
var fillerPhrases = []string{
	"🎣 Ловись рыбка - большая и маленькая!",
	"🌊 Закинули сети - ждём улова!",
	"🐠 Рыбка, иди к нам!",
	"🦈 Осторожно, акулы!",
	"🚜 Вам не нужен тракторист? А вдруг найдётся!",
	"🤖 Роботы тоже ищут работу... но пока безрезультатно",
	"📡 Сканирую секретные вакансии ЦРУ...",
	"👾 Внезапно! Вакансия для гонщика космических кораблей!",
}

const barSegments = 10

// renderBar draws the progress bar for a percent in 0..100.
func renderBar(percent int) string {
	filled := percent / barSegments
	return "▰" + strings.Repeat("▰", filled) + strings.Repeat("▱", barSegments-filled) + "▰"
}

// phraseFor picks the rotating phrase for interval index i out of total,
// spreading the phrase list evenly across the whole run.
func phraseFor(i, total int) string {
	perPhrase := max(total/len(fillerPhrases), 1)
	idx := min(i/perPhrase, len(fillerPhrases)-1)
	return fillerPhrases[idx]
}

// progressText renders the body of the progress message for interval
// index i out of total.
func progressText(i, total, percent int) string {
	return fmt.Sprintf("%s\n%s\nПрогресс: %d%%", phraseFor(i, total), renderBar(percent), percent)
}

func completedText(found int) string {
	return fmt.Sprintf("✅ Готово! Найдено вакансий: %d", found)
}

func criticalErrorText(err error) string {
	return "❌ Критическая ошибка: " + userErrorText(err)
}

func networkErrorText(err error, attemptsLeft int) string {
	return fmt.Sprintf("⚠️ Ошибка сети: %v\nПопыток осталось: %d", err, attemptsLeft)
}

func providerErrorText(err error) string {
	return fmt.Sprintf("⚠️ Ошибка: %v", err)
}

// userErrorText translates known failures for the chat. Unknown errors
// pass through as-is.
func userErrorText(err error) string {
	if errors.Is(err, interval.ErrInvalidWindow) {
		return msgBadWindow
	}
	return err.Error()
}
