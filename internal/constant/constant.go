package constant

// Texts and callback codes of the bot dialogue. UI is Russian by design,
// the buttons carry the same emoji as the site's landing blocks.
const (
	EMOJI_PERSON     = "\U0001F464"   // 👤
	EMOJI_OFFICE     = "\U0001F3E2"   // 🏢
	EMOJI_MICROPHONE = "\U0001F3A4"   // 🎤
	EMOJI_HANDSHAKE  = "\U0001F91D"   // 🤝
	EMOJI_MEMO       = "\U0001F4DD"   // 📝
	EMOJI_CHECK      = "✅"       // ✅
	EMOJI_BACK       = "↩️" // ↩️
	EMOJI_RECEIPT    = "\U0001F9FE"   // 🧾

	MSG_WELCOME = "Добро пожаловать в **Мари-Иль**.\nЯ — бот-менеджер агентства: задам несколько вопросов и передам заявку Марине лично."

	MSG_SEGMENT_MENU      = "Выберите направление:"
	MSG_SEGMENT_PRESELECT = "Вы выбрали: **%s**."
	MSG_SEGMENT_ACCEPTED  = "Принято: **%s**.\nГотовы за 60 секунд собрать заявку?"

	MSG_BRIEF_GOAL     = "1/3. Напишите одной фразой, что нужно (цель/задача):"
	MSG_BRIEF_DEADLINE = "2/3. Сроки: когда нужно получить результат?"
	MSG_BRIEF_CONTACT  = "3/3. Контакт: телефон или @ник (как удобнее)"
	MSG_BRIEF_DONE     = "Заявка принята " + EMOJI_CHECK + " Марина свяжется с вами лично."

	BUTTON_TEXT_BRIEF_START      = EMOJI_MEMO + " Бриф (1 мин)"
	BUTTON_TEXT_BRIEF_YES        = EMOJI_CHECK + " Да, бриф"
	BUTTON_TEXT_BACK_TO_SEGMENTS = EMOJI_BACK + " Назад к выбору"

	BUTTON_CODE_BRIEF_START      = "brief_start"
	BUTTON_CODE_BACK_TO_SEGMENTS = "back_to_segments"
)

// SegmentEmoji returns the menu emoji for a segment value, empty for unknown.
func SegmentEmoji(seg string) string {
	switch seg {
	case "specialist":
		return EMOJI_PERSON
	case "business":
		return EMOJI_OFFICE
	case "event":
		return EMOJI_MICROPHONE
	case "teambuilding":
		return EMOJI_HANDSHAKE
	}
	return ""
}
