package handlers

// Ограничения выдачи в чат
const (
	// Сколько слотов максимум попадает в сообщение со списком выбора.
	// Выбрать по номеру можно и слот за пределами показанного списка.
	MaxShownSlots = 30

	// Сколько ближайших свободных слотов попадает в сводку /today
	TodayDigestLimit = 5
)

// Словари подтверждения на шаге CONFIRM (сравнение без учёта регистра)
var (
	confirmYes = []string{"да", "yes", "y", "+", "ok"}
	confirmNo  = []string{"нет", "no", "n", "-", "cancel"}
)

// Синонимы команд (сравнение с учётом регистра, как набирают клиенты)
var (
	bookAliases   = []string{"/book", "бронь", "забронировать", "бронировать"}
	cancelAliases = []string{"/cancel", "отмена", "отменить", "отказ", "возврат"}
)
