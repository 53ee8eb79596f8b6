package controller

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/controller/handlers"
	"github.com/Azemoten/sauna-booking-bot/internal/controller/state"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	bookingService *service.BookingService,
	logger *zap.Logger,
) *BotController {
	// Сессии мастера живут в памяти процесса
	sessions := state.NewManager()

	msgHandlers := handlers.NewHandlers(
		NewTelegramSender(botInstance),
		bookingService,
		sessions,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: msgHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует обработку входящих сообщений.
// Все тексты идут в единый диспетчер: команды с аргументами и русские
// синонимы не ложатся в точные матчеры телеграм-библиотеки.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handleMessage)

	return c.setCommands(ctx)
}

func (c *BotController) handleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	// Telegram не отдаёт номер телефона — стабильным идентификатором
	// клиента служит ID отправителя
	phone := strconv.FormatInt(update.Message.From.ID, 10)

	c.handlers.Dispatch(ctx, chatID, phone, update.Message.Text)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "book", Description: "🧖 Забронировать кабинку"},
		{Command: "my", Description: "📅 Мои брони"},
		{Command: "cancel", Description: "❌ Отменить бронь"},
		{Command: "today", Description: "🕐 Свободные слоты на сегодня"},
		{Command: "reset", Description: "🔄 Сброс диалога"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
