package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/internal/checkin"
	"github.com/BatmanBruc/bat-bot-checkin/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-checkin/internal/i18n"
	"github.com/BatmanBruc/bat-bot-checkin/internal/messages"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

type Handlers struct {
	service  *checkin.Service
	reporter *checkin.Reporter
	log      *zap.Logger
}

func NewHandlers(service *checkin.Service, reporter *checkin.Reporter, log *zap.Logger) *Handlers {
	return &Handlers{
		service:  service,
		reporter: reporter,
		log:      log,
	}
}

func (bh *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	id, ok := contextkeys.GetIdentity(ctx)
	if !ok {
		bh.log.Error("identity not found in context")
		return
	}
	lang := langFromCtx(ctx)

	text := strings.TrimSpace(update.Message.Text)
	if strings.HasPrefix(text, "/") {
		bh.HandleCommand(ctx, b, text, id, lang)
		return
	}
	bh.send(ctx, b, id.ChatID, messages.UsageHint(lang))
}

func (bh *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, text string, id types.Identity, lang i18n.Lang) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	// group chats address commands as /checkin@botname
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	switch cmd {
	case "/start":
		bh.send(ctx, b, id.ChatID, messages.StartWelcome(lang, id.FirstName))
	case "/checkin":
		bh.handleCheckin(ctx, b, id, lang)
	case "/stats":
		bh.handleStats(ctx, b, id, lang)
	default:
		bh.send(ctx, b, id.ChatID, messages.ErrorUnknownCommand(lang))
	}
}

func (bh *Handlers) handleCheckin(ctx context.Context, b *bot.Bot, id types.Identity, lang i18n.Lang) {
	outcome, err := bh.service.PerformCheckin(ctx, id)
	if err != nil {
		bh.logError(ctx, "checkin failed", id.UserID, err)
		bh.send(ctx, b, id.ChatID, messages.ErrorDefault(lang))
		return
	}
	switch outcome {
	case types.OutcomeCheckedIn:
		bh.send(ctx, b, id.ChatID, messages.CheckinSuccess(lang, types.DefaultPoints))
	case types.OutcomeAlreadyCheckedIn:
		bh.send(ctx, b, id.ChatID, messages.CheckinAlready(lang))
	}
}

func (bh *Handlers) handleStats(ctx context.Context, b *bot.Bot, id types.Identity, lang i18n.Lang) {
	report, err := bh.reporter.BuildReport(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, checkin.ErrUnauthorized) {
			bh.send(ctx, b, id.ChatID, messages.StatsDenied(lang))
			return
		}
		bh.logError(ctx, "stats failed", id.UserID, err)
		bh.send(ctx, b, id.ChatID, messages.ErrorDefault(lang))
		return
	}
	if len(report.PerUser) == 0 {
		bh.send(ctx, b, id.ChatID, messages.StatsEmpty(lang))
		return
	}
	for _, chunk := range splitMessage(messages.StatsReport(lang, report), maxMessageLength) {
		bh.send(ctx, b, id.ChatID, chunk)
	}
}

func (bh *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		bh.log.Error("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (bh *Handlers) logError(ctx context.Context, msg string, userID int64, err error) {
	fields := []zap.Field{zap.Int64("user_id", userID), zap.Error(err)}
	if reqID, ok := contextkeys.GetRequestID(ctx); ok {
		fields = append(fields, zap.String("request_id", reqID))
	}
	bh.log.Error(msg, fields...)
}

func langFromCtx(ctx context.Context) i18n.Lang {
	if v, ok := contextkeys.GetLang(ctx); ok {
		return i18n.FromLanguageCode(v)
	}
	return i18n.EN
}
