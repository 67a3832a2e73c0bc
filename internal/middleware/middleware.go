package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

type Middlewares struct {
	dedup types.DedupStore
	log   *zap.Logger
}

func New(dedup types.DedupStore, log *zap.Logger) *Middlewares {
	return &Middlewares{
		dedup: dedup,
		log:   log,
	}
}

// IdentifyMiddleware extracts the sender's identity, language and a request
// id into the context. Updates without a sender are dropped here.
func (m *Middlewares) IdentifyMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		from := update.Message.From
		id := types.Identity{
			UserID:    from.ID,
			ChatID:    update.Message.Chat.ID,
			Username:  from.Username,
			FirstName: from.FirstName,
			LastName:  from.LastName,
		}
		if id.UserID == 0 || id.ChatID == 0 {
			return
		}
		ctx = contextkeys.WithIdentity(ctx, id)
		ctx = contextkeys.WithLang(ctx, from.LanguageCode)
		ctx = contextkeys.WithRequestID(ctx, uuid.New().String())
		next(ctx, b, update)
	}
}

// DedupMiddleware drops updates the bot has already handled. Dedup is
// best-effort: when Redis is down the update passes through, and the
// ledger's uniqueness constraint still holds the at-most-once credit.
func (m *Middlewares) DedupMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if m.dedup == nil {
			next(ctx, b, update)
			return
		}
		first, err := m.dedup.FirstSeen(ctx, update.ID)
		if err != nil {
			m.log.Warn("update dedup unavailable", zap.Error(err))
			next(ctx, b, update)
			return
		}
		if !first {
			m.log.Debug("duplicate update dropped", zap.Int64("update_id", update.ID))
			return
		}
		next(ctx, b, update)
	}
}
