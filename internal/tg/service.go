package tg

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pvzzle/polywatch/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// Service шлёт уведомления в один настроенный чат и отвечает на пару
// сервисных команд.
type Service struct {
	bot     *tgbot.Bot
	chatID  int64
	limiter *rate.Limiter

	repo storage.Repository
}

func NewService(b *tgbot.Bot, chatID int64, repo storage.Repository) *Service {
	s := &Service{
		bot:    b,
		chatID: chatID,
		// лимиты телеграма щедрее, но запас не помешает
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		repo:    repo,
	}
	s.registerHandlers()
	return s
}

func (s *Service) registerHandlers() {
	s.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, s.onStart)
	s.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/recent", tgbot.MatchTypeExact, s.onRecent)
}

// Send доставляет одно сообщение в настроенный чат.
func (s *Service) Send(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := s.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: s.chatID,
		Text:   text,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: tgbot.True(),
		},
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (s *Service) onStart(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	if upd.Message == nil {
		return
	}
	_, _ = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: upd.Message.Chat.ID,
		Text:   "Я слежу за активностью аккаунта на Polymarket и шлю сюда новые события.\n\n/recent — последние записанные события",
	})
}

func (s *Service) onRecent(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	if upd.Message == nil {
		return
	}
	chatID := upd.Message.Chat.ID

	recs, err := s.repo.ListRecent(ctx, 10)
	if err != nil {
		log.Printf("[tg] list recent: %v", err)
		_, _ = b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("Ошибка чтения истории: %v", err),
		})
		return
	}

	_, _ = b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   FormatRecent(recs),
	})
}
