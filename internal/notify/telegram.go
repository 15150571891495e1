// Package notify delivers collector output to Telegram chats.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hhscout/collector-service/internal/collector"
)

// TelegramNotifier sends and edits chat messages through the Bot API.
// The underlying client has no context support, so every call checks
// ctx first and gives up early on cancelled runs.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier wraps an authorized Bot API client.
func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

// SendText posts a plain-text message and returns a reference to it,
// so later progress updates can edit the message in place.
func (n *TelegramNotifier) SendText(ctx context.Context, chatID int64, text string) (collector.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return collector.MessageRef{}, err
	}

	sent, err := n.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return collector.MessageRef{}, fmt.Errorf("failed to send message: %w", err)
	}
	return collector.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// SendHTML posts a message with HTML formatting enabled.
func (n *TelegramNotifier) SendHTML(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// EditText replaces the text of a previously sent message.
func (n *TelegramNotifier) EditText(ctx context.Context, ref collector.MessageRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := n.api.Send(tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendDocument uploads a local file to the chat with a caption.
func (n *TelegramNotifier) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := n.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}
