// Package session tracks where each chat is in the bot dialog.
//
// The bot is a tiny state machine per chat:
//
//	IDLE ──/parse──► AWAITING_QUERY ──text──► IDLE
//
// Stages live in Redis when a REDIS_URL is configured, so a restarted
// bot keeps its open dialogs; otherwise an in-memory store is used.
package session

import "context"

// Stage is the dialog position of a single chat.
type Stage string

const (
	// StageIdle means the chat has no dialog in progress.
	StageIdle Stage = "IDLE"

	// StageAwaitingQuery means /parse was received and the next
	// plain-text message is treated as the search query.
	StageAwaitingQuery Stage = "AWAITING_QUERY"
)

// Store persists dialog stages per chat.
type Store interface {
	// Stage returns the current stage for a chat. Unknown chats are StageIdle.
	Stage(ctx context.Context, chatID int64) (Stage, error)

	// SetStage moves a chat to the given stage.
	SetStage(ctx context.Context, chatID int64, st Stage) error

	// Clear drops the stage for a chat, returning it to StageIdle.
	Clear(ctx context.Context, chatID int64) error
}
