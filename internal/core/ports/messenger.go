package ports

import (
	"context"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// Messenger delivers a bot message synchronously.
type Messenger interface {
	SendMessage(ctx context.Context, msg domain.OutboundMessage) error
}

// Notifier queues a bot message for asynchronous delivery.
type Notifier interface {
	Enqueue(msg domain.OutboundMessage)
}

// ContentGenerator is the AI help collaborator.
type ContentGenerator interface {
	Generate(ctx context.Context, req domain.ContentRequest) (*domain.ContentResponse, error)
}
