// Package audit records every state-changing sync decision: durably in the
// database, and mirrored to Kafka for downstream consumers when brokers are
// configured.
package audit

import (
	"context"

	"pricesync/internal/logger"
	"pricesync/internal/models"
)

type Repository interface {
	Log(ctx context.Context, entry *models.AuditEntry) error
}

// Trail is the audit seam the sync service writes through. The database
// row is authoritative; the Kafka event is best-effort.
type Trail struct {
	repo      Repository
	publisher *Publisher
	logger    *logger.Logger
}

func NewTrail(repo Repository, publisher *Publisher, log *logger.Logger) *Trail {
	return &Trail{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (t *Trail) Log(ctx context.Context, entry *models.AuditEntry) error {
	if err := t.repo.Log(ctx, entry); err != nil {
		return err
	}

	if err := t.publisher.Publish(ctx, entry); err != nil {
		t.logger.Error("Failed to publish audit event: %v", err)
	}
	return nil
}
