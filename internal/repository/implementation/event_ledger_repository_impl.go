package implementation

import (
	"context"
	"errors"
	"time"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/mapper"
	"member-portal-be/internal/model"
	"member-portal-be/internal/repository/contract"

	"gorm.io/gorm"
)

type EventLedgerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EventLedgerMapper
}

func NewEventLedgerRepository(db *gorm.DB) contract.EventLedgerRepository {
	return &EventLedgerRepositoryImpl{
		db:     db,
		mapper: mapper.NewEventLedgerMapper(),
	}
}

func (r *EventLedgerRepositoryImpl) Claim(ctx context.Context, eventId, eventType string, staleAfter time.Duration) (entity.ClaimResult, error) {
	now := time.Now().UTC()

	// Atomic insert. The primary key on id arbitrates between concurrent
	// workers; exactly one insert wins.
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO webhook_events (id, event_type, status, received_at)
		VALUES (?, ?, 'pending', ?)
		ON CONFLICT (id) DO NOTHING
	`, eventId, eventType, now)
	if res.Error != nil {
		return entity.ClaimAlreadyDone, res.Error
	}
	if res.RowsAffected == 1 {
		return entity.ClaimFresh, nil
	}

	var existing model.WebhookEvent
	if err := r.db.WithContext(ctx).First(&existing, "id = ?", eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Row vanished between insert and read. Treat as in-flight.
			return entity.ClaimAlreadyDone, nil
		}
		return entity.ClaimAlreadyDone, err
	}

	switch entity.EventStatus(existing.Status) {
	case entity.EventStatusDone:
		return entity.ClaimAlreadyDone, nil
	case entity.EventStatusPending:
		if now.Sub(existing.ReceivedAt) <= staleAfter {
			// Another worker is actively on it.
			return entity.ClaimAlreadyDone, nil
		}
	}

	// FAILED, or PENDING past the stale-lock threshold (a crashed prior
	// attempt). Take over with a guarded update so only one re-claimer wins.
	take := r.db.WithContext(ctx).Exec(`
		UPDATE webhook_events
		SET status = 'pending', received_at = ?, processed_at = NULL
		WHERE id = ?
		  AND (status = 'failed' OR (status = 'pending' AND received_at < ?))
	`, now, eventId, now.Add(-staleAfter))
	if take.Error != nil {
		return entity.ClaimAlreadyDone, take.Error
	}
	if take.RowsAffected == 0 {
		// Someone else re-claimed or finished it first.
		return entity.ClaimAlreadyDone, nil
	}
	return entity.ClaimReclaimed, nil
}

// MarkDone guards on status so a terminal DONE row never regresses, even if
// a stale worker wakes up late.
func (r *EventLedgerRepositoryImpl) MarkDone(ctx context.Context, eventId string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ? AND status <> 'done'", eventId).
		Updates(map[string]interface{}{
			"status":       string(entity.EventStatusDone),
			"processed_at": now,
		}).Error
}

func (r *EventLedgerRepositoryImpl) MarkFailed(ctx context.Context, eventId string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ? AND status <> 'done'", eventId).
		Updates(map[string]interface{}{
			"status":       string(entity.EventStatusFailed),
			"processed_at": now,
		}).Error
}

func (r *EventLedgerRepositoryImpl) FindOne(ctx context.Context, eventId string) (*entity.EventLedgerEntry, error) {
	var m model.WebhookEvent
	if err := r.db.WithContext(ctx).First(&m, "id = ?", eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
