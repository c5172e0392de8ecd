package service

import (
	"context"
	"encoding/json"
	"time"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/entity"
	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/logger"
	"member-portal-be/internal/pkg/serverutils"
	"member-portal-be/internal/repository/unitofwork"
	"member-portal-be/pkg/events"

	"github.com/google/uuid"
)

// Event types that trigger provisioning. Everything else is acknowledged
// and discarded without touching the ledger.
var supportedEventTypes = map[string]bool{
	"checkout.session.completed": true,
	"payment_intent.succeeded":   true,
}

type IWebhookService interface {
	// HandleEvent runs the full pipeline for one delivery: verify, claim,
	// decode, provision, mark, publish. The returned error's kind decides
	// the HTTP status at the controller boundary.
	HandleEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*dto.WebhookAck, error)
	GetEventStatus(ctx context.Context, eventId string) (*dto.EventStatusResponse, error)
}

type webhookService struct {
	uowFactory   unitofwork.RepositoryFactory
	verifier     *SignatureVerifier
	decoder      *MetadataDecoder
	provisioning IProvisioningService
	publisher    IPublisherService
	logger       logger.ILogger
	staleLock    time.Duration
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	verifier *SignatureVerifier,
	decoder *MetadataDecoder,
	provisioning IProvisioningService,
	publisher IPublisherService,
	log logger.ILogger,
	staleLock time.Duration,
) IWebhookService {
	return &webhookService{
		uowFactory:   uowFactory,
		verifier:     verifier,
		decoder:      decoder,
		provisioning: provisioning,
		publisher:    publisher,
		logger:       log,
		staleLock:    staleLock,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*dto.WebhookAck, error) {
	correlationId := uuid.NewString()

	// 1. Transport authenticity. Nothing is trusted before this passes.
	if err := s.verifier.Verify(signatureHeader, rawBody); err != nil {
		s.logger.Warn("WebhookReceiver", "rejected delivery with bad signature", map[string]interface{}{
			"correlation_id": correlationId,
			"error":          err.Error(),
		})
		return nil, err
	}

	// 2. Envelope.
	var envelope dto.WebhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "", "unparseable event envelope: %v", err)
	}
	if err := serverutils.ValidateRequest(&envelope); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "", "invalid event envelope: %v", err)
	}

	log := func(level func(string, string, map[string]interface{}), msg string, extra map[string]interface{}) {
		details := map[string]interface{}{
			"event_id":       envelope.Id,
			"event_type":     envelope.Type,
			"correlation_id": correlationId,
		}
		for k, v := range extra {
			details[k] = v
		}
		level("WebhookReceiver", msg, details)
	}

	if !supportedEventTypes[envelope.Type] {
		// Acknowledged and discarded; no idempotency slot is spent.
		log(s.logger.Info, "ignoring unsupported event type", nil)
		return &dto.WebhookAck{Received: true, Message: "event type ignored"}, nil
	}

	// 3. Idempotency claim. The ledger's uniqueness constraint is the only
	// cross-instance synchronization point.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	claim, err := uow.EventLedgerRepository().Claim(ctx, envelope.Id, envelope.Type, s.staleLock)
	if err != nil {
		return nil, apperr.New(apperr.KindTransient, envelope.Id, err)
	}
	switch claim {
	case entity.ClaimAlreadyDone:
		log(s.logger.Info, "duplicate delivery, already processed or in flight", nil)
		return &dto.WebhookAck{Received: true, Message: "duplicate"}, nil
	case entity.ClaimReclaimed:
		log(s.logger.Warn, "reclaimed event from a failed or stale prior attempt", nil)
	}

	// 4. Metadata.
	meta, err := s.decoder.Decode(envelope.Id, envelope.Data.Object.Metadata)
	if err != nil {
		log(s.logger.Error, "rejecting event with malformed metadata", map[string]interface{}{"error": err.Error()})
		s.rejectEvent(ctx, uow, envelope.Id, correlationId, err)
		return nil, err
	}

	// 5. Provisioning, one atomic transaction.
	result, err := s.provisioning.Provision(ctx, envelope.Id, meta, envelope.Data.Object.Amount, envelope.Data.Object.Currency)
	if err != nil {
		log(s.logger.Error, "provisioning failed", map[string]interface{}{"error": err.Error()})
		// FAILED makes the event reclaimable on redelivery.
		if markErr := uow.EventLedgerRepository().MarkFailed(ctx, envelope.Id); markErr != nil {
			log(s.logger.Error, "failed to mark ledger entry failed", map[string]interface{}{"error": markErr.Error()})
		}
		return nil, err
	}

	// 6. Terminal ledger state before anyone is notified.
	if err := uow.EventLedgerRepository().MarkDone(ctx, envelope.Id); err != nil {
		log(s.logger.Error, "provisioned but could not mark ledger entry done", map[string]interface{}{"error": err.Error()})
		return nil, apperr.New(apperr.KindTransient, envelope.Id, err)
	}

	log(s.logger.Info, "event provisioned", map[string]interface{}{
		"user_id":      result.UserId,
		"member_id":    result.MemberId,
		"tier":         string(result.Tier),
		"user_created": result.UserCreated,
	})

	// 7. Post-commit notification hand-off. Fire and forget: a publish
	// failure is logged and never alters the outcome.
	s.publishProvisioned(ctx, correlationId, &envelope, meta, result)

	return &dto.WebhookAck{Received: true}, nil
}

func (s *webhookService) publishProvisioned(ctx context.Context, correlationId string, envelope *dto.WebhookEnvelope, meta *dto.PurchaseMetadata, result *ProvisioningResult) {
	evt := events.ProvisioningCompleted{
		EventId:       envelope.Id,
		CorrelationId: correlationId,
		UserEmail:     result.UserEmail,
		UserName:      result.UserName,
		Tier:          string(result.Tier),
		Amount:        envelope.Data.Object.Amount,
		Currency:      envelope.Data.Object.Currency,
		NewUser:       result.UserCreated,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Error("WebhookReceiver", "failed to publish provisioning event", map[string]interface{}{
			"event_id":       envelope.Id,
			"correlation_id": correlationId,
			"error":          err.Error(),
		})
	}
}

// rejectEvent records the terminal decision for a permanently malformed
// event: a FAILED ledger entry plus an EVENT_REJECTED audit row. There is no
// provisioning transaction to join, so both writes are best-effort.
func (s *webhookService) rejectEvent(ctx context.Context, uow unitofwork.UnitOfWork, eventId, correlationId string, cause error) {
	if err := uow.EventLedgerRepository().MarkFailed(ctx, eventId); err != nil {
		s.logger.Error("WebhookReceiver", "failed to mark rejected event", map[string]interface{}{
			"event_id": eventId, "correlation_id": correlationId, "error": err.Error(),
		})
	}
	entry := auditEntry(entity.AuditEventRejected, "webhook_event", eventId, nil, map[string]interface{}{
		"reason":         cause.Error(),
		"correlation_id": correlationId,
	})
	if err := uow.AuditLogRepository().Append(ctx, entry); err != nil {
		s.logger.Error("WebhookReceiver", "failed to append rejection audit entry", map[string]interface{}{
			"event_id": eventId, "correlation_id": correlationId, "error": err.Error(),
		})
	}
}

func (s *webhookService) GetEventStatus(ctx context.Context, eventId string) (*dto.EventStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.EventLedgerRepository().FindOne(ctx, eventId)
	if err != nil {
		return nil, apperr.New(apperr.KindTransient, eventId, err)
	}
	if entry == nil {
		return nil, nil
	}

	res := &dto.EventStatusResponse{
		EventId:    entry.Id,
		EventType:  entry.EventType,
		Status:     string(entry.Status),
		ReceivedAt: entry.ReceivedAt.UTC().Format(time.RFC3339),
	}
	if entry.ProcessedAt != nil {
		processed := entry.ProcessedAt.UTC().Format(time.RFC3339)
		res.ProcessedAt = &processed
	}
	return res, nil
}
