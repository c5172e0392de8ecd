package mapper

import (
	"member-portal-be/internal/entity"
	"member-portal-be/internal/model"
)

type EventLedgerMapper struct{}

func NewEventLedgerMapper() *EventLedgerMapper {
	return &EventLedgerMapper{}
}

func (m *EventLedgerMapper) ToEntity(w *model.WebhookEvent) *entity.EventLedgerEntry {
	if w == nil {
		return nil
	}
	return &entity.EventLedgerEntry{
		Id:          w.Id,
		EventType:   w.EventType,
		Status:      entity.EventStatus(w.Status),
		ReceivedAt:  w.ReceivedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

func (m *EventLedgerMapper) ToModel(e *entity.EventLedgerEntry) *model.WebhookEvent {
	if e == nil {
		return nil
	}
	return &model.WebhookEvent{
		Id:          e.Id,
		EventType:   e.EventType,
		Status:      string(e.Status),
		ReceivedAt:  e.ReceivedAt,
		ProcessedAt: e.ProcessedAt,
	}
}
