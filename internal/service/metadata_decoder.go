package service

import (
	"strings"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/logger"
)

// MetadataDecoder turns the event's flat string-keyed metadata map into a
// normalized PurchaseMetadata. Cart and customerInfo are load-bearing:
// provisioning is impossible without them, so they fail hard. The remaining
// keys degrade to defaults with a logged warning.
type MetadataDecoder struct {
	logger logger.ILogger
}

func NewMetadataDecoder(log logger.ILogger) *MetadataDecoder {
	return &MetadataDecoder{logger: log}
}

func (d *MetadataDecoder) Decode(eventId string, metadata map[string]string) (*dto.PurchaseMetadata, error) {
	if metadata == nil {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "event carries no metadata")
	}

	meta := &dto.PurchaseMetadata{}

	// Required: cart
	rawCart, ok := metadata["cart"]
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "metadata missing cart")
	}
	if err := dto.RawJSON(rawCart, &meta.Cart); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "malformed cart payload: %v", err)
	}
	if len(meta.Cart) == 0 {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "cart is empty")
	}

	// Required: customerInfo
	rawCustomer, ok := metadata["customerInfo"]
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "metadata missing customerInfo")
	}
	if err := dto.RawJSON(rawCustomer, &meta.CustomerInfo); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "malformed customerInfo payload: %v", err)
	}
	if strings.TrimSpace(meta.CustomerInfo.Email) == "" {
		return nil, apperr.Newf(apperr.KindValidation, eventId, "customerInfo.email is empty")
	}

	// Degradable keys below. A bad value is logged and replaced with the
	// zero value; it never aborts provisioning.
	if raw, ok := metadata["businessInfo"]; ok {
		if err := dto.RawJSON(raw, &meta.BusinessInfo); err != nil {
			meta.BusinessInfo = dto.BusinessInfo{}
			d.warn(eventId, "businessInfo", err)
		}
	}
	if raw, ok := metadata["contactInfo"]; ok {
		if err := dto.RawJSON(raw, &meta.ContactInfo); err != nil {
			meta.ContactInfo = dto.ContactInfo{}
			d.warn(eventId, "contactInfo", err)
		}
	}
	if raw, ok := metadata["isNewUser"]; ok {
		if err := dto.RawJSON(raw, &meta.IsNewUser); err != nil {
			meta.IsNewUser = false
			d.warn(eventId, "isNewUser", err)
		}
	}

	// userId is a plain string hint, not serialized JSON.
	meta.UserIdHint = metadata["userId"]

	return meta, nil
}

func (d *MetadataDecoder) warn(eventId, key string, err error) {
	d.logger.Warn("MetadataDecoder", "degraded optional metadata key to default", map[string]interface{}{
		"event_id": eventId,
		"key":      key,
		"error":    err.Error(),
	})
}
