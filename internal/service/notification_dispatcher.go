package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/logger"
	"member-portal-be/internal/pkg/mailer"
	"member-portal-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NotificationDispatcher consumes committed provisioning events and sends
// confirmation emails. It is the only asynchronous component: it never
// blocks the webhook response, and delivery failures never touch the
// ledger's terminal state.
type INotificationDispatcher interface {
	Start(ctx context.Context) error
}

type notificationDispatcher struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	mailer      mailer.IEmailService
	settings    ISettingsService
	logger      logger.ILogger
	sendTimeout time.Duration
	adminEmail  string
}

func NewNotificationDispatcher(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	settings ISettingsService,
	log logger.ILogger,
	sendTimeout time.Duration,
	adminEmail string,
) INotificationDispatcher {
	return &notificationDispatcher{
		pubSub:      pubSub,
		topicName:   topicName,
		mailer:      emailService,
		settings:    settings,
		logger:      log,
		sendTimeout: sendTimeout,
		adminEmail:  adminEmail,
	}
}

func (d *notificationDispatcher) Start(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (d *notificationDispatcher) processMessage(ctx context.Context, msg *message.Message) {
	// Membership state is already durable by the time a message arrives, so
	// every outcome here acks: a dropped email is logged, never replayed
	// into provisioning.
	defer msg.Ack()

	var evt events.ProvisioningCompleted
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		d.logger.Error("NotificationDispatcher", "unreadable provisioning event payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"event_id":       evt.EventId,
		"correlation_id": evt.CorrelationId,
		"to":             evt.UserEmail,
	}

	if evt.NewUser {
		d.send(evt.UserEmail, mailer.TemplateMemberWelcome, map[string]interface{}{
			"name": evt.UserName,
			"tier": evt.Tier,
		}, details)
	}

	d.send(evt.UserEmail, mailer.TemplatePaymentReceipt, map[string]interface{}{
		"amount":   fmt.Sprintf("%.2f", float64(evt.Amount)/100),
		"currency": evt.Currency,
		"tier":     evt.Tier,
		"event_id": evt.EventId,
	}, details)

	if d.adminEmail != "" && d.settings.NotifyAdminOnMembership(ctx) {
		d.send(d.adminEmail, mailer.TemplateMembershipAdminAlert, map[string]interface{}{
			"name":     evt.UserName,
			"email":    evt.UserEmail,
			"tier":     evt.Tier,
			"event_id": evt.EventId,
		}, details)
	}
}

// send delivers one email under a hard timeout. A hang counts as a delivery
// failure, not a processing failure.
func (d *notificationDispatcher) send(to, templateKey string, data map[string]interface{}, details map[string]interface{}) {
	type outcome struct {
		result *mailer.SendResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := d.mailer.Send(to, templateKey, data)
		done <- outcome{result: res, err: err}
	}()

	logDetails := map[string]interface{}{"template": templateKey, "to": to}
	for k, v := range details {
		logDetails[k] = v
	}

	select {
	case o := <-done:
		if o.err != nil {
			logDetails["error"] = apperr.New(apperr.KindNotification, fmt.Sprint(details["event_id"]), o.err).Error()
			d.logger.Error("NotificationDispatcher", "email delivery failed", logDetails)
			return
		}
		logDetails["message_id"] = o.result.MessageId
		d.logger.Info("NotificationDispatcher", "email sent", logDetails)
	case <-time.After(d.sendTimeout):
		logDetails["timeout"] = d.sendTimeout.String()
		d.logger.Error("NotificationDispatcher", "email delivery timed out", logDetails)
	}
}
