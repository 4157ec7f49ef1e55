package shipment_status_changed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"freightpool/internal/entities"
	shipmentservice "freightpool/internal/service/shipment"
	"freightpool/pkg/logger"
)

// statusChangedEvent описывает сообщение топика shipment.status.changed от
// внешних трекинговых провайдеров.
type statusChangedEvent struct {
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
}

type Handler struct {
	trackingService          Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, trackingService Service, timeout time.Duration) *Handler {
	handlerLog := log.With()

	return &Handler{
		trackingService:          trackingService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				// Messages() закрыт — выходим
				h.log.Info("shipment.status.changed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// Сессия закрыта (rebalance или остановка consumer group) — выходим
			h.log.Info("shipment.status.changed: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение из Kafka.
// Возвращает true, если нужно прервать ConsumeClaim (при отмене контекста).
// Возвращает false для продолжения обработки следующих сообщений.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event statusChangedEvent
	err := json.Unmarshal(message.Value, &event)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("shipment.status.changed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("shipment", event.ShipmentID),
		logger.NewField("status", event.Status),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Info("shipment.status.changed processing")

	status := entities.ShipmentStatusType(event.Status)
	shipmentModify := entities.ShipmentModify{
		ID:     &event.ShipmentID,
		Status: &status,
	}

	shipmentEntity, err := h.trackingService.ProcessShipmentStatusChange(ctx, shipmentModify)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("shipment.status.changed handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, shipmentservice.ErrInvalidStatus):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("shipment.status.changed handler unknown status for shipment")

		case errors.Is(err, shipmentservice.ErrShipmentNotFound):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("shipment.status.changed handler shipment not found")

		case errors.Is(err, shipmentservice.ErrStatusTransition):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("shipment.status.changed handler status transition not allowed")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Warn("shipment.status.changed handler failed to process shipment")
		}
		sess.MarkMessage(message, "")
		return false
	}

	// новая дочка с актуальными полями
	msgLog = h.log.With(
		logger.NewField("shipment", shipmentEntity.ID),
		logger.NewField("event_status", event.Status),
		logger.NewField("current_status", shipmentEntity.Status.String()),
		logger.NewField("offset", message.Offset),
	)
	msgLog.Info("shipment.status.changed: processed")

	sess.MarkMessage(message, "")
	return false
}
