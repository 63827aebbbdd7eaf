package consumer

import (
	"encoding/json"
	e "errors"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/internal/scheduler"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Consumer interface {
	Listen()
}

type consumer struct {
	channel           channel.Channel
	workerQueueName   string
	responseQueueName string
	scheduler         scheduler.Scheduler
	responder         responder.Responder
	logger            *zap.SugaredLogger
}

func NewConsumer(
	mainChannel channel.Channel,
	workerQueueName string,
	responseQueueName string,
	scheduler scheduler.Scheduler,
	responder responder.Responder,
) Consumer {
	logger := logger.NewNamedLogger("consumer")

	return &consumer{
		channel:           mainChannel,
		workerQueueName:   workerQueueName,
		responseQueueName: responseQueueName,
		scheduler:         scheduler,
		responder:         responder,
		logger:            logger,
	}
}

// Listen blocks until the delivery channel is closed.
func (c *consumer) Listen() {
	c.logger.Infof("Declaring queue %s", c.workerQueueName)

	args := make(amqp.Table)
	args["x-max-priority"] = constants.RabbitMQMaxPriority
	_, err := c.channel.QueueDeclare(c.workerQueueName, true, false, false, false, args)
	if err != nil {
		c.logger.Panicf("Failed to declare queue %s: %s", c.workerQueueName, err)
	}

	msgs, err := c.channel.Consume(c.workerQueueName, "", true, false, false, false, nil)
	if err != nil {
		c.logger.Panicf("Failed to consume messages from queue %s: %s", c.workerQueueName, err)
	}

	c.logger.Infof("Listening for messages on queue %s", c.workerQueueName)
	for msg := range msgs {
		c.processMessage(msg)
	}
	c.logger.Infof("Delivery channel closed, stopped listening on %s", c.workerQueueName)
}

func (c *consumer) processMessage(msg amqp.Delivery) {
	responseQueue := msg.ReplyTo
	if responseQueue == "" {
		responseQueue = c.responseQueueName
	}

	var queueMessage messages.QueueMessage
	if err := json.Unmarshal(msg.Body, &queueMessage); err != nil {
		c.logger.Errorf("Failed to unmarshal message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		return
	}

	switch queueMessage.Type {
	case constants.QueueMessageTypeJudge:
		c.logger.Infof("Received judge message [MsgID: %s]", queueMessage.MessageID)
		c.handleJudgeMessage(queueMessage, responseQueue)
	case constants.QueueMessageTypeStatus:
		c.logger.Infof("Received status message [MsgID: %s]", queueMessage.MessageID)
		c.handleStatusMessage(queueMessage, responseQueue)
	case constants.QueueMessageTypeHandshake:
		c.logger.Infof("Received handshake message [MsgID: %s]", queueMessage.MessageID)
		c.handleHandshakeMessage(queueMessage, responseQueue)
	default:
		c.logger.Errorf("Unknown message type: %s [MsgID: %s]", queueMessage.Type, queueMessage.MessageID)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			responseQueue,
			errors.ErrUnknownMessageType,
		)
	}
}

func (c *consumer) requeueWithPriority(queueMessage messages.QueueMessage, replyTo string) error {
	body, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	return c.responder.Publish(c.workerQueueName, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: queueMessage.MessageID,
		ReplyTo:       replyTo,
		Body:          body,
		Priority:      uint8(constants.RabbitMQRequeuePriority),
	})
}

func (c *consumer) handleJudgeMessage(queueMessage messages.QueueMessage, responseQueue string) {
	var task messages.JudgeTask
	if err := json.Unmarshal(queueMessage.Payload, &task); err != nil {
		c.logger.Errorf("Failed to unmarshal judge task: %s [MsgID: %s]", err, queueMessage.MessageID)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		return
	}

	err := c.scheduler.ProcessTask(responseQueue, queueMessage.MessageID, &task)
	if err == nil {
		return
	}

	if e.Is(err, errors.ErrFailedToGetFreeWorker) {
		if requeueErr := c.requeueWithPriority(queueMessage, responseQueue); requeueErr != nil {
			c.logger.Errorf("Failed to requeue task: %s [MsgID: %s]", requeueErr, queueMessage.MessageID)
			c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		}
		return
	}

	c.logger.Errorf("Failed to process judge task: %s [MsgID: %s]", err, queueMessage.MessageID)
	c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
}

func (c *consumer) handleStatusMessage(queueMessage messages.QueueMessage, responseQueue string) {
	status := c.scheduler.GetWorkersStatus()

	err := c.responder.PublishSuccessStatusRespond(queueMessage.Type, queueMessage.MessageID, responseQueue, status)
	if err != nil {
		c.logger.Errorf("Failed to publish status message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
	}
}

func (c *consumer) handleHandshakeMessage(queueMessage messages.QueueMessage, responseQueue string) {
	langs := c.scheduler.GetSupportedLanguages()

	err := c.responder.PublishSuccessHandshakeRespond(queueMessage.Type, queueMessage.MessageID, responseQueue, langs)
	if err != nil {
		c.logger.Errorf("Failed to publish supported languages: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
	}
}
