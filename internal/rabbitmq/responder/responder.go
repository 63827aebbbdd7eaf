package responder

import (
	"encoding/json"
	"sync"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Responder interface {
	PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error)
	PublishSuccessHandshakeRespond(
		messageType, messageID, responseQueue string,
		langs []languages.LanguageInfo,
	) error
	PublishSuccessStatusRespond(
		messageType, messageID, responseQueue string,
		status messages.StatusPayload,
	) error
	PublishPayloadTaskRespond(
		messageType, messageID, responseQueue string,
		verdict solution.Verdict,
	) error
	// Publish sends msg to queueName and waits until the broker call returns.
	Publish(queueName string, msg amqp.Publishing) error
	Close() error
}

type publishRequest struct {
	queueName string
	msg       amqp.Publishing
	result    chan error
}

// responder serializes every publish through one goroutine; amqp channels are not safe for
// concurrent use.
type responder struct {
	logger      *zap.SugaredLogger
	channel     channel.Channel
	publishChan chan publishRequest
	done        chan struct{}
	closeOnce   sync.Once
	mu          sync.RWMutex
	closed      bool
}

func NewResponder(ch channel.Channel, publishChanSize int) Responder {
	r := &responder{
		logger:      logger.NewNamedLogger("responder"),
		channel:     ch,
		publishChan: make(chan publishRequest, publishChanSize),
		done:        make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *responder) run() {
	for {
		select {
		case req := <-r.publishChan:
			req.result <- r.channel.Publish("", req.queueName, false, false, req.msg)
		case <-r.done:
			return
		}
	}
}

func (r *responder) Publish(queueName string, msg amqp.Publishing) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return errors.ErrResponderClosed
	}
	req := publishRequest{queueName: queueName, msg: msg, result: make(chan error, 1)}
	r.publishChan <- req
	r.mu.RUnlock()

	select {
	case err := <-req.result:
		return err
	case <-r.done:
		return errors.ErrResponderClosed
	}
}

func (r *responder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.done)
	})
	return nil
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error) {
	payload, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	if pubErr := r.publishResponse(messageType, messageID, responseQueue, false, payload); pubErr != nil {
		r.logger.Errorf("Failed to publish error message: %s [MsgID: %s]", pubErr, messageID)
		return
	}

	r.logger.Infof("Published error message to %s [MsgID: %s]", responseQueue, messageID)
}

func (r *responder) PublishPayloadTaskRespond(
	messageType, messageID, responseQueue string,
	verdict solution.Verdict,
) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return err
	}

	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessHandshakeRespond(
	messageType, messageID, responseQueue string,
	langs []languages.LanguageInfo,
) error {
	payload, err := json.Marshal(messages.HandshakePayload{Languages: langs})
	if err != nil {
		return err
	}

	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessStatusRespond(
	messageType, messageID, responseQueue string,
	status messages.StatusPayload,
) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}

	return r.publishResponse(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) publishResponse(messageType, messageID, responseQueue string, ok bool, payload []byte) error {
	responseJSON, err := json.Marshal(messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	r.logger.Debugf("Publishing %s response to %s [MsgID: %s]", messageType, responseQueue, messageID)
	return r.Publish(responseQueue, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
}
