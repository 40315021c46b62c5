package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	log "github.com/sirupsen/logrus"
)

const (
	// Topic carries every committed lottery event
	Topic = "lottery.events"

	subscriberBuffer = 256
)

// Bus fans lottery events out to in-process subscribers. Delivery is best
// effort: a subscriber that falls behind loses events and has to catch up
// from the event log using the sequence numbers.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *log.Entry
}

func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            subscriberBuffer,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewStdLogger(false, false),
	)
	return &Bus{
		pubsub: pubsub,
		logger: log.WithField("component", "eventbus"),
	}
}

// Publish implements services.EventPublisher
func (b *Bus) Publish(event *models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", string(event.Type))
	return b.pubsub.Publish(Topic, msg)
}

// Subscribe streams events published after the call until ctx is done
func (b *Bus) Subscribe(ctx context.Context) (<-chan *models.Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Topic, err)
	}

	events := make(chan *models.Event, subscriberBuffer)
	go func() {
		defer close(events)
		for msg := range messages {
			msg.Ack()

			var event models.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.WithError(err).WithField("message", msg.UUID).Warn("dropping undecodable event")
				continue
			}

			select {
			case events <- &event:
			default:
				b.logger.WithField("seq", event.Seq).Warn("subscriber is behind, dropping event")
			}
		}
	}()
	return events, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
