package channel

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"timeclock-control-plane/internal/orgsettings/domain"
)

// SettingsReader returns an org's stored settings; nil when none exist.
type SettingsReader interface {
	Get(ctx context.Context, orgID string) (*domain.Settings, error)
}

// KafkaResolver resolves org channels to Kafka topics. Each configured channel
// id becomes one topic under a common prefix, so the payment gateway and
// notification consumers only need to agree on topic naming.
type KafkaResolver struct {
	brokers     []string
	topicPrefix string
	settings    SettingsReader
}

// NewKafkaResolver returns a Resolver producing Kafka-backed channels.
// topicPrefix is prepended to every channel id (e.g. "timeclock.").
func NewKafkaResolver(brokers []string, topicPrefix string, settings SettingsReader) *KafkaResolver {
	return &KafkaResolver{brokers: brokers, topicPrefix: topicPrefix, settings: settings}
}

// Resolve returns the channel for the org and role, or ErrNotConfigured when
// the org has no channel id stored for that role.
func (r *KafkaResolver) Resolve(ctx context.Context, orgID string, role Role) (Channel, error) {
	s, err := r.settings.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var id string
	if s != nil {
		switch role {
		case RolePanel:
			id = s.PanelChannel
		case RoleNotify:
			id = s.NotifyChannel
		case RolePayment:
			id = s.PaymentChannel
		}
	}
	if id == "" {
		return nil, ErrNotConfigured
	}
	return &kafkaChannel{brokers: r.brokers, topic: r.topicPrefix + id}, nil
}

type kafkaChannel struct {
	brokers []string
	topic   string
}

// Send writes one message to the channel topic. A short timeout keeps a slow
// broker from blocking the caller indefinitely.
func (c *kafkaChannel) Send(ctx context.Context, text string) error {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(c.brokers...),
		Topic:        c.topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	defer writer.Close()

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return writer.WriteMessages(writeCtx, kafka.Message{Value: []byte(text)})
}

// Await consumes messages published to the topic after the call starts and
// returns the first one matching the predicate. The reader lives only for
// this call; correlation across calls is the caller's concern.
func (c *kafkaChannel) Await(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		Topic:       c.topic,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     250 * time.Millisecond,
	})
	defer reader.Close()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		msg, err := reader.ReadMessage(waitCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", ErrAwaitTimeout
			}
			return "", err
		}
		if body := string(msg.Value); match(body) {
			return body, nil
		}
	}
}
