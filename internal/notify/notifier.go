package notify

import (
	"context"

	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/mykafka"
)

// Notifier pushes human-readable messages to the external notification
// channel. Delivery is best-effort: errors are logged, never returned.
type Notifier struct {
	Producer *mykafka.Producer
	Topic    string
}

func (n *Notifier) Send(ctx context.Context, text string) {
	if n == nil || n.Producer == nil {
		return
	}

	event := map[string]interface{}{
		"type": "notification",
		"text": text,
	}
	if err := n.Producer.PublishEvent(ctx, n.Topic, "notification", event); err != nil {
		logging.FromContext(ctx).Error("notification publish error", "topic", n.Topic, "error", err)
	}
}
