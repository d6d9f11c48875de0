// Package notify fans out roster change notifications over redis pub/sub so
// connected dashboards can refresh without polling.
package notify

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const rosterChannel = "roster:refresh"

// Broker publishes and subscribes to roster change events. A nil redis
// client degrades to a no-op publisher so the rest of the server does not
// need to care whether redis is configured.
type Broker struct {
	redis *redis.Client
}

func NewBroker(client *redis.Client) *Broker {
	return &Broker{redis: client}
}

// RosterChanged announces that a team's roster or attendance changed.
// Delivery is best effort; a publish failure is logged, never surfaced.
func (b *Broker) RosterChanged(ctx context.Context, teamName string) {
	if b == nil || b.redis == nil {
		return
	}
	if err := b.redis.Publish(ctx, rosterChannel, teamName).Err(); err != nil {
		log.Printf("roster notify publish failed: %v", err)
	}
}

// Subscribe returns a channel of team names whose rosters changed. The
// returned cancel func closes the subscription; the channel closes when the
// context ends or the subscription is cancelled. Returns ok=false when redis
// is not configured.
func (b *Broker) Subscribe(ctx context.Context) (<-chan string, func(), bool) {
	if b == nil || b.redis == nil {
		return nil, nil, false
	}
	sub := b.redis.Subscribe(ctx, rosterChannel)
	out := make(chan string, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					// Slow consumer; drop rather than block the reader.
				}
			}
		}
	}()
	cancel := func() {
		if err := sub.Close(); err != nil {
			log.Printf("roster notify unsubscribe failed: %v", err)
		}
	}
	return out, cancel, true
}
