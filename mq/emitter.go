package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const channel = "order-events"

// Event is one order lifecycle notification published to Redis.
type Event struct {
	Name    string    `json:"name"`
	OrderID string    `json:"orderId"`
	UserID  string    `json:"userId"`
	At      time.Time `json:"at"`
}

// Publisher is what components hold; the redis-backed Emitter implements it.
type Publisher interface {
	Emit(ctx context.Context, name, orderID, userID string)
}

type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

// Emit publishes the event. Publishing is best-effort: a failure is logged
// and never blocks the request that produced the event.
func (e *Emitter) Emit(ctx context.Context, name, orderID, userID string) {
	data, err := json.Marshal(Event{Name: name, OrderID: orderID, UserID: userID, At: time.Now()})
	if err != nil {
		log.Printf("mq: marshal event %s: %v", name, err)
		return
	}
	if err := e.conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("mq: publish event %s: %v", name, err)
	}
}

// StartWorker subscribes to the order-events channel and logs everything it
// sees. It returns when ctx is cancelled.
func StartWorker(ctx context.Context, conn *redis.Client) {
	sub := conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("mq: worker listening for order events")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("mq: bad event payload: %v", err)
				continue
			}
			log.Printf("mq: %s order=%s user=%s", ev.Name, ev.OrderID, ev.UserID)
		}
	}
}

// Discard is a no-op Publisher for tests and for running without redis.
type Discard struct{}

func (Discard) Emit(context.Context, string, string, string) {}
