package natsstan

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
	stan "github.com/nats-io/stan.go"
)

type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string

	// HandlerTimeout должен покрывать весь цикл доставки с повторами.
	HandlerTimeout time.Duration
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("ghb-svc-%d", time.Now().UnixNano())
	}
	timeout := s.HandlerTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	// очередь даёт одному воркеру ровно одно событие заказа за раз:
	// попытки по одному id никогда не идут параллельно
	_, err = sc.QueueSubscribe(s.Subject, "fulfillment-workers", func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := handler(hCtx, m.Data); err != nil {
			// не подтверждаем, даём событию переотправиться
			log.Printf("paid-order handler error: %v", err)
			return
		}
		if err := m.Ack(); err != nil {
			log.Printf("ack failed: %v", err)
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(2*timeout), stan.DeliverAllAvailable())
	return err
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
