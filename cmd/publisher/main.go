package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/example/gh-bundle-service/internal/usecase"
)

// Публикует событие оплаченного заказа из stdin в STAN — ручной ввод
// для операторов и нагрузочных прогонов.
func main() {
	clusterID := getenv("STAN_CLUSTER_ID", "ghb-cluster")
	clientID := getenv("STAN_PUB_ID", "ghb-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4223")
	subject := getenv("STAN_SUBJECT", "orders.paid")

	var evt usecase.PaidOrderEvent
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&evt); err != nil {
		log.Fatalf("read json from stdin: %v", err)
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	if res := domain.Validate(domain.NormalizePhone(evt.Phone), evt.Bundle()); !res.IsValid {
		log.Fatalf("refusing to publish invalid order %s: %v", evt.ID, res.Errors)
	}

	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
	if err != nil {
		log.Fatalf("stan connect: %v", err)
	}
	defer sc.Close()

	b, err := json.Marshal(evt)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := sc.Publish(subject, b); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published paid order %s to %s", evt.ID, subject)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
