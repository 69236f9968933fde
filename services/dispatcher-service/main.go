package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"ghostnet-reporting-system/pkg/queue"
)

// ReportEvent mirrors the event published by the report service.
type ReportEvent struct {
	ReportID    string `json:"report_id"`
	FoundNet    string `json:"found_net"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Anonymous   bool   `json:"anonymous"`
	Reporter    string `json:"reporter_name"`
	CreatedAt   string `json:"created_at"`
}

func main() {
	amqpURI := os.Getenv("RABBITMQ_URL")
	if amqpURI == "" {
		amqpURI = fmt.Sprintf("amqp://%s:%s@%s:%s/",
			envOr("RABBITMQ_USER", "guest"),
			envOr("RABBITMQ_PASS", "guest"),
			envOr("RABBITMQ_HOST", "localhost"),
			envOr("RABBITMQ_PORT", "5672"),
		)
	}

	conn, ch, err := queue.ConnectRabbitMQ(amqpURI)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()

	log.Println("[OK] Dispatcher Service connected to RabbitMQ")

	queueName := "report_queue"
	msgs, err := queue.ConsumeMessages(ch, queueName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to consume queue: %v", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event ReportEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Printf("[WARN] Error parsing event: %v", err)
				continue
			}

			// The builder already stores sentinels for anonymous reports;
			// masking again here keeps the routing log clean even if an
			// older producer sent a raw name.
			if event.Anonymous {
				event.Reporter = "ANÓNIMO"
			}

			team := routeByZone(event.Location)
			log.Printf("[INFO] Report %s (%s) forwarded to: %s", event.ReportID, event.Location, team)
			log.Printf("[INFO] Detail: %s (Reportado por: %s)", event.Description, event.Reporter)
		}
	}()

	log.Printf("[INFO] Waiting for reports in queue '%s'. Press CTRL+C to exit.", queueName)
	<-forever
}

// routeByZone assigns a recovered-net report to the cleanup team
// covering its stretch of the Levante coast.
func routeByZone(location string) string {
	loc := strings.ToLower(location)
	switch {
	case strings.Contains(loc, "tabarca"):
		return "EQUIPO BUCEO TABARCA (RESERVA MARINA)"
	case strings.Contains(loc, "cabo de palos"), strings.Contains(loc, "la manga"):
		return "EQUIPO BUCEO CABO DE PALOS"
	case strings.Contains(loc, "alicante"), strings.Contains(loc, "santa pola"):
		return "EQUIPO BUCEO ALICANTE"
	case strings.Contains(loc, "calpe"), strings.Contains(loc, "denia"), strings.Contains(loc, "dénia"):
		return "EQUIPO BUCEO MARINA ALTA"
	default:
		return "COORDINACIÓN GENERAL"
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
