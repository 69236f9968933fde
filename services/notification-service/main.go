package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"ghostnet-reporting-system/pkg/middleware"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationEvent is pushed over SSE to connected staff when a new
// report arrives.
type NotificationEvent struct {
	ReportID  string `json:"report_id"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Zone      string `json:"zone"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// reportEvent mirrors the event published by the report service.
type reportEvent struct {
	ReportID  string `json:"report_id"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

type Client struct {
	UserID string
	Role   string
	Zone   string
	Send   chan NotificationEvent
}

var (
	clients    = make(map[*Client]bool)
	broadcast  = make(chan NotificationEvent, 100)
	register   = make(chan *Client)
	unregister = make(chan *Client)
	mu         sync.RWMutex
)

// zoneFromLocation maps the free-text location to the coastal zone the
// staff subscriptions are keyed on.
func zoneFromLocation(location string) string {
	loc := strings.ToLower(location)
	switch {
	case strings.Contains(loc, "tabarca"):
		return "tabarca"
	case strings.Contains(loc, "cabo de palos"), strings.Contains(loc, "la manga"):
		return "cabo_de_palos"
	case strings.Contains(loc, "alicante"), strings.Contains(loc, "santa pola"):
		return "alicante"
	case strings.Contains(loc, "calpe"), strings.Contains(loc, "denia"), strings.Contains(loc, "dénia"):
		return "marina_alta"
	default:
		return "general"
	}
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

	log.Printf("[INFO] Connecting to RabbitMQ at: %s", amqpURI)

	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("[ERROR] Failed to open channel: %v", err)
	}
	defer ch.Close()

	log.Println("[OK] Connected to RabbitMQ")

	if err := ch.ExchangeDeclare("reports", "direct", true, false, false, false, nil); err != nil {
		log.Fatalf("[ERROR] Failed to declare exchange: %v", err)
	}

	q, err := ch.QueueDeclare("notifications", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("[ERROR] Failed to declare queue: %v", err)
	}

	if err := ch.QueueBind(q.Name, "report.created", "reports", false, nil); err != nil {
		log.Fatalf("[ERROR] Failed to bind queue: %v", err)
	}

	log.Println("[INFO] Listening to notifications queue")

	middleware.RegisterMetrics()

	go consumeMessages(ch, q.Name)
	go handleClients()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/health", healthHandler)
	apiMux.Handle("/metrics", middleware.GetMetricsHandler())

	apiHandler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(apiMux),
		),
	)

	rootMux := http.NewServeMux()
	rootMux.Handle("/notifications/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/", apiHandler)

	port := envOr("NOTIFICATION_PORT", "8084")
	log.Printf("[INFO] Notification Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, rootMux); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func consumeMessages(ch *amqp.Channel, queueName string) {
	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("[ERROR] Failed to register consumer: %v", err)
	}

	for d := range msgs {
		var event reportEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("[WARN] Failed to parse report event: %v", err)
			continue
		}

		log.Printf("[OK] New report received - ID: %s", event.ReportID)
		broadcast <- NotificationEvent{
			ReportID:  event.ReportID,
			Type:      "new_report",
			Location:  event.Location,
			Zone:      zoneFromLocation(event.Location),
			Message:   "Nueva red fantasma reportada en " + event.Location,
			CreatedAt: event.CreatedAt,
		}
	}
}

func handleClients() {
	for {
		select {
		case client := <-register:
			mu.Lock()
			clients[client] = true
			mu.Unlock()
			log.Printf("[INFO] Client registered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case client := <-unregister:
			mu.Lock()
			if _, ok := clients[client]; ok {
				delete(clients, client)
				close(client.Send)
			}
			mu.Unlock()
			log.Printf("[INFO] Client unregistered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case event := <-broadcast:
			mu.RLock()
			for client := range clients {
				// Admins see every zone; other staff only their own.
				if client.Role != "admin" && client.Zone != "general" && client.Zone != event.Zone {
					continue
				}

				select {
				case client.Send <- event:
				default:
					// Client's send channel is full, skip
				}
			}
			mu.RUnlock()
		}
	}
}

// subscribeHandler streams report notifications to authenticated staff
// over SSE.
func subscribeHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := middleware.ParseToken(tokenString)
	if err != nil {
		log.Printf("[WARN] Invalid token attempt: %v", err)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := &Client{
		UserID: claims.UserID,
		Role:   claims.Role,
		Zone:   claims.Zone,
		Send:   make(chan NotificationEvent, 10),
	}

	register <- client
	defer func() {
		unregister <- client
	}()

	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","message":"Connection established"}`)
	flusher.Flush()

	for event := range client.Send {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", string(data))
		flusher.Flush()
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	mu.RLock()
	connectedClients := len(clients)
	mu.RUnlock()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":            "UP",
		"service":           "notification-service",
		"connected_clients": connectedClients,
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
