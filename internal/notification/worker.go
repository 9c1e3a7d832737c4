package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"fleet-tracker-backend/internal/model"
)

// DueAlert is one maintenance due event to be pushed to subscribers.
type DueAlert struct {
	DefinitionID int64  `json:"definition_id"`
	VehicleID    int64  `json:"vehicle_id"`
	Plate        string `json:"plate"`
	Kind         string `json:"kind"`
}

// Sender defines the interface for delivering a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send delivers a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans due-alerts out to all push subscribers. Delivery is
// best effort: the due event is already recorded on the definition's
// notification flag before an alert reaches this pool.
type WorkerPool struct {
	size    int
	jobs    chan DueAlert
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// alertQueueDepth buffers bursts of due-alerts so the evaluating
// handler never waits on push delivery.
const alertQueueDepth = 64

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan DueAlert, alertQueueDepth),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			log.Printf("Worker %d delivering due-alert for vehicle %s (%s)", id, alert.Plate, alert.Kind)
			wp.deliver(ctx, alert)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for delivery without blocking the caller.
// Delivery is best effort: when the queue is full the alert is dropped,
// the due event itself is already recorded on the definition.
func (wp *WorkerPool) Dispatch(alert DueAlert) {
	select {
	case wp.jobs <- alert:
	default:
		log.Printf("Alert queue full, dropping due-alert for definition %d (%s)", alert.DefinitionID, alert.Plate)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan DueAlert {
	return wp.jobs
}

// deliver pushes one alert to every registered subscription.
func (wp *WorkerPool) deliver(ctx context.Context, alert DueAlert) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching push subscriptions: %v", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"title": fmt.Sprintf("Maintenance due: %s", alert.Plate),
		"body":  fmt.Sprintf("%s is due for %s.", alert.Plate, alert.Kind),
	})
	if err != nil {
		log.Printf("Error encoding alert payload: %v", err)
		return
	}

	log.Printf("Sending %d notifications for definition %d", len(subscriptions), alert.DefinitionID)
	for _, sub := range subscriptions {
		wp.push(ctx, sub, payload)
	}
}

// push sends a single web push notification and prunes subscriptions
// the push service reports as gone.
func (wp *WorkerPool) push(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
