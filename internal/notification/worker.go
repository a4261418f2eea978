package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/presence"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers that notify watchers when a faculty
// member becomes available.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*16), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case facultyID := <-wp.jobs:
			log.Printf("Worker %d processing faculty %s", id, facultyID)
			wp.sendNotificationsForFaculty(ctx, facultyID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification job without blocking. It reports false when
// the queue is full and the job was dropped.
func (wp *WorkerPool) Dispatch(facultyID string) bool {
	select {
	case wp.jobs <- facultyID:
		return true
	default:
		log.Printf("Notification queue full, dropping job for faculty %s", facultyID)
		return false
	}
}

// ObserveChange dispatches a job when a member enters the available status.
// It has the signature of a presence listener.
func (wp *WorkerPool) ObserveChange(prev, next model.PresenceRecord) {
	if next.Status == model.StatusAvailable && prev.Status != model.StatusAvailable {
		wp.Dispatch(next.FacultyID)
	}
}

// sendNotificationsForFaculty fetches watchers and notifies them about a faculty member.
func (wp *WorkerPool) sendNotificationsForFaculty(ctx context.Context, facultyID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_faculty_mapping sfm ON sfm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sfm.faculty_member_id = ?", facultyID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for faculty %s: %v", facultyID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for faculty %s", len(subscriptions), facultyID)

	var member model.FacultyMember
	label := fmt.Sprintf("Faculty member %s", facultyID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&member, "id = ?", facultyID).Error; err != nil {
		log.Printf("Error fetching faculty %s: %v", facultyID, err)
	} else if member.Name != "" {
		label = member.Name
	}

	message := fmt.Sprintf("%s is now %s", label, lowerFirst(presence.DisplayStatusText(model.StatusAvailable)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
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

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Select("Faculty").Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
