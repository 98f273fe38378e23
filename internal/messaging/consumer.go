package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"improvemycity/internal/model"
	"improvemycity/internal/repository"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxRetryAttempts = 3
	initialDelay     = 1 * time.Second
	maxDelay         = 30 * time.Second
)

// Mailer delivers a formatted message to one recipient.
type Mailer interface {
	Send(to, subject, plainBody, htmlBody string) error
}

// NotificationConsumer turns status-update events into an email to the
// complaint owner plus an in-app notification row. The mutation that produced
// the event has long since committed; nothing here can affect it.
type NotificationConsumer struct {
	rmq              *RabbitMQ
	notificationRepo *repository.NotificationRepository
	mailer           Mailer
	done             chan struct{}
	wg               sync.WaitGroup
}

func NewNotificationConsumer(rmq *RabbitMQ, notificationRepo *repository.NotificationRepository, mailer Mailer) *NotificationConsumer {
	return &NotificationConsumer{
		rmq:              rmq,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		done:             make(chan struct{}),
	}
}

func (c *NotificationConsumer) Start() {
	c.wg.Add(1)
	go c.consumeLoop()
	log.Println("consumer: started")
}

func (c *NotificationConsumer) Stop() {
	close(c.done)
	c.wg.Wait()
	log.Println("consumer: stopped")
}

func (c *NotificationConsumer) consumeLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			log.Println("consumer: stopping")
			return
		default:
			msgs, err := c.rmq.Consume()
			if err != nil {
				log.Printf("consumer: %v, retrying in 5s", err)
				time.Sleep(5 * time.Second)
				continue
			}

			log.Println("consumer: listening for messages")
			c.processQueue(msgs)
		}
	}
}

func (c *NotificationConsumer) processQueue(msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-c.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("consumer: channel closed, reconnecting")
				return
			}
			c.processMessageWithRetry(msg)
		}
	}
}

func (c *NotificationConsumer) processMessageWithRetry(msg amqp.Delivery) {
	messageID := msg.MessageId
	if messageID == "" {
		messageID = fmt.Sprintf("%x", msg.Body[:min(32, len(msg.Body))])
	}

	processed, err := c.notificationRepo.IsMessageProcessed(messageID)
	if err != nil {
		log.Printf("consumer: idempotency check: %v", err)
	}
	if processed {
		log.Printf("consumer: %s already processed", messageID)
		msg.Ack(false)
		return
	}

	err = retry.Do(
		func() error {
			return c.handleStatusUpdate(msg)
		},
		retry.Attempts(maxRetryAttempts),
		retry.Delay(initialDelay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("consumer: retry %d: %v", n+1, err)
		}),
	)

	if err != nil {
		log.Printf("consumer: giving up on %s: %v", messageID, err)
		msg.Nack(false, false)
		return
	}

	if err := c.notificationRepo.MarkMessageProcessed(messageID); err != nil {
		log.Printf("consumer: mark processed: %v", err)
	}

	msg.Ack(false)
}

func (c *NotificationConsumer) handleStatusUpdate(msg amqp.Delivery) error {
	var event StatusUpdateMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("status_update: bad json: %v", err)
		return nil
	}

	ownerID, err := uuid.Parse(event.OwnerID)
	if err != nil {
		log.Printf("status_update: bad owner_id: %v", err)
		return nil
	}

	message := fmt.Sprintf("Your complaint %q is now: %s", event.Title, event.NewStatus)
	if event.AdminComment != "" {
		message += fmt.Sprintf("\nAdmin comment: %s", event.AdminComment)
	}

	notification := &model.Notification{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     "Complaint status updated",
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if complaintID, err := uuid.Parse(event.ComplaintID); err == nil {
		notification.ComplaintID = &complaintID
	}

	if err := c.notificationRepo.Create(notification); err != nil {
		return err
	}

	// Email is best-effort: the update is committed, delivery failure is
	// observed only in logs.
	if event.OwnerEmail != "" {
		subject := fmt.Sprintf("Complaint update: %s", event.NewStatus)
		plain, html := formatStatusEmail(&event)
		if err := c.mailer.Send(event.OwnerEmail, subject, plain, html); err != nil {
			log.Printf("status_update: email to %s: %v", event.OwnerEmail, err)
		} else {
			log.Printf("status_update: email sent to %s", event.OwnerEmail)
		}
	}

	return nil
}

func formatStatusEmail(event *StatusUpdateMessage) (plain, html string) {
	name := event.OwnerName
	if name == "" {
		name = "there"
	}

	plain = fmt.Sprintf("Hi %s,\n\nYour complaint %q has been updated.\nNew status: %s\n",
		name, event.Title, event.NewStatus)
	if event.AdminComment != "" {
		plain += fmt.Sprintf("Admin comment: %s\n", event.AdminComment)
	}
	plain += "\nThank you for helping improve your city."

	html = fmt.Sprintf(
		"<p>Hi %s,</p><p>Your complaint <b>%s</b> has been updated.</p><p>New status: <b>%s</b></p>",
		name, event.Title, event.NewStatus)
	if event.AdminComment != "" {
		html += fmt.Sprintf("<p>Admin comment: %s</p>", event.AdminComment)
	}
	html += "<p>Thank you for helping improve your city.</p>"

	return plain, html
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
