package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/blogapi/internal/db"
	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostUpdated = "post.updated"
	SubjectPostDeleted = "post.deleted"
)

// PostEvent is the payload published for every post change.
type PostEvent struct {
	PostID       uint   `json:"post_id"`
	Title        string `json:"title"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// NewPostEvent snapshots post at time now.
func NewPostEvent(post *db.Post, now time.Time) PostEvent {
	event := PostEvent{
		PostID:     post.ID,
		Title:      post.Title,
		CategoryID: post.CategoryID,
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
	if post.Category != nil {
		event.CategoryName = post.Category.Name
	}
	return event
}

type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher sends post events to NATS subjects.
type Publisher struct {
	conn  conn
	close func()
}

// Connect dials the NATS server at url.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("blogapi"))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	log.Printf("[events] NATS connected at %s", url)
	return &Publisher{conn: nc, close: nc.Close}, nil
}

// Publish encodes event as JSON and sends it on subject.
func (p *Publisher) Publish(subject string, event PostEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

// Close closes the underlying connection.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}
