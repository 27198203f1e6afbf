package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrInboxItemNotFound = errors.New("inbox item not found")

// PushTransport writes an in-app inbox entry to Firestore and, when the
// recipient has a registered device token, sends an FCM push.
type PushTransport struct {
	Firestore *firestore.Client
	Messaging *messaging.Client
}

type InboxItem struct {
	ID        string    `firestore:"-" json:"id"`
	Kind      string    `firestore:"kind" json:"kind"`
	TaskID    int64     `firestore:"taskId" json:"task_id"`
	Title     string    `firestore:"title" json:"title"`
	Link      string    `firestore:"link" json:"link"`
	Read      bool      `firestore:"read" json:"read"`
	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
}

func (p *PushTransport) inbox(userID uint) *firestore.CollectionRef {
	return p.Firestore.Collection("Notifications").Doc(strconv.FormatUint(uint64(userID), 10)).Collection("Items")
}

func (p *PushTransport) Send(ctx context.Context, msg Message) error {
	item := InboxItem{
		Kind:      string(msg.Kind),
		TaskID:    int64(msg.TaskID),
		Title:     msg.Subject,
		Link:      msg.Link,
		CreatedAt: time.Now(),
	}
	if _, _, err := p.inbox(msg.To.ID).Add(ctx, item); err != nil {
		return fmt.Errorf("failed to write inbox item: %w", err)
	}

	if p.Messaging == nil {
		return nil
	}
	token, err := p.deviceToken(ctx, msg.To.Email)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	_, err = p.Messaging.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Subject,
			Body:  msg.Link,
		},
		Data: map[string]string{
			"kind":   string(msg.Kind),
			"taskId": strconv.FormatUint(uint64(msg.TaskID), 10),
			"link":   msg.Link,
		},
	})
	if err != nil {
		return fmt.Errorf("error sending push: %w", err)
	}
	return nil
}

// deviceToken reads the FCM token registered at sign-in. A missing
// document means the user has no device, not an error.
func (p *PushTransport) deviceToken(ctx context.Context, email string) (string, error) {
	doc, err := p.Firestore.Collection("usersLogin").Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get document: %w", err)
	}
	token, _ := doc.Data()["FMCToken"].(string)
	return token, nil
}

// Inbox lists the newest in-app notifications for a user.
func (p *PushTransport) Inbox(ctx context.Context, userID uint, limit int) ([]InboxItem, error) {
	iter := p.inbox(userID).OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var items []InboxItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read inbox: %w", err)
		}
		var item InboxItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode inbox item: %w", err)
		}
		item.ID = doc.Ref.ID
		items = append(items, item)
	}
	return items, nil
}

// RecordLogin stores the device token a client registered at sign-in.
// An empty token only refreshes the login timestamp.
func (p *PushTransport) RecordLogin(ctx context.Context, email, deviceToken string) error {
	data := map[string]interface{}{
		"email":      email,
		"login":      1,
		"updated_at": time.Now(),
	}
	if deviceToken != "" {
		data["FMCToken"] = deviceToken
	}
	if _, err := p.Firestore.Collection("usersLogin").Doc(email).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update login document: %w", err)
	}
	return nil
}

func (p *PushTransport) MarkRead(ctx context.Context, userID uint, itemID string) error {
	_, err := p.inbox(userID).Doc(itemID).Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrInboxItemNotFound
		}
		return fmt.Errorf("failed to mark inbox item read: %w", err)
	}
	return nil
}
