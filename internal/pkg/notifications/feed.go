package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/internal/pkg/cache"
)

// The notification feed is store-backed: every notification is a row first,
// then a best-effort redis publish wakes any open stream for that member.
// A dropped publish only delays display until the next list fetch.

func channelFor(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Notify persists a notification and pushes it to the member's live feed.
func Notify(db *gorm.DB, userID uint, notificationType, content string, referenceID uint) error {
	if err := models.CreateNotification(db, userID, notificationType, content, referenceID); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":         notificationType,
		"content":      content,
		"reference_id": referenceID,
	})
	if err != nil {
		return err
	}
	if err := cache.GetClient().Publish(context.Background(), channelFor(userID), payload).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("notification publish failed")
	}
	return nil
}

// Subscribe opens a live feed for one member. The returned channel yields raw
// JSON payloads; call the cancel func when the client disconnects.
func Subscribe(ctx context.Context, userID uint) (<-chan string, func()) {
	pubsub := cache.GetClient().Subscribe(ctx, channelFor(userID))
	out := make(chan string, 8)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}
