package gamification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the category of an ephemeral UI event.
type NotificationKind string

const (
	KindXP        NotificationKind = "xp"
	KindBadge     NotificationKind = "badge"
	KindLevel     NotificationKind = "level"
	KindChallenge NotificationKind = "challenge"
	KindInfo      NotificationKind = "info"
)

// NotificationTTL is how long a notification stays visible before it is pruned.
const NotificationTTL = 4 * time.Second

// Notification is never persisted.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Icon      string           `json:"icon"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Expired reports whether the notification has outlived NotificationTTL at now.
func (n Notification) Expired(now time.Time) bool {
	return now.Sub(n.CreatedAt) >= NotificationTTL
}

func newNotification(kind NotificationKind, icon, title, message string, now time.Time) Notification {
	return Notification{
		ID:        "note-" + uuid.New().String()[:8],
		Kind:      kind,
		Title:     title,
		Message:   message,
		Icon:      icon,
		CreatedAt: now,
	}
}

func XPNotification(taskTitle string, xp int, now time.Time) Notification {
	return newNotification(KindXP, "✨", fmt.Sprintf("+%d XP", xp), fmt.Sprintf("Completed '%s'", taskTitle), now)
}

func LevelNotification(level int, now time.Time) Notification {
	return newNotification(KindLevel, "🎉", "Level up!", fmt.Sprintf("You reached level %d", level), now)
}

func BadgeNotification(b Badge, now time.Time) Notification {
	return newNotification(KindBadge, b.Icon, "Badge unlocked: "+b.Name, b.Description, now)
}

func ChallengeNotification(c *DailyChallenge, now time.Time) Notification {
	return newNotification(KindChallenge, "🏁", "Challenge complete: "+c.Title, fmt.Sprintf("+%d bonus XP", c.XPReward), now)
}

func InfoNotification(title, message string, now time.Time) Notification {
	return newNotification(KindInfo, "ℹ️", title, message, now)
}
