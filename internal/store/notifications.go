package store

import (
	"sync"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
)

// notify queues notifications and fans them out to subscribers. Slow
// subscribers miss notifications rather than block the store. Callers hold mu.
func (s *Store) notify(ns ...gamification.Notification) {
	s.notifications = append(s.notifications, ns...)
	for _, n := range ns {
		for id, ch := range s.subscribers {
			select {
			case ch <- n:
			default:
				s.log.Warn("notification dropped for slow subscriber", "subscriber", id, "kind", n.Kind)
			}
		}
	}
}

// Notify queues an info notification.
func (s *Store) Notify(title, message string) gamification.Notification {
	n := gamification.InfoNotification(title, message, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify(n)
	return n
}

// Notifications returns the queued notifications without consuming them.
func (s *Store) Notifications() []gamification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gamification.Notification(nil), s.notifications...)
}

// DrainNotifications returns and clears the queue.
func (s *Store) DrainNotifications() []gamification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notifications
	s.notifications = nil
	return out
}

// DismissNotification removes one notification by id.
func (s *Store) DismissNotification(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// PruneNotifications drops notifications older than gamification.NotificationTTL
// and returns how many were removed.
func (s *Store) PruneNotifications() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	removed := len(s.notifications) - len(kept)
	s.notifications = kept
	return removed
}

// Subscribe returns a channel receiving every future notification and a
// function that unsubscribes and closes it.
func (s *Store) Subscribe() (<-chan gamification.Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan gamification.Notification, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}
