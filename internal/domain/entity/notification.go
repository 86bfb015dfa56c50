package entity

import "time"

// Notification is a message addressed to the current user
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// NotificationFeed is the /notifications/ response
type NotificationFeed struct {
	UnreadCount   int            `json:"unread_count"`
	Notifications []Notification `json:"notifications"`
}
