package model

import (
	"time"
)

type Notification struct {
	NotificationID string    `firestore:"notificationid,omitempty"`
	Receiver       string    `firestore:"receiver"`
	TaskID         string    `firestore:"taskid"`
	CreatedAt      time.Time `firestore:"createdat,omitempty"`
}
