package model

type Message struct {
	MessageID string `firestore:"messageid,omitempty" json:"messageId"`
	TaskID    string `firestore:"taskid" json:"taskId"`
	Sender    string `firestore:"sender" json:"sender"`
	Body      string `firestore:"body" json:"body"`
	Sent      int64  `firestore:"sent" json:"sent"` // unix millis
}
