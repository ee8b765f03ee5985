package model

import "time"

type User struct {
	UserID    string    `firestore:"userid,omitempty"`
	Nickname  string    `firestore:"nickname,omitempty"`
	Email     string    `firestore:"email,omitempty"`
	Password  string    `firestore:"password,omitempty"`
	Address   string    `firestore:"address,omitempty"`
	Zipcode   string    `firestore:"zipcode,omitempty"`
	Country   string    `firestore:"country,omitempty"`
	Phone     string    `firestore:"phone,omitempty"`
	Points    int       `firestore:"points"` // only ever raised by verified rewards
	CreatedAt time.Time `firestore:"createdat,omitempty"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty"`
}

// HasLocation reports whether the profile carries enough to post tasks.
func (u *User) HasLocation() bool {
	return u.Zipcode != "" && u.Country != ""
}
