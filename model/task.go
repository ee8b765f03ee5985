package model

// Firestore field names used in task queries.
const (
	TaskFieldKey       = "key"
	TaskFieldTimestamp = "timestamp"
	TaskFieldStatus    = "status"
	TaskFieldOwner     = "owner"
	TaskFieldHelper    = "helper"
	TaskFieldZipcode   = "zipcode"
	TaskFieldCountry   = "country"
	TaskFieldCategory  = "category"
)

// NoHelper marks a task nobody has accepted yet.
const NoHelper = "N/A"

const (
	MinReward = 0
	MaxReward = 200
)

type Task struct {
	Key       string `firestore:"key" json:"key"`
	Detail    string `firestore:"detail" json:"detail"`
	Overview  string `firestore:"overview" json:"overview"`
	Timestamp int64  `firestore:"timestamp" json:"timestamp"` // unix millis at creation
	Reward    int    `firestore:"reward" json:"reward"`
	Status    Status `firestore:"status" json:"status"`
	Owner     string `firestore:"owner" json:"owner"`
	Helper    string `firestore:"helper" json:"helper"`
	Address   string `firestore:"address" json:"address"`
	Zipcode   string `firestore:"zipcode" json:"zipcode"`
	Country   string `firestore:"country" json:"country"`
	Category  string `firestore:"category" json:"category"`
}

// Counterpart returns the other party of the task for the given user, or ""
// when there is none.
func (t *Task) Counterpart(userID string) string {
	switch userID {
	case t.Owner:
		if t.Helper == NoHelper {
			return ""
		}
		return t.Helper
	default:
		return t.Owner
	}
}

// Field returns the value stored under a Firestore field name.
func (t *Task) Field(name string) (any, bool) {
	switch name {
	case TaskFieldKey:
		return t.Key, true
	case TaskFieldTimestamp:
		return t.Timestamp, true
	case TaskFieldStatus:
		return string(t.Status), true
	case TaskFieldOwner:
		return t.Owner, true
	case TaskFieldHelper:
		return t.Helper, true
	case TaskFieldZipcode:
		return t.Zipcode, true
	case TaskFieldCountry:
		return t.Country, true
	case TaskFieldCategory:
		return t.Category, true
	case "detail":
		return t.Detail, true
	case "overview":
		return t.Overview, true
	case "reward":
		return int64(t.Reward), true
	case "address":
		return t.Address, true
	}
	return nil, false
}
