package dto

// Rewards arrive as strings so that non-numeric input is reported as an
// invalid reward rather than a binding error.
type CreateTaskRequest struct {
	Detail   string `json:"detail" binding:"required"`
	Overview string `json:"overview" binding:"max=200"`
	Reward   string `json:"reward" binding:"required"`
	Category string `json:"category"`
}

type EditTaskRequest struct {
	Detail *string `json:"detail"`
	Reward *string `json:"reward"`
}

type FeedQuery struct {
	Zipcode  string `form:"zipcode"`
	Country  string `form:"country"`
	Category string `form:"category"`
	Action   string `form:"action"`
}

type MyTasksQuery struct {
	Role      string `form:"role" binding:"required"`
	Completed bool   `form:"completed"`
	Category  string `form:"category"`
	Action    string `form:"action"`
}

type MessageRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}
