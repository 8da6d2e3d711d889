package disciteomnes

// Task is a personal task row. IDs are assigned by the backend, the
// client never generates one.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
	UserID    string `json:"user_id"`
}

// TaskRequest is the body sent to create a task. The backend echoes the
// persisted row, including the assigned id.
type TaskRequest struct {
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
	UserID    string `json:"user_id"`
}

// TaskUpdate only carries the completed flag, the single mutable field.
type TaskUpdate struct {
	Completed bool `json:"completed"`
}
