package disciteomnes

// StudyPlan belongs to exactly one group.
type StudyPlan struct {
	ID      int    `json:"id"`
	GroupID string `json:"group_id"`
	Title   string `json:"title"`
}

type StudyPlanRequest struct {
	GroupID string `json:"group_id"`
	Title   string `json:"title"`
}

// StudyStep belongs to exactly one plan. CompletedBy lists the ids of
// the users that checked the step off.
type StudyStep struct {
	ID          int      `json:"id"`
	PlanID      int      `json:"plan_id"`
	Title       string   `json:"title"`
	DueDate     string   `json:"due_date"`
	CompletedBy []string `json:"completed_by"`
}

type StudyStepRequest struct {
	PlanID  int    `json:"plan_id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}
