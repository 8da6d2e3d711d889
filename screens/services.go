package screens

import (
	"context"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
)

// The controllers depend on these narrow views of the backend clients.

type AuthService interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (string, error)
	CreateProfile(ctx context.Context, profile disciteomnes.Profile) (disciteomnes.Profile, error)
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]disciteomnes.Task, error)
	Create(ctx context.Context, request disciteomnes.TaskRequest) (disciteomnes.Task, error)
	UpdateCompletion(ctx context.Context, id int, completed bool) (disciteomnes.Task, error)
	Delete(ctx context.Context, id int) error
}

type GroupService interface {
	Create(ctx context.Context, name string) (disciteomnes.Group, error)
	Join(ctx context.Context, userID, groupID string) error
	ListForUser(ctx context.Context, userID string) ([]disciteomnes.Group, error)
}

type PlanService interface {
	ListPlans(ctx context.Context, groupID string) ([]disciteomnes.StudyPlan, error)
	CreatePlan(ctx context.Context, request disciteomnes.StudyPlanRequest) error
	ListSteps(ctx context.Context, planID int) ([]disciteomnes.StudyStep, error)
	CreateStep(ctx context.Context, request disciteomnes.StudyStepRequest) error
}
