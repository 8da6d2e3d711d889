package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
)

func activateTasks(t *testing.T, env *testEnv) *TasksController {
	controller := NewTasksController(env.store, env.tasks, nopLogger{}, env.loop)
	controller.Activate(context.Background())
	env.loop.Step()
	require.Equal(t, StateReady, controller.State(), "load should succeed: %v", controller.Err())
	return controller
}

func TestTasksController_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	controller := NewTasksController(env.store, env.tasks, nopLogger{}, env.loop)
	routed := false
	controller.OnUnauthenticated = func() { routed = true }

	controller.Activate(context.Background())
	assert.True(t, routed)
}

func TestTasksController_AddAppends(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "tasks@example.com")
	controller := activateTasks(t, env)
	ctx := context.Background()

	require.NoError(t, controller.Add(ctx, "first", "2025-10-01"))
	env.loop.Step()
	require.NoError(t, controller.Add(ctx, "second", "2025-10-02"))
	env.loop.Step()

	require.Equal(t, StateReady, controller.State())
	require.Len(t, controller.Tasks(), 2)
	// Server order is preserved, no client-side sorting.
	assert.Equal(t, "first", controller.Tasks()[0].Title)
	assert.Equal(t, "second", controller.Tasks()[1].Title)
	assert.NotZero(t, controller.Tasks()[0].ID)
}

func TestTasksController_Toggle(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "toggle@example.com")
	controller := activateTasks(t, env)
	ctx := context.Background()

	require.NoError(t, controller.Add(ctx, "flip me", "2025-10-01"))
	env.loop.Step()
	require.False(t, controller.Tasks()[0].Completed)

	require.NoError(t, controller.Toggle(ctx, 0))
	env.loop.Step()
	assert.True(t, controller.Tasks()[0].Completed)

	require.NoError(t, controller.Toggle(ctx, 0))
	env.loop.Step()
	assert.False(t, controller.Tasks()[0].Completed)
}

func TestTasksController_Remove(t *testing.T) {
	env := newTestEnv(t)
	userID := env.signIn(t, "remove@example.com")
	controller := activateTasks(t, env)
	ctx := context.Background()

	require.NoError(t, controller.Add(ctx, "keep", "2025-10-01"))
	env.loop.Step()
	require.NoError(t, controller.Add(ctx, "drop", "2025-10-02"))
	env.loop.Step()
	require.Len(t, controller.Tasks(), 2)

	removedID := controller.Tasks()[1].ID
	require.NoError(t, controller.Remove(ctx, 1))
	env.loop.Step()

	require.Equal(t, StateReady, controller.State())
	require.Len(t, controller.Tasks(), 1)
	assert.Equal(t, "keep", controller.Tasks()[0].Title)

	// The backend no longer returns the deleted row either.
	list, err := env.tasks.List(ctx, userID)
	require.NoError(t, err)
	for _, task := range list {
		assert.NotEqual(t, removedID, task.ID)
	}
}

func TestTasksController_IndexBounds(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "bounds@example.com")
	controller := activateTasks(t, env)

	require.Error(t, controller.Toggle(context.Background(), 0))
	require.Error(t, controller.Remove(context.Background(), -1))
}

func TestTasksController_Rows(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "rows@example.com")
	controller := activateTasks(t, env)

	controller.list = []disciteomnes.Task{
		{Title: "open", DueDate: "2025-10-01", Completed: false},
		{Title: "done", DueDate: "2025-10-02", Completed: true},
	}

	rows := controller.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "⬜ open (due 2025-10-01)", rows[0])
	assert.Equal(t, "✅ done (due 2025-10-02)", rows[1])
}
