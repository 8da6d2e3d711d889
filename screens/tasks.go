package screens

import (
	"context"
	"fmt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// TasksController drives the personal task list. The list keeps server
// return order; mutations patch it in place with the row the backend
// echoed instead of re-reading the whole list.
type TasksController struct {
	session *session.Store
	tasks   TaskService
	log     log.Logger
	loop    *Loop

	userID string
	state  State
	err    error
	list   []disciteomnes.Task
	closed bool

	OnUnauthenticated func()
}

func NewTasksController(store *session.Store, tasks TaskService, logger log.Logger, loop *Loop) *TasksController {
	return &TasksController{
		session: store,
		tasks:   tasks,
		log:     logger,
		loop:    loop,
		state:   StateLoading,
	}
}

func (c *TasksController) State() State               { return c.state }
func (c *TasksController) Err() error                 { return c.err }
func (c *TasksController) Tasks() []disciteomnes.Task { return c.list }
func (c *TasksController) Close()                     { c.closed = true }

func (c *TasksController) Rows() []string {
	rows := make([]string, len(c.list))
	for i, task := range c.list {
		check := "⬜"
		if task.Completed {
			check = "✅"
		}
		rows[i] = fmt.Sprintf("%s %s (due %s)", check, task.Title, task.DueDate)
	}
	return rows
}

func (c *TasksController) Activate(ctx context.Context) {
	snapshot, err := c.session.Snapshot()
	if err != nil {
		c.state = StateError
		c.err = err
		return
	}
	if snapshot.AccessToken == "" || snapshot.UserID == "" {
		if c.OnUnauthenticated != nil {
			c.OnUnauthenticated()
		}
		return
	}

	c.userID = snapshot.UserID
	c.state = StateLoading
	c.err = nil

	go func() {
		tasks, err := c.tasks.List(ctx, c.userID)
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("could not load tasks: %v", err)
				return
			}

			c.list = tasks
			c.state = StateReady
		})
	}()
}

// Add creates the task and appends the persisted row the backend
// answered with.
func (c *TasksController) Add(ctx context.Context, title, dueDate string) error {
	if title == "" || dueDate == "" {
		return errors.New("title and due date are required", errors.BadRequest())
	}
	if c.userID == "" {
		return errors.New("not signed in", errors.Unauthorized())
	}

	go func() {
		task, err := c.tasks.Create(ctx, disciteomnes.TaskRequest{
			Title:   title,
			DueDate: dueDate,
			UserID:  c.userID,
		})
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("could not add task: %v", err)
				return
			}

			c.list = append(c.list, task)
			c.state = StateReady
		})
	}()

	return nil
}

// Toggle flips the completed flag of the task at the given position and
// replaces the row with the server's answer.
func (c *TasksController) Toggle(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.list) {
		return errors.New("no task at that position", errors.BadRequest())
	}

	target := c.list[index]
	go func() {
		updated, err := c.tasks.UpdateCompletion(ctx, target.ID, !target.Completed)
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("could not update task %d: %v", target.ID, err)
				return
			}

			// Find by id: the list may have shifted while the call was
			// in flight.
			for i := range c.list {
				if c.list[i].ID == updated.ID {
					c.list[i] = updated
					break
				}
			}
			c.state = StateReady
		})
	}()

	return nil
}

// Remove deletes the task at the given position and splices it out of
// the list.
func (c *TasksController) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.list) {
		return errors.New("no task at that position", errors.BadRequest())
	}

	target := c.list[index]
	go func() {
		err := c.tasks.Delete(ctx, target.ID)
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("could not delete task %d: %v", target.ID, err)
				return
			}

			kept := c.list[:0]
			for _, task := range c.list {
				if task.ID != target.ID {
					kept = append(kept, task)
				}
			}
			c.list = kept
			c.state = StateReady
		})
	}()

	return nil
}
