package screens

import (
	"context"
	"fmt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// StepsController drives the step list of one study plan. The plan id
// arrives as a navigation argument, not from the session. A plan with
// zero steps is Ready with an empty list, which the screen must render
// differently from a failed load.
type StepsController struct {
	session *session.Store
	plans   PlanService
	log     log.Logger
	loop    *Loop

	planID int
	state  State
	err    error
	list   []disciteomnes.StudyStep
	closed bool

	OnUnauthenticated func()
}

func NewStepsController(store *session.Store, plans PlanService, planID int, logger log.Logger, loop *Loop) *StepsController {
	return &StepsController{
		session: store,
		plans:   plans,
		planID:  planID,
		log:     logger,
		loop:    loop,
		state:   StateLoading,
	}
}

func (c *StepsController) State() State                    { return c.state }
func (c *StepsController) Err() error                      { return c.err }
func (c *StepsController) Steps() []disciteomnes.StudyStep { return c.list }
func (c *StepsController) Close()                          { c.closed = true }

// Empty reports a loaded-but-empty list, the NotFoundOrEmpty case.
func (c *StepsController) Empty() bool {
	return c.state == StateReady && len(c.list) == 0
}

func (c *StepsController) Rows() []string {
	rows := make([]string, len(c.list))
	for i, step := range c.list {
		check := "⬜"
		if len(step.CompletedBy) > 0 {
			check = "✅"
		}
		rows[i] = fmt.Sprintf("%s %s (due %s)", check, step.Title, step.DueDate)
	}
	return rows
}

func (c *StepsController) Activate(ctx context.Context) {
	snapshot, err := c.session.Snapshot()
	if err != nil {
		c.state = StateError
		c.err = err
		return
	}
	if snapshot.AccessToken == "" || c.planID <= 0 {
		if c.OnUnauthenticated != nil {
			c.OnUnauthenticated()
		}
		return
	}

	c.refresh(ctx)
}

// AddStep creates the step then re-reads the listing.
func (c *StepsController) AddStep(ctx context.Context, title, dueDate string) error {
	if title == "" || dueDate == "" {
		return errors.New("title and due date are required", errors.BadRequest())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		err := c.plans.CreateStep(ctx, disciteomnes.StudyStepRequest{
			PlanID:  c.planID,
			Title:   title,
			DueDate: dueDate,
		})
		if err != nil {
			c.loop.Post(func() {
				if c.closed {
					return
				}
				c.state = StateError
				c.err = err
				c.log.Errorf("could not add step: %v", err)
			})
			return
		}

		steps, err := c.plans.ListSteps(ctx, c.planID)
		c.loop.Post(func() { c.applyList(steps, err) })
	}()

	return nil
}

func (c *StepsController) refresh(ctx context.Context) {
	c.state = StateLoading
	c.err = nil

	go func() {
		steps, err := c.plans.ListSteps(ctx, c.planID)
		c.loop.Post(func() { c.applyList(steps, err) })
	}()
}

// applyList runs on the loop.
func (c *StepsController) applyList(steps []disciteomnes.StudyStep, err error) {
	if c.closed {
		return
	}

	if err != nil {
		c.state = StateError
		c.err = err
		c.log.Errorf("could not load steps: %v", err)
		return
	}

	c.list = steps
	c.state = StateReady
}
