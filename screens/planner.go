package screens

import (
	"context"
	"fmt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// PlannerController drives the study-plan list of the active group.
// Creation answers no row, so every successful write is followed by a
// re-read.
type PlannerController struct {
	session *session.Store
	plans   PlanService
	log     log.Logger
	loop    *Loop

	groupID string
	state   State
	err     error
	list    []disciteomnes.StudyPlan
	closed  bool

	// OnUnauthenticated also fires when no active group is stored: the
	// original treats a missing group like a missing login.
	OnUnauthenticated func()
}

func NewPlannerController(store *session.Store, plans PlanService, logger log.Logger, loop *Loop) *PlannerController {
	return &PlannerController{
		session: store,
		plans:   plans,
		log:     logger,
		loop:    loop,
		state:   StateLoading,
	}
}

func (c *PlannerController) State() State                    { return c.state }
func (c *PlannerController) Err() error                      { return c.err }
func (c *PlannerController) Plans() []disciteomnes.StudyPlan { return c.list }
func (c *PlannerController) Close()                          { c.closed = true }

func (c *PlannerController) Rows() []string {
	rows := make([]string, len(c.list))
	for i, plan := range c.list {
		rows[i] = fmt.Sprintf("%s  (#%d)", plan.Title, plan.ID)
	}
	return rows
}

// Plan returns the plan at the given display position, for navigating
// into its steps.
func (c *PlannerController) Plan(index int) (disciteomnes.StudyPlan, error) {
	if index < 0 || index >= len(c.list) {
		return disciteomnes.StudyPlan{}, errors.New("no plan at that position", errors.BadRequest())
	}
	return c.list[index], nil
}

func (c *PlannerController) Activate(ctx context.Context) {
	snapshot, err := c.session.Snapshot()
	if err != nil {
		c.state = StateError
		c.err = err
		return
	}
	if snapshot.AccessToken == "" || snapshot.GroupID == "" {
		if c.OnUnauthenticated != nil {
			c.OnUnauthenticated()
		}
		return
	}

	c.groupID = snapshot.GroupID
	c.refresh(ctx)
}

// AddPlan creates the plan then re-reads the listing.
func (c *PlannerController) AddPlan(ctx context.Context, title string) error {
	if title == "" {
		return errors.New("plan title is required", errors.BadRequest())
	}
	if c.groupID == "" {
		return errors.New("no active group", errors.Unauthorized())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		err := c.plans.CreatePlan(ctx, disciteomnes.StudyPlanRequest{
			GroupID: c.groupID,
			Title:   title,
		})
		if err != nil {
			c.loop.Post(func() {
				if c.closed {
					return
				}
				c.state = StateError
				c.err = err
				c.log.Errorf("could not add plan: %v", err)
			})
			return
		}

		plans, err := c.plans.ListPlans(ctx, c.groupID)
		c.loop.Post(func() { c.applyList(plans, err) })
	}()

	return nil
}

func (c *PlannerController) refresh(ctx context.Context) {
	c.state = StateLoading
	c.err = nil

	go func() {
		plans, err := c.plans.ListPlans(ctx, c.groupID)
		c.loop.Post(func() { c.applyList(plans, err) })
	}()
}

// applyList runs on the loop.
func (c *PlannerController) applyList(plans []disciteomnes.StudyPlan, err error) {
	if c.closed {
		return
	}

	if err != nil {
		c.state = StateError
		c.err = err
		c.log.Errorf("could not load plans: %v", err)
		return
	}

	c.list = plans
	c.state = StateReady
}
