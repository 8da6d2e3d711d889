package screens

import (
	"context"
	"fmt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// DashboardController shows the signed-in user's groups and owns
// logout.
type DashboardController struct {
	session *session.Store
	groups  GroupService
	log     log.Logger
	loop    *Loop

	state  State
	err    error
	list   []disciteomnes.Group
	closed bool

	// OnUnauthenticated routes to the login screen. Called directly
	// from Activate when the session is incomplete, and after Logout.
	OnUnauthenticated func()
}

func NewDashboardController(store *session.Store, groups GroupService, logger log.Logger, loop *Loop) *DashboardController {
	return &DashboardController{
		session: store,
		groups:  groups,
		log:     logger,
		loop:    loop,
		state:   StateLoading,
	}
}

func (c *DashboardController) State() State                 { return c.state }
func (c *DashboardController) Err() error                   { return c.err }
func (c *DashboardController) Groups() []disciteomnes.Group { return c.list }
func (c *DashboardController) Close()                       { c.closed = true }

func (c *DashboardController) Rows() []string {
	rows := make([]string, len(c.list))
	for i, group := range c.list {
		rows[i] = fmt.Sprintf("%s  [%s]", group.Name, group.ID)
	}
	return rows
}

// Activate loads the group list. Routes away without a network call
// when the session is incomplete.
func (c *DashboardController) Activate(ctx context.Context) {
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

	c.state = StateLoading
	c.err = nil

	go func() {
		groups, err := c.groups.ListForUser(ctx, snapshot.UserID)
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("could not load groups: %v", err)
				return
			}

			disciteomnes.SortGroupsByName(groups)
			c.list = groups
			c.state = StateReady
		})
	}()
}

// Logout clears the whole session and routes to the login screen.
func (c *DashboardController) Logout() error {
	if err := c.session.Clear(); err != nil {
		return err
	}

	c.list = nil
	if c.OnUnauthenticated != nil {
		c.OnUnauthenticated()
	}
	return nil
}
