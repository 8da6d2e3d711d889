package screens

import (
	"context"
	"fmt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// GroupsController drives the group browser/creator screen: the sorted
// listing, joining an existing group by id, and the create-then-join
// workflow. If the join call fails after a successful create, the group
// exists without the creator as a member; the controller surfaces the
// join failure and leaves the backend as it is, there is no rollback.
type GroupsController struct {
	session *session.Store
	groups  GroupService
	log     log.Logger
	loop    *Loop

	userID string
	state  State
	err    error
	list   []disciteomnes.Group
	closed bool

	OnUnauthenticated func()
}

func NewGroupsController(store *session.Store, groups GroupService, logger log.Logger, loop *Loop) *GroupsController {
	return &GroupsController{
		session: store,
		groups:  groups,
		log:     logger,
		loop:    loop,
		state:   StateLoading,
	}
}

func (c *GroupsController) State() State                 { return c.state }
func (c *GroupsController) Err() error                   { return c.err }
func (c *GroupsController) Groups() []disciteomnes.Group { return c.list }
func (c *GroupsController) Close()                       { c.closed = true }

func (c *GroupsController) Rows() []string {
	rows := make([]string, len(c.list))
	for i, group := range c.list {
		rows[i] = fmt.Sprintf("%s  [%s]", group.Name, group.ID)
	}
	return rows
}

func (c *GroupsController) Activate(ctx context.Context) {
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
		groups, err := c.groups.ListForUser(ctx, c.userID)
		c.loop.Post(func() { c.applyList(groups, err) })
	}()
}

// CreateAndJoin creates the group and enrolls the creator: two
// independent network calls with no compensating transaction. A
// refreshed listing is fetched only when both succeed.
func (c *GroupsController) CreateAndJoin(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("group name is required", errors.BadRequest())
	}
	if c.userID == "" {
		return errors.New("not signed in", errors.Unauthorized())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		var group disciteomnes.Group

		failedStep, err := RunFlow(ctx, []FlowStep{
			{
				Name: "create group",
				Run: func(ctx context.Context) error {
					var err error
					group, err = c.groups.Create(ctx, name)
					return err
				},
			},
			{
				Name: "join group",
				Run: func(ctx context.Context) error {
					return c.groups.Join(ctx, c.userID, group.ID)
				},
			},
		})
		if err != nil {
			c.loop.Post(func() {
				if c.closed {
					return
				}
				c.state = StateError
				c.err = err
				c.log.Errorf("group creation stopped at %q: %v", failedStep, err)
			})
			return
		}

		groups, err := c.groups.ListForUser(ctx, c.userID)
		c.loop.Post(func() { c.applyList(groups, err) })
	}()

	return nil
}

// Join enrolls the user in an existing group by id, then re-reads the
// listing.
func (c *GroupsController) Join(ctx context.Context, groupID string) error {
	if groupID == "" {
		return errors.New("group id is required", errors.BadRequest())
	}
	if c.userID == "" {
		return errors.New("not signed in", errors.Unauthorized())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		if err := c.groups.Join(ctx, c.userID, groupID); err != nil {
			c.loop.Post(func() {
				if c.closed {
					return
				}
				c.state = StateError
				c.err = err
				c.log.Errorf("could not join group %s: %v", groupID, err)
			})
			return
		}

		groups, err := c.groups.ListForUser(ctx, c.userID)
		c.loop.Post(func() { c.applyList(groups, err) })
	}()

	return nil
}

// applyList runs on the loop.
func (c *GroupsController) applyList(groups []disciteomnes.Group, err error) {
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
}
