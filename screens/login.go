package screens

import (
	"context"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// LoginController drives the login screen and the whole sign-in
// workflow: exchange credentials for a token, resolve the user id,
// persist both, flush a pending profile if registration left one, and
// remember the user's first group. The last two stages are best effort,
// matching the backend state a partial flow leaves behind: a failure
// there is logged and login still completes.
type LoginController struct {
	session *session.Store
	auth    AuthService
	groups  GroupService
	log     log.Logger
	loop    *Loop

	state  State
	err    error
	closed bool

	// OnSuccess is invoked on the loop once the session is persisted.
	OnSuccess func()
}

func NewLoginController(store *session.Store, auth AuthService, groups GroupService, logger log.Logger, loop *Loop) *LoginController {
	return &LoginController{
		session: store,
		auth:    auth,
		groups:  groups,
		log:     logger,
		loop:    loop,
		state:   StateReady,
	}
}

func (c *LoginController) State() State { return c.state }
func (c *LoginController) Err() error   { return c.err }
func (c *LoginController) Close()       { c.closed = true }

// Submit runs the sign-in flow. One completion is posted regardless of
// how far the flow got.
func (c *LoginController) Submit(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required", errors.BadRequest())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		var token, userID string

		failedStep, err := RunFlow(ctx, []FlowStep{
			{
				Name: "login",
				Run: func(ctx context.Context) error {
					var err error
					token, err = c.auth.Login(ctx, email, password)
					return err
				},
			},
			{
				Name: "fetch current user",
				Run: func(ctx context.Context) error {
					var err error
					userID, err = c.auth.CurrentUser(ctx, token)
					return err
				},
			},
			{
				Name: "persist session",
				Run: func(ctx context.Context) error {
					if err := c.session.Set(session.KeyAccessToken, token); err != nil {
						return err
					}
					return c.session.Set(session.KeyUserID, userID)
				},
			},
			{
				Name: "create pending profile",
				Run:  func(ctx context.Context) error { return c.createPendingProfile(ctx, userID) },
			},
			{
				Name: "fetch first group",
				Run:  func(ctx context.Context) error { return c.rememberFirstGroup(ctx, userID) },
			},
		})

		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("login flow stopped at %q: %v", failedStep, err)
				return
			}

			c.state = StateReady
			if c.OnSuccess != nil {
				c.OnSuccess()
			}
		})
	}()

	return nil
}

// createPendingProfile writes the profile row parked at registration
// time. Best effort: a failure leaves the pending name in place for the
// next login and never fails the flow.
func (c *LoginController) createPendingProfile(ctx context.Context, userID string) error {
	name, found, err := c.session.Get(session.KeyPendingName)
	if err != nil {
		return err
	}
	if !found || name == "" {
		return nil
	}

	if _, err := c.auth.CreateProfile(ctx, disciteomnes.Profile{ID: userID, Name: name}); err != nil {
		c.log.Warningf("could not create profile for %s: %v", userID, err)
		return nil
	}

	return c.session.Delete(session.KeyPendingName)
}

// rememberFirstGroup stores the first listed group as the active one.
// Zero groups is normal for a fresh user; a failed read is logged and
// ignored so an unreachable table does not block login.
func (c *LoginController) rememberFirstGroup(ctx context.Context, userID string) error {
	groups, err := c.groups.ListForUser(ctx, userID)
	if err != nil {
		c.log.Warningf("could not load groups for %s: %v", userID, err)
		return nil
	}
	if len(groups) == 0 {
		return nil
	}

	return c.session.Set(session.KeyGroupID, groups[0].ID)
}
