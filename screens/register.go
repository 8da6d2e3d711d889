package screens

import (
	"context"

	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/session"
)

// RegisterController drives the signup screen. The display name is not
// part of the signup call: it is parked in the session as the pending
// name and written as a profile row on the first successful login.
type RegisterController struct {
	session *session.Store
	auth    AuthService
	log     log.Logger
	loop    *Loop

	state  State
	err    error
	closed bool

	// OnSuccess is invoked on the loop after a successful registration,
	// to route back to the login screen.
	OnSuccess func()
}

func NewRegisterController(store *session.Store, auth AuthService, logger log.Logger, loop *Loop) *RegisterController {
	return &RegisterController{
		session: store,
		auth:    auth,
		log:     logger,
		loop:    loop,
		state:   StateReady,
	}
}

func (c *RegisterController) State() State { return c.state }
func (c *RegisterController) Err() error   { return c.err }
func (c *RegisterController) Close()       { c.closed = true }

// Submit validates locally (non-empty only, the backend judges the
// rest) and registers. One network call, one completion.
func (c *RegisterController) Submit(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return errors.New("name, email and password are required", errors.BadRequest())
	}

	c.state = StateLoading
	c.err = nil

	go func() {
		err := c.auth.Register(ctx, email, password)
		c.loop.Post(func() {
			if c.closed {
				return
			}

			if err != nil {
				c.state = StateError
				c.err = err
				c.log.Errorf("registration failed: %v", err)
				return
			}

			if err := c.session.Set(session.KeyPendingName, name); err != nil {
				c.state = StateError
				c.err = err
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
