package screens

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/Mas20150/DisciteOmnes/clients"
	"github.com/Mas20150/DisciteOmnes/clients/auth"
	"github.com/Mas20150/DisciteOmnes/clients/clienttest"
	"github.com/Mas20150/DisciteOmnes/clients/groups"
	"github.com/Mas20150/DisciteOmnes/clients/planner"
	"github.com/Mas20150/DisciteOmnes/clients/tasks"
	"github.com/Mas20150/DisciteOmnes/session"
)

// nopLogger keeps test output clean.
type nopLogger struct{}

func (nopLogger) Print(...interface{})            {}
func (nopLogger) Printf(string, ...interface{})   {}
func (nopLogger) Warning(...interface{})          {}
func (nopLogger) Warningf(string, ...interface{}) {}
func (nopLogger) Error(...interface{})            {}
func (nopLogger) Errorf(string, ...interface{})   {}
func (nopLogger) Fatal(...interface{})            {}
func (nopLogger) Fatalf(string, ...interface{})   {}

// testEnv wires a fake backend, a throwaway session store and real
// clients, the same way cmd does it.
type testEnv struct {
	server *clienttest.Server
	store  *session.Store
	loop   *Loop

	auth   *auth.Client
	groups *groups.Client
	tasks  *tasks.Client
	plans  *planner.Client
}

func newTestEnv(t *testing.T) *testEnv {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	tmpFile, err := ioutil.TempFile("", "")
	if err != nil {
		t.Fatal("could not create tmp file:", err)
	}
	filename := tmpFile.Name()

	driver := &session.Driver{}
	if err := driver.Open(filename); err != nil {
		os.Remove(filename)
		t.Fatalf("could not open session store: %v", err)
	}
	t.Cleanup(func() {
		driver.Close()
		os.Remove(filename)
	})

	store := &session.Store{Driver: driver}
	base := clients.NewClient(server.Client(), clienttest.APIKey, store)

	return &testEnv{
		server: server,
		store:  store,
		loop:   NewLoop(),
		auth:   auth.NewClient(base, server.URL),
		groups: groups.NewClient(base, server.URL),
		tasks:  tasks.NewClient(base, server.URL),
		plans:  planner.NewClient(base, server.URL),
	}
}

// signIn seeds a backend user and persists the session, skipping the
// login screen.
func (e *testEnv) signIn(t *testing.T, email string) (userID string) {
	token, userID := e.server.Seed(email, "s3cret-long-enough")
	if err := e.store.Set(session.KeyAccessToken, token); err != nil {
		t.Fatal("could not store token:", err)
	}
	if err := e.store.Set(session.KeyUserID, userID); err != nil {
		t.Fatal("could not store user id:", err)
	}
	return userID
}
