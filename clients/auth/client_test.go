package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/clients"
	"github.com/Mas20150/DisciteOmnes/clients/clienttest"
	"github.com/Mas20150/DisciteOmnes/errors"
)

func newClient(t *testing.T) (*Client, *clienttest.Server) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	base := clients.NewClient(server.Client(), clienttest.APIKey, nil)
	return NewClient(base, server.URL), server
}

func TestClient_RegisterLogin(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	err := client.Register(ctx, "alice@example.com", "s3cret-long-enough")
	require.NoError(t, err)

	token, err := client.Login(ctx, "alice@example.com", "s3cret-long-enough")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestClient_RegisterWeakPassword(t *testing.T) {
	client, _ := newClient(t)

	err := client.Register(context.Background(), "bob@example.com", "abc")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err), "weak password should be a validation error, got %v", err)
	errors.AssertCode(t, err, http.StatusUnprocessableEntity)
}

func TestClient_RegisterDuplicateEmail(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "carol@example.com", "s3cret-long-enough"))

	err := client.Register(ctx, "carol@example.com", "another-password")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestClient_LoginWrongPassword(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "dave@example.com", "s3cret-long-enough"))

	token, err := client.Login(ctx, "dave@example.com", "wrong-password")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.IsAuth(err), "wrong password should be an auth error, got %v", err)
	errors.AssertCode(t, err, http.StatusUnauthorized)
}

func TestClient_CurrentUser(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "erin@example.com", "s3cret-long-enough"))
	token, err := client.Login(ctx, "erin@example.com", "s3cret-long-enough")
	require.NoError(t, err)

	userID, err := client.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	_, err = client.CurrentUser(ctx, "bogus-token")
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
}

func TestClient_CreateProfile(t *testing.T) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	base := clients.NewClient(server.Client(), clienttest.APIKey, nil)
	client := NewClient(base, server.URL)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "frank@example.com", "s3cret-long-enough"))
	token, err := client.Login(ctx, "frank@example.com", "s3cret-long-enough")
	require.NoError(t, err)
	userID, err := client.CurrentUser(ctx, token)
	require.NoError(t, err)

	// Re-wire with the token: profile writes are authenticated.
	authed := NewClient(clients.NewClient(server.Client(), clienttest.APIKey, clients.StaticToken(token)), server.URL)

	profile, err := authed.CreateProfile(ctx, disciteomnes.Profile{ID: userID, Name: "Frank"})
	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "Frank", profile.Name)
	assert.Len(t, server.Profiles(), 1)
}

func TestClient_MissingAPIKey(t *testing.T) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	// Raw transport, no base client: the apikey header is absent.
	client := NewClient(server.Client(), server.URL)

	err := client.Register(context.Background(), "gina@example.com", "s3cret-long-enough")
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
	errors.AssertCode(t, err, http.StatusUnauthorized)
}
