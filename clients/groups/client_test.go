package groups

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mas20150/DisciteOmnes/clients"
	"github.com/Mas20150/DisciteOmnes/clients/clienttest"
	"github.com/Mas20150/DisciteOmnes/errors"
)

func newClient(t *testing.T) (*Client, *clienttest.Server, string) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	token, userID := server.Seed("groups@example.com", "s3cret-long-enough")
	base := clients.NewClient(server.Client(), clienttest.APIKey, clients.StaticToken(token))
	return NewClient(base, server.URL), server, userID
}

func TestClient_CreateJoinList(t *testing.T) {
	client, _, userID := newClient(t)
	ctx := context.Background()

	group, err := client.Create(ctx, "Algebra crew")
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Algebra crew", group.Name)
	assert.Equal(t, userID, group.CreatedBy)

	// Creation does not enroll: the listing is still empty.
	list, err := client.ListForUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, client.Join(ctx, userID, group.ID))

	list, err = client.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Algebra crew", list[0].Name)
}

func TestClient_JoinFailureLeavesGroupUnlisted(t *testing.T) {
	client, server, userID := newClient(t)
	ctx := context.Background()

	group, err := client.Create(ctx, "Orphaned")
	require.NoError(t, err)

	server.FailJoin = true
	err = client.Join(ctx, userID, group.ID)
	require.Error(t, err)

	// The group exists on the backend but the creator is not a member.
	_, exists := server.GroupNamed("Orphaned")
	assert.True(t, exists)

	list, err := client.ListForUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_JoinUnknownGroup(t *testing.T) {
	client, _, userID := newClient(t)

	err := client.Join(context.Background(), userID, "no-such-group")
	require.Error(t, err)
	errors.AssertCode(t, err, http.StatusConflict)
}

func TestClient_ListWithoutToken(t *testing.T) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	base := clients.NewClient(server.Client(), clienttest.APIKey, nil)
	client := NewClient(base, server.URL)

	_, err := client.ListForUser(context.Background(), "whoever")
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
	errors.AssertCode(t, err, http.StatusUnauthorized)
}
