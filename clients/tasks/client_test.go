package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/clients"
	"github.com/Mas20150/DisciteOmnes/clients/clienttest"
)

func newClient(t *testing.T) (*Client, string) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	token, userID := server.Seed("tasks@example.com", "s3cret-long-enough")
	base := clients.NewClient(server.Client(), clienttest.APIKey, clients.StaticToken(token))
	return NewClient(base, server.URL), userID
}

func TestClient_CreateList(t *testing.T) {
	client, userID := newClient(t)
	ctx := context.Background()

	list, err := client.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list, "fresh user should have no tasks")

	created, err := client.Create(ctx, disciteomnes.TaskRequest{
		Title:   "read chapter 4",
		DueDate: "2025-10-01",
		UserID:  userID,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "the server assigns the id")
	assert.Equal(t, "read chapter 4", created.Title)
	assert.False(t, created.Completed)

	list, err = client.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestClient_UpdateCompletionIdempotent(t *testing.T) {
	client, userID := newClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, disciteomnes.TaskRequest{
		Title:   "revise notes",
		DueDate: "2025-10-02",
		UserID:  userID,
	})
	require.NoError(t, err)
	require.False(t, created.Completed)

	updated, err := client.UpdateCompletion(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// Second identical update answers the same row.
	updated, err = client.UpdateCompletion(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
}

func TestClient_Delete(t *testing.T) {
	client, userID := newClient(t)
	ctx := context.Background()

	first, err := client.Create(ctx, disciteomnes.TaskRequest{Title: "a", DueDate: "2025-10-01", UserID: userID})
	require.NoError(t, err)
	second, err := client.Create(ctx, disciteomnes.TaskRequest{Title: "b", DueDate: "2025-10-02", UserID: userID})
	require.NoError(t, err)

	require.NoError(t, client.Delete(ctx, first.ID))

	list, err := client.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
	for _, task := range list {
		assert.NotEqual(t, first.ID, task.ID)
	}
}

func TestClient_ListIsScopedToUser(t *testing.T) {
	server := clienttest.NewServer()
	t.Cleanup(server.Close)

	tokenA, userA := server.Seed("a@example.com", "s3cret-long-enough")
	_, userB := server.Seed("b@example.com", "s3cret-long-enough")

	client := NewClient(clients.NewClient(server.Client(), clienttest.APIKey, clients.StaticToken(tokenA)), server.URL)
	ctx := context.Background()

	_, err := client.Create(ctx, disciteomnes.TaskRequest{Title: "mine", DueDate: "2025-10-01", UserID: userA})
	require.NoError(t, err)

	list, err := client.List(ctx, userB)
	require.NoError(t, err)
	assert.Empty(t, list)
}
