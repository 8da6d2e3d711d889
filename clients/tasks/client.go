// Package tasks covers the personal task rows. All calls act on behalf
// of the signed-in user, row-level access is enforced by the backend.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/clients/internal"
	"github.com/Mas20150/DisciteOmnes/errors"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	client  HTTPClient
}

func NewClient(c HTTPClient, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  c,
	}
}

// List returns the user's tasks in server order. Zero rows is a valid
// answer, not an error.
func (c *Client) List(ctx context.Context, userID string) ([]disciteomnes.Task, error) {
	url := fmt.Sprintf("%s/rest/v1/tasks?user_id=%s&select=*", c.baseURL, internal.Eq(userID))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return nil, internal.CallError(res)
	}

	var tasks []disciteomnes.Task
	if err := json.NewDecoder(res.Body).Decode(&tasks); err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []disciteomnes.Task{}
	}
	return tasks, nil
}

// Create inserts the task and returns the persisted row, id included.
func (c *Client) Create(ctx context.Context, request disciteomnes.TaskRequest) (disciteomnes.Task, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(request); err != nil {
		return disciteomnes.Task{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/tasks", c.baseURL), body)
	if err != nil {
		return disciteomnes.Task{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(req)
	if err != nil {
		return disciteomnes.Task{}, internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return disciteomnes.Task{}, internal.CallError(res)
	}

	return decodeRow(res)
}

// UpdateCompletion flips the completed flag and returns the updated
// row. Idempotent on the backend side: repeating the call answers the
// same row.
func (c *Client) UpdateCompletion(ctx context.Context, id int, completed bool) (disciteomnes.Task, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(disciteomnes.TaskUpdate{Completed: completed}); err != nil {
		return disciteomnes.Task{}, err
	}

	url := fmt.Sprintf("%s/rest/v1/tasks?id=%s", c.baseURL, internal.Eq(id))
	req, err := http.NewRequestWithContext(ctx, "PATCH", url, body)
	if err != nil {
		return disciteomnes.Task{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(req)
	if err != nil {
		return disciteomnes.Task{}, internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return disciteomnes.Task{}, internal.CallError(res)
	}

	return decodeRow(res)
}

func (c *Client) Delete(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/rest/v1/tasks?id=%s", c.baseURL, internal.Eq(id))
	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return internal.CallError(res)
	}

	return nil
}

// decodeRow unwraps the single-element array the representation echo
// answers with.
func decodeRow(res *http.Response) (disciteomnes.Task, error) {
	var rows []disciteomnes.Task
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return disciteomnes.Task{}, err
	}

	if len(rows) == 0 {
		return disciteomnes.Task{}, errors.New("no row returned")
	}

	return rows[0], nil
}
