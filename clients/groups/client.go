// Package groups covers group creation, membership and the joined
// listing of the user's groups.
package groups

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

// Create inserts the group and returns the persisted row. Creating
// does NOT enroll the creator: that is a separate Join call, and if it
// fails the group stays without its creator as a member.
func (c *Client) Create(ctx context.Context, name string) (disciteomnes.Group, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(disciteomnes.GroupRequest{Name: name}); err != nil {
		return disciteomnes.Group{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/groups", c.baseURL), body)
	if err != nil {
		return disciteomnes.Group{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(req)
	if err != nil {
		return disciteomnes.Group{}, internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return disciteomnes.Group{}, internal.CallError(res)
	}

	var rows []disciteomnes.Group
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return disciteomnes.Group{}, err
	}

	if len(rows) == 0 {
		return disciteomnes.Group{}, errors.New("no row returned")
	}

	return rows[0], nil
}

// Join writes the membership row. The backend answers 201 or 204
// depending on the Prefer header, both are success.
func (c *Client) Join(ctx context.Context, userID, groupID string) error {
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(disciteomnes.GroupMembership{
		UserID:  userID,
		GroupID: groupID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/group_members", c.baseURL), body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

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

// ListForUser reads the user's groups through the relational
// projection: membership rows joined to group attributes in a single
// round trip.
func (c *Client) ListForUser(ctx context.Context, userID string) ([]disciteomnes.Group, error) {
	url := fmt.Sprintf("%s/rest/v1/group_members?select=group:groups(id,name)&user_id=%s",
		c.baseURL, internal.Eq(userID))
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

	var rows []disciteomnes.GroupMember
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, err
	}

	groups := make([]disciteomnes.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.Group)
	}
	return groups, nil
}
