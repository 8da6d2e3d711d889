// Package auth covers the backend's authentication surface: signup,
// password login, resolving the current user from a token, and the
// profile row created on registration completion.
package auth

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

// Register creates the auth account. The display name is not part of
// this call: it is kept pending locally and written as a profile row on
// first login. A 4xx means the backend rejected the input (weak
// password, already registered email).
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/auth/v1/signup", c.baseURL), body)
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

// Login exchanges the credentials for an opaque bearer token. The
// backend communicates no expiry; a stale token simply fails later
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return "", internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		// The token endpoint answers 400 on bad credentials; surface it
		// as an auth failure, not a validation one.
		err := internal.CallError(res)
		if res.StatusCode == http.StatusBadRequest {
			err = errors.WithCode(http.StatusUnauthorized)(err)
		}
		return "", err
	}

	var resBody struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return "", err
	}

	if resBody.AccessToken == "" {
		return "", errors.New("login answered without a token", errors.Unauthorized())
	}

	return resBody.AccessToken, nil
}

// CurrentUser resolves the durable user id behind a freshly issued
// token. Only the id field of the payload is consumed.
func (c *Client) CurrentUser(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/auth/v1/user", c.baseURL), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	res, err := c.client.Do(req)
	if err != nil {
		return "", internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return "", internal.CallError(res)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return "", err
	}

	if user.ID == "" {
		return "", errors.New("user payload without an id")
	}

	return user.ID, nil
}

// CreateProfile writes the profile row. Not idempotent: the backend
// enforces no uniqueness, calling twice duplicates the row.
func (c *Client) CreateProfile(ctx context.Context, profile disciteomnes.Profile) (disciteomnes.Profile, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(profile); err != nil {
		return disciteomnes.Profile{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/profiles", c.baseURL), body)
	if err != nil {
		return disciteomnes.Profile{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(req)
	if err != nil {
		return disciteomnes.Profile{}, internal.NetworkError(err)
	}
	defer res.Body.Close()

	if !internal.Success(res) {
		return disciteomnes.Profile{}, internal.CallError(res)
	}

	var created disciteomnes.Profile
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return disciteomnes.Profile{}, err
	}

	return created, nil
}
