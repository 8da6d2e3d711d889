// Package planner covers study plans and their steps. Plan and step
// writes answer return=minimal, so creation is followed by a re-read on
// the screen side.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/clients/internal"
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

func (c *Client) ListPlans(ctx context.Context, groupID string) ([]disciteomnes.StudyPlan, error) {
	url := fmt.Sprintf("%s/rest/v1/study_plans?group_id=%s", c.baseURL, internal.Eq(groupID))
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

	var plans []disciteomnes.StudyPlan
	if err := json.NewDecoder(res.Body).Decode(&plans); err != nil {
		return nil, err
	}

	if plans == nil {
		plans = []disciteomnes.StudyPlan{}
	}
	return plans, nil
}

func (c *Client) CreatePlan(ctx context.Context, request disciteomnes.StudyPlanRequest) error {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(request); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/study_plans", c.baseURL), body)
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

// ListSteps returns the plan's steps. A plan with zero steps answers an
// empty sequence, never an error.
func (c *Client) ListSteps(ctx context.Context, planID int) ([]disciteomnes.StudyStep, error) {
	url := fmt.Sprintf("%s/rest/v1/study_steps?plan_id=%s", c.baseURL, internal.Eq(planID))
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

	var steps []disciteomnes.StudyStep
	if err := json.NewDecoder(res.Body).Decode(&steps); err != nil {
		return nil, err
	}

	if steps == nil {
		steps = []disciteomnes.StudyStep{}
	}
	return steps, nil
}

func (c *Client) CreateStep(ctx context.Context, request disciteomnes.StudyStepRequest) error {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(request); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/rest/v1/study_steps", c.baseURL), body)
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
