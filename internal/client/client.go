// internal/client/client.go

// Package client talks to the job board API on behalf of the listing pages.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	apperrors "jobboard/internal/common/errors"
	commonhttp "jobboard/internal/common/http"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

const maxBodyBytes = 8 << 20

// ListResponse mirrors GET /api/jobs. Message is set when Jobs is empty.
// NoData marks a 2xx body without a jobs field at all.
type ListResponse struct {
	Message string
	Jobs    []models.Job
	NoData  bool
}

// wireJob is decoded leniently: a bad id or date does not fail the whole
// listing, it yields a record the renderer will skip or label.
type wireJob struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	EmploymentType string   `json:"employmentType"`
	PostedDate     string   `json:"postedDate"`
}

func (w wireJob) toJob() models.Job {
	job := models.Job{
		Title:          w.Title,
		Company:        w.Company,
		Location:       w.Location,
		Description:    w.Description,
		Skills:         w.Skills,
		EmploymentType: models.EmploymentType(w.EmploymentType),
	}
	if id, err := models.ParseJobID(w.ID); err == nil {
		job.ID = id
	}
	if t, err := time.Parse(time.RFC3339Nano, w.PostedDate); err == nil {
		job.PostedDate = t
	}
	return job
}

type Client struct {
	baseURL *url.URL
	http    *commonhttp.Client
	logger  logger.Logger
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:3000".
func New(baseURL string, httpClient *commonhttp.Client, log logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    httpClient,
		logger:  logger.Component(log, "api-client"),
	}, nil
}

// ListJobs fetches the listing. Empty filters are left off the query string.
func (c *Client) ListJobs(ctx context.Context, location, skills string) (*ListResponse, error) {
	params := url.Values{}
	if location != "" {
		params.Set("location", location)
	}
	if skills != "" {
		params.Set("skills", skills)
	}

	u := c.endpoint("/api/jobs")
	u.RawQuery = params.Encode()

	var body struct {
		Message string     `json:"message"`
		Jobs    *[]wireJob `json:"jobs"`
	}
	if err := c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, err
	}
	if body.Jobs == nil {
		return &ListResponse{Message: body.Message, NoData: true}, nil
	}

	jobs := make([]models.Job, 0, len(*body.Jobs))
	for _, w := range *body.Jobs {
		jobs = append(jobs, w.toJob())
	}
	return &ListResponse{Message: body.Message, Jobs: jobs}, nil
}

// GetJob fetches one job by id.
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	u := c.endpoint("/api/jobs/" + url.PathEscape(id))

	var w wireJob
	if err := c.getJSON(ctx, u.String(), &w); err != nil {
		return nil, err
	}
	job := w.toJob()
	return &job, nil
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u
}

// getJSON decodes a 2xx body into dst. Any other status becomes a fetch
// error carrying the server's message, or "HTTP error! status: N".
func (c *Client) getJSON(ctx context.Context, target string, dst interface{}) error {
	res, err := c.http.GetJSON(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.NewFetchFailedError(err.Error(), 0, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.NewFetchFailedError(err.Error(), res.StatusCode, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &errBody)
		msg := errBody.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", res.StatusCode)
		}
		c.logger.Warn("api request failed", map[string]interface{}{
			"url":    target,
			"status": res.StatusCode,
		})
		return apperrors.NewFetchFailedError(msg, res.StatusCode, nil)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.NewFetchFailedError("Invalid response from server.", res.StatusCode, err)
	}
	return nil
}

// StatusCode returns the HTTP status carried by a fetch error, 0 if none.
func StatusCode(err error) int {
	se, ok := apperrors.As(err)
	if !ok {
		return 0
	}
	if status, ok := se.Metadata["status"].(int); ok {
		return status
	}
	return 0
}
