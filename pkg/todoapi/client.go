// Package todoapi is a client for the /todos REST resource.
package todoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/todo-api-client/pkg/httpclient"
)

const (
	todosPath     = "/todos"
	mediaTypeJSON = "application/json"

	// DefaultTimeout bounds requests made by the internally constructed transport.
	DefaultTimeout = 15 * time.Second
)

// Client issues requests against a base endpoint and maps HTTP outcomes to
// tasks or typed errors. It holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpclient.Client
	timeout time.Duration
	log     Logger
}

// Option configures a Client during construction in NewClient.
type Option func(*Client) error

// WithHTTPClient injects the transport used for every request.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithTimeout sets the timeout of the default resty transport. It has no
// effect when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		c.log = ensureLogger(log)
		return nil
	}
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: base,
		timeout: DefaultTimeout,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	return c, nil
}

// BaseURL returns the endpoint all paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// GetAllTasks fetches every task, preserving server order.
func (c *Client) GetAllTasks(ctx context.Context) ([]TaskDto, error) {
	const op = "get all tasks"

	body, err := c.do(ctx, op, http.MethodGet, todosPath, nil)
	if err != nil {
		return nil, err
	}

	var tasks []TaskDto
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &UnknownError{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("decode tasks: %w", err)}
	}
	return tasks, nil
}

// GetTaskByID fetches a single task. The id is passed through verbatim apart
// from path escaping.
func (c *Client) GetTaskByID(ctx context.Context, id string) (TaskDto, error) {
	const op = "get task by id"

	body, err := c.do(ctx, op, http.MethodGet, todosPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return TaskDto{}, err
	}
	return decodeTask(op, body)
}

// AddTask creates task and returns the server's representation. The task's
// id is forwarded as given.
func (c *Client) AddTask(ctx context.Context, task TaskDto) (TaskDto, error) {
	const op = "add task"

	payload, err := json.Marshal(task)
	if err != nil {
		return TaskDto{}, fmt.Errorf("%s: encode task: %w", op, err)
	}

	body, err := c.do(ctx, op, http.MethodPost, todosPath, payload)
	if err != nil {
		return TaskDto{}, err
	}
	return decodeTask(op, body)
}

// do sends one request and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	headers := map[string]string{"Accept": mediaTypeJSON}

	c.log.DebugObj("todo api request", "todo_api_request", map[string]any{
		"op":     op,
		"method": method,
		"url":    target,
	})

	var (
		resp httpclient.Response
		err  error
	)
	switch method {
	case http.MethodPost:
		headers["Content-Type"] = mediaTypeJSON
		resp, err = c.http.Post(ctx, target, headers, payload)
	default:
		resp, err = c.http.Get(ctx, target, headers)
	}
	if err != nil {
		c.log.WarnObj("todo api request failed", "todo_api_error", map[string]any{
			"op":    op,
			"url":   target,
			"error": err.Error(),
		})
		return nil, &NetworkError{Op: op, Err: err}
	}

	if err := statusError(op, resp.StatusCode()); err != nil {
		c.log.WarnObj("todo api returned error status", "todo_api_error", map[string]any{
			"op":     op,
			"url":    target,
			"status": resp.StatusCode(),
		})
		return nil, err
	}
	return resp.Body(), nil
}

func decodeTask(op string, body []byte) (TaskDto, error) {
	var task TaskDto
	if err := json.Unmarshal(body, &task); err != nil {
		return TaskDto{}, &UnknownError{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("decode task: %w", err)}
	}
	return task, nil
}
