// Package api is the HTTP client for the coparently expense API. Reads that
// come back empty or 404 are valid zero states, never errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/carolinadevia11/coparently/errors"
	"github.com/carolinadevia11/coparently/internal/auth"
	"github.com/carolinadevia11/coparently/internal/expense"
	"github.com/carolinadevia11/coparently/internal/family"
	"github.com/carolinadevia11/coparently/logging"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	cred    auth.Credential
	logger  *logrus.Logger
}

func NewClient(baseURL string, cred auth.Credential) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		cred:    cred,
		logger:  logging.Logger,
	}
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues one JSON request and returns the raw body and status. Transport
// failures are errors; HTTP-level rejections are left to the caller, which
// knows which statuses are valid zero states.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cred.Authorization())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"req_id": reqID,
			"method": method,
			"path":   path,
			"error":  err,
		}).Error("api request failed")
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"bytes":      len(raw),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("api request completed")

	return raw, resp.StatusCode, nil
}

// apiError turns a non-2xx body into an error, preferring the server's own
// code/message payload when it sent one.
func apiError(raw []byte, status int) error {
	var resp appErrors.Response
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Message != "" {
		return fmt.Errorf("server rejected request (status %d): %w", status, resp)
	}
	return fmt.Errorf("%w: unexpected status %d", appErrors.ErrInternal, status)
}

// ListExpenses fetches the full expense collection. A 404 means no expenses
// exist yet and returns an empty slice.
func (c *Client) ListExpenses(ctx context.Context) ([]expense.Expense, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/expenses", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status/100 != 2 {
		return nil, apiError(raw, status)
	}

	// Accept both a bare array and a wrapped {"expenses": [...]} body.
	var items []expenseItem
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped listExpensesResponse
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode expenses: %w", err)
		}
		items = wrapped.Expenses
	}

	expenses := make([]expense.Expense, 0, len(items))
	for _, it := range items {
		e, err := it.toExpense()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// GetSummary fetches the server-side summary. Absence (404 or an empty body)
// is a valid state and returns (nil, nil); the caller recomputes locally.
func (c *Client) GetSummary(ctx context.Context) (*expense.Summary, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/expenses/summary", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status/100 != 2 {
		return nil, apiError(raw, status)
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var item summaryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	summary := item.toSummary()
	return &summary, nil
}

func (c *Client) CreateExpense(ctx context.Context, req CreateExpenseRequest) (expense.Expense, error) {
	raw, status, err := c.do(ctx, http.MethodPost, "/api/expenses", req)
	if err != nil {
		return expense.Expense{}, err
	}
	if status/100 != 2 {
		return expense.Expense{}, apiError(raw, status)
	}
	var item expenseItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return expense.Expense{}, fmt.Errorf("decode created expense: %w", err)
	}
	return item.toExpense()
}

func (c *Client) UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (expense.Expense, error) {
	raw, status, err := c.do(ctx, http.MethodPatch, "/api/expenses/"+url.PathEscape(id), req)
	if err != nil {
		return expense.Expense{}, err
	}
	if status/100 != 2 {
		return expense.Expense{}, apiError(raw, status)
	}
	var item expenseItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return expense.Expense{}, fmt.Errorf("decode updated expense: %w", err)
	}
	return item.toExpense()
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	raw, status, err := c.do(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return apiError(raw, status)
	}
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return User{}, err
	}
	if status == http.StatusUnauthorized {
		return User{}, fmt.Errorf("%w: session rejected by server", appErrors.ErrNotAuthenticated)
	}
	if status/100 != 2 {
		return User{}, apiError(raw, status)
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return User{}, fmt.Errorf("decode current user: %w", err)
	}
	return user, nil
}

// FamilyProfile fetches the two-parent family record. A missing record (the
// family is not linked yet) is a valid empty profile.
func (c *Client) FamilyProfile(ctx context.Context) (family.Profile, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/api/family", nil)
	if err != nil {
		return family.Profile{}, err
	}
	if status == http.StatusNotFound {
		return family.Profile{}, nil
	}
	if status/100 != 2 {
		return family.Profile{}, apiError(raw, status)
	}
	var item familyItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return family.Profile{}, fmt.Errorf("decode family profile: %w", err)
	}
	return item.toProfile(), nil
}
