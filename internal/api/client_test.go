package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carolinadevia11/coparently/internal/auth"
	"github.com/carolinadevia11/coparently/internal/expense"
)

const testToken = "session-token"

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, auth.Credential{Token: testToken}), srv
}

func TestListExpenses(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/expenses", r.URL.Path)
		require.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]expenseItem{{
			ID:          "exp-1",
			Description: "Soccer camp",
			Amount:      250,
			Category:    "activities",
			Date:        "2026-06-01",
			PaidBy:      "sam@example.com",
			Status:      "pending",
			SplitRatio:  splitRatioItem{Parent1: 60, Parent2: 40},
			ReceiptURL:  "/files/receipts/exp-1.pdf",
		}})
	})
	defer srv.Close()

	expenses, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)

	e := expenses[0]
	require.Equal(t, "exp-1", e.ID)
	require.Equal(t, expense.CategoryActivities, e.Category)
	require.Equal(t, expense.StatusPending, e.Status)
	require.Equal(t, expense.SplitRatio{Parent1: 60, Parent2: 40}, e.SplitRatio)
	require.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), e.Date)
	require.True(t, e.HasReceipt())
}

func TestListExpensesWrappedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listExpensesResponse{Expenses: []expenseItem{{
			ID: "exp-2", Description: "Books", Amount: 30, Category: "education",
			Date: "2026-02-10", PaidBy: "alex@example.com", Status: "approved",
			SplitRatio: splitRatioItem{Parent1: 50, Parent2: 50},
		}}})
	})
	defer srv.Close()

	expenses, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.Equal(t, expense.StatusApproved, expenses[0].Status)
}

// No expenses yet is a valid zero state, not an error.
func TestListExpensesNotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	expenses, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Empty(t, expenses)
}

func TestGetSummaryAbsent(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	summary, err := client.GetSummary(context.Background())
	require.NoError(t, err)
	require.Nil(t, summary)
}

func TestGetSummaryNullBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})
	defer srv.Close()

	summary, err := client.GetSummary(context.Background())
	require.NoError(t, err)
	require.Nil(t, summary)
}

func TestGetSummary(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/expenses/summary", r.URL.Path)
		json.NewEncoder(w).Encode(summaryItem{
			TotalAmount: 425, UserOwes: 30, UserOwed: 40,
			PendingCount: 1, ApprovedCount: 1, DisputedCount: 1, PaidCount: 1,
		})
	})
	defer srv.Close()

	summary, err := client.GetSummary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, 425.0, summary.TotalAmount)
	require.Equal(t, 1, summary.DisputedCount)
}

func TestCreateExpense(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req CreateExpenseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Winter coat", req.Description)
		require.Equal(t, "receipt.png", req.ReceiptFileName)
		require.NotEmpty(t, req.ReceiptContent)

		json.NewEncoder(w).Encode(expenseItem{
			ID: "exp-9", Description: req.Description, Amount: req.Amount,
			Category: req.Category, Date: req.Date, PaidBy: "sam@example.com",
			Status: "pending", SplitRatio: splitRatioItem{Parent1: 60, Parent2: 40},
		})
	})
	defer srv.Close()

	created, err := client.CreateExpense(context.Background(), CreateExpenseRequest{
		Description:     "Winter coat",
		Amount:          95,
		Category:        "clothing",
		Date:            "2026-01-15",
		ReceiptFileName: "receipt.png",
		ReceiptContent:  "aGVsbG8=",
		ChildrenIDs:     []string{"child-1"},
	})
	require.NoError(t, err)
	require.Equal(t, "exp-9", created.ID)
	require.Equal(t, expense.StatusPending, created.Status)
}

// Scenario: the non-payer approves a pending expense paid by the other parent.
func TestUpdateExpenseApprove(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/expenses/exp-1", r.URL.Path)
		var req UpdateExpenseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "approved", req.Status)
		require.Empty(t, req.DisputeReason)

		json.NewEncoder(w).Encode(expenseItem{
			ID: "exp-1", Description: "Soccer camp", Amount: 250,
			Category: "activities", Date: "2026-06-01", PaidBy: "sam@example.com",
			Status: req.Status, SplitRatio: splitRatioItem{Parent1: 60, Parent2: 40},
		})
	})
	defer srv.Close()

	updated, err := client.UpdateExpense(context.Background(), "exp-1", UpdateExpenseRequest{Status: "approved"})
	require.NoError(t, err)
	require.Equal(t, expense.StatusApproved, updated.Status)
}

func TestUpdateExpenseServerRejection(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"code": "ACCESS DENIED", "message": "payer cannot approve",
		})
	})
	defer srv.Close()

	_, err := client.UpdateExpense(context.Background(), "exp-1", UpdateExpenseRequest{Status: "approved"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "payer cannot approve")
}

func TestDeleteExpense(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/expenses/exp-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	require.NoError(t, client.DeleteExpense(context.Background(), "exp-1"))
}

func TestCurrentUser(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/me", r.URL.Path)
		json.NewEncoder(w).Encode(User{FirstName: "Sam", LastName: "Rivera", Email: "sam@example.com"})
	})
	defer srv.Close()

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sam@example.com", user.Email)
}

func TestFamilyProfileNotLinkedYet(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	profile, err := client.FamilyProfile(context.Background())
	require.NoError(t, err)
	require.Nil(t, profile.Parent1)
	require.Nil(t, profile.Parent2)
}

func TestFamilyProfile(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(familyItem{
			Parent1: &memberItem{Email: "sam@example.com", FirstName: "Sam"},
		})
	})
	defer srv.Close()

	profile, err := client.FamilyProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile.Parent1)
	require.Equal(t, "Sam", profile.Parent1.FirstName)
	require.Nil(t, profile.Parent2)
}
