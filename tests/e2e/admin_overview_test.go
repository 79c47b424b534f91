package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

type overviewResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	TotalMessages int64 `json:"total_messages"`
}

func TestAdminOverview_Counts(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()

	_, _ = placeTestOrder(t, c, ctx)
	admin := adminLogin(t, c, ctx)

	resp, body := c.doJSON(ctx, t, http.MethodGet, "/admin/overview", admin, nil)
	requireStatus(t, resp, http.StatusOK, body)

	var out overviewResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("json.Unmarshal failed: %v body=%s", err, string(body))
	}
	if out.TotalUsers < 1 || out.TotalOrders < 1 || out.PendingOrders < 1 {
		t.Fatalf("counts too low: %+v", out)
	}
	if out.PendingOrders > out.TotalOrders {
		t.Fatalf("pending exceeds total: %+v", out)
	}
}

func TestAdminOverview_UserForbidden(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()

	access := registerAndLogin(t, c, ctx)
	resp, body := c.doJSON(ctx, t, http.MethodGet, "/admin/overview", access, nil)
	requireStatus(t, resp, http.StatusForbidden, body)
}
