package mcp

import (
	"context"
	"fmt"

	"github.com/fwojciec/ssmcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// progressNotifier forwards batch progress to the client as progress
// notifications. Returns nil when the client did not ask for progress.
func progressNotifier(ctx context.Context, req mcp.CallToolRequest) ssmcp.ProgressFunc {
	if req.Params.Meta == nil || req.Params.Meta.ProgressToken == nil {
		return nil
	}
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return nil
	}
	return newProgressFunc(req.Params.Meta.ProgressToken, func(params map[string]any) error {
		return srv.SendNotificationToClient(ctx, "notifications/progress", params)
	})
}

// newProgressFunc builds the notification parameters for each report.
func newProgressFunc(token mcp.ProgressToken, send func(map[string]any) error) ssmcp.ProgressFunc {
	return func(p ssmcp.Progress) {
		params := map[string]any{
			"progressToken": token,
			"progress":      p.Completed,
			"total":         p.Total,
			"message":       progressMessage(p),
		}
		// Progress is advisory; a client that went away fails the tool
		// call through its context instead.
		_ = send(params)
	}
}

func progressMessage(p ssmcp.Progress) string {
	switch {
	case p.URL == "":
		return fmt.Sprintf("processing %d pages", p.Total)
	case p.Error != nil:
		return fmt.Sprintf("failed %s (%d/%d)", p.URL, p.Completed, p.Total)
	default:
		return fmt.Sprintf("processed %s (%d/%d)", p.URL, p.Completed, p.Total)
	}
}
