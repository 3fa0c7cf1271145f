package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// logCalls logs every tool call with a request id, its arguments, its
// duration and its outcome.
func (s *Server) logCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		id := uuid.NewString()
		logger := s.logger().With("request_id", id, "tool", req.Params.Name)
		logger.Info("tool called", "args", req.GetArguments())

		defer func(begin time.Time) {
			isError := result != nil && result.IsError
			if err != nil || isError {
				logger.Warn("tool failed",
					"duration", time.Since(begin),
					"tool_error", isError,
					"err", err,
				)
				return
			}
			logger.Info("tool completed", "duration", time.Since(begin))
		}(time.Now())

		return next(ctx, req)
	}
}
