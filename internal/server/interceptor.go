package server

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/wordbridge/internal/auth"
)

// NewLoggingInterceptor logs every unary call with its duration and resulting code.
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			level := slog.LevelInfo
			if err != nil {
				code = connect.CodeOf(err).String()
				if connect.CodeOf(err) == connect.CodeInternal {
					level = slog.LevelError
				} else {
					level = slog.LevelWarn
				}
			}
			logger.Log(ctx, level, "rpc",
				"procedure", req.Spec().Procedure,
				"method", req.HTTPMethod(),
				"user_id", auth.FromContext(ctx).UserID,
				"code", code,
				"duration", time.Since(start),
			)
			return resp, err
		}
	}
}
