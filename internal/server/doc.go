// Package server provides the HTTP server of the task executor.
//
// The server uses the Gin web framework and serves the admin API under
// /api/v1, plus unauthenticated /health and /metrics endpoints.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Ginzap (request logging, "http" logger)                │  │
//	│  │  RecoveryWithZap (panic recovery with stack trace)      │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health          liveness                                    │
//	│  /metrics         Prometheus exposition                       │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Authenticator (HS256 bearer token, optional)           │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"):
//   - Gin runs in debug mode
//
// Production Mode (ServerMode = "prod"):
//   - Gin runs in release mode
//
// # Authentication
//
// When Authentication.Enabled is set, every /api/v1 request must carry
//
//	Authorization: Bearer <token>
//
// where token is an HS256 JWT issued by "task-executor", signed with the
// secret read from Authentication.SecretFilePath and carrying an expiry.
// Invalid or missing tokens get 401. Tokens are minted with
// Authenticator.GenerateToken (see "executor token").
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, registry, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handler)
//	})
//
//	err := srv.Start(ctx) // blocks, returns nil after Stop
//	srv.Stop(ctx)         // graceful, waits for in-flight requests
package server
