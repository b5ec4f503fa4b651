package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest returns the authenticated user ID for a request,
// either from the router middleware or by verifying the Authorization
// header directly.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	// The router middleware already verified the token when present.
	if userID, ok := userIDFromContext(ctx); ok {
		return userID, nil
	}

	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return user.ID, nil
}

// extractIP returns the client IP from forwarding headers. Used for
// per-IP rate limiting on the auth endpoints.
func extractIP(xForwardedFor, xRealIP, remoteAddr string) string {
	if xForwardedFor != "" {
		// The first IP in the chain is the client.
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return strings.TrimSpace(xForwardedFor[:i])
		}
		return xForwardedFor
	}
	if xRealIP != "" {
		return xRealIP
	}
	// Strip the port from RemoteAddr.
	if i := strings.LastIndexByte(remoteAddr, ':'); i >= 0 {
		return remoteAddr[:i]
	}
	return remoteAddr
}
