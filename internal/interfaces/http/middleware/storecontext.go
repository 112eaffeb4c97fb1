package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/canteen/backend/internal/application/storeaccess"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// ScopeResolver resolves the active store scope for a user
type ScopeResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*storeaccess.Scope, error)
}

// StoreContext resolves the caller's active store and threads it into the
// request context. Repositories pick it up from there; no handler passes
// store IDs around explicitly.
//
// Head-office users without a selection get an unscoped context. A user
// with several accessible stores and no selection is answered with 428 so
// the SPA opens the store picker. It must run after Auth.
func StoreContext(resolver ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			code, message := "STORE_ACCESS_DENIED", "You do not have access to any store"
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code, message = domainErr.Code, domainErr.Message
			}
			c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
				dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
			return
		}

		if scope.StoreID != nil {
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithStoreID(ctx, log, scope.StoreID.String())
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
