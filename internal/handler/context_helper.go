package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/middleware"
	"github.com/payorbit/wallet-panel-api/internal/service"
	reqidmiddleware "github.com/payorbit/wallet-panel-api/pkg/middleware/requestid"
)

func principalFromContext(c *gin.Context) *middleware.Principal {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil
	}
	return principal
}

// requestContext carries the request ID into the service layer so audit
// entries can be correlated with access logs.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if id := reqidmiddleware.Value(c); id != "" {
		ctx = context.WithValue(ctx, service.RequestIDContextKey, id)
	}
	return ctx
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
