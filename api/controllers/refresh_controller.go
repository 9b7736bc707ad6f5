package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/refresh"
	"github.com/nulltale/nulltale-go/tool"
)

// UserRefreshTrigger starts a memory refresh in the background.
// POST /api/self/v1/refresh
//
// The refresh outlives this request, so it runs on a fresh context rather
// than the request's.
func UserRefreshTrigger(c *gin.Context) {
	err := refreshCoordinator.Trigger(context.Background())
	switch {
	case errors.Is(err, refresh.ErrRefreshInFlight):
		c.JSON(http.StatusConflict, tool.FastReturnError("A refresh is already in progress"))
	case errors.Is(err, refresh.ErrRefreshThrottled):
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError("Refresh triggered too soon, try again later"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to start refresh: "+err.Error()))
	default:
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(refreshCoordinator.Snapshot()))
	}
}

// UserRefreshStatus returns the current simulated progress state.
// GET /api/self/v1/refresh/status
func UserRefreshStatus(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(refreshCoordinator.Snapshot()))
}

// UserRefreshReady asks the backend whether a refresh can run.
// GET /api/self/v1/refresh/ready
func UserRefreshReady(c *gin.Context) {
	resp, err := backendGateway.CheckRefreshReady(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to check refresh readiness: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}
