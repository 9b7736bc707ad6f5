package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/tool"
)

const backendProbeTimeout = 800 * time.Millisecond

// NotifyWSEnabled is set by the server at startup so the UI knows whether
// to open the notify socket.
var NotifyWSEnabled = true

// UserStatus reports daemon and backend health for the web UI.
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	backendHost := tool.HostFromURL(cfg.BackendURL)
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"backend_url":       cfg.BackendURL,
		"backend_reachable": tool.QuickICMPProbe(backendHost, backendProbeTimeout),
		"notify_ws_enabled": NotifyWSEnabled,
		"uploading":         uploadCoordinator.AnyInFlight(),
		"refresh":           refreshCoordinator.Snapshot(),
	})
}
