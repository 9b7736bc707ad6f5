package api

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/refresh"
	"github.com/nulltale/nulltale-go/upload"
)

// TestSetupRoutes tests that the engine carries each base middleware once
// and registers the API routes.
func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := gateway.NewClient("http://127.0.0.1:1")
	server := NewServer(53330, true, gw, upload.NewCoordinator(gw), refresh.NewCoordinator(gw))
	engine := server.setupRoutes()

	// gin.Default installs Logger and Recovery; nothing should be doubled.
	if got := len(engine.Handlers); got != 2 {
		t.Errorf("Expected 2 base middlewares, got %d", got)
	}

	want := map[string]bool{
		"POST /api/self/v1/upload/:category":   false,
		"POST /api/self/v1/uploads/zip/select": false,
		"POST /api/self/v1/refresh":            false,
		"GET /api/self/v1/notify-ws":           false,
	}
	for _, route := range engine.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("Route not registered: %s", key)
		}
	}
}
