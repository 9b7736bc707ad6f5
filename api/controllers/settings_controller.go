package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/share"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

// UserSettingsGet returns the backend settings, served from the share cache.
// GET /api/self/v1/settings
func UserSettingsGet(c *gin.Context) {
	settings, err := share.GetSettings(c.Request.Context(), backendGateway)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to fetch settings: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(settings))
}

// UserSettingsPut writes the backend settings.
// PUT /api/self/v1/settings
func UserSettingsPut(c *gin.Context) {
	var request types.Settings
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	updated, err := backendGateway.UpdateSettings(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to update settings: "+err.Error()))
		return
	}
	share.StoreSettings(updated)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(updated))
}
