package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/share"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

// UserSessionsList lists chat sessions, served from the share cache.
// GET /api/self/v1/sessions
func UserSessionsList(c *gin.Context) {
	sessions, err := share.GetSessions(c.Request.Context(), backendGateway)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to list sessions: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"sessions": sessions}))
}

// UserSessionCreate creates a new chat session.
// POST /api/self/v1/sessions
func UserSessionCreate(c *gin.Context) {
	var request types.CreateSessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	session, err := backendGateway.CreateSession(c.Request.Context(), request.Name)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to create session: "+err.Error()))
		return
	}
	share.InvalidateSessions()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(session))
}

// UserSessionDelete deletes a chat session.
// DELETE /api/self/v1/sessions/:id
func UserSessionDelete(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: id"))
		return
	}
	if err := backendGateway.DeleteSession(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to delete session: "+err.Error()))
		return
	}
	share.InvalidateSessions()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// UserMessages returns the message history of a session.
// GET /api/self/v1/messages/:id
func UserMessages(c *gin.Context) {
	resp, err := backendGateway.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to fetch messages: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}

// UserChatSend forwards a chat message to the backend persona.
// POST /api/self/v1/chat
func UserChatSend(c *gin.Context) {
	var request types.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(request.Content) == "" || request.SessionID == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing content or session_id"))
		return
	}
	resp, err := backendGateway.SendMessage(c.Request.Context(), request.Content, request.SessionID)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to send message: "+err.Error()))
		return
	}
	// Chat updates the session preview on the backend.
	share.InvalidateSessions()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}
