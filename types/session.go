package types

// Session is a chat session as stored by the backend.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject,omitempty"`
	Preview   string `json:"preview,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SessionsResponse is the backend reply to GET /api/sessions.
type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// Message is one chat message.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MessagesResponse is the backend reply to GET /api/messages/{sessionId}.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the backend reply to POST /api/chat. The backend may
// split one persona reply into several messages.
type ChatResponse struct {
	UserMessage Message   `json:"user_message"`
	AIMessage   Message   `json:"ai_message"`
	AIMessages  []Message `json:"ai_messages,omitempty"`
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	Name string `json:"name"`
}
