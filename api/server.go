package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/api/controllers"
	"github.com/nulltale/nulltale-go/api/middlewares"
	"github.com/nulltale/nulltale-go/api/notifyhub"
	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/refresh"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/upload"
)

// Server is the local HTTP API consumed by the web UI. It only listens for
// localhost traffic; the OnlyAllowLocal middleware rejects anything else.
type Server struct {
	port     int
	notifyWS bool
	hub      *notifyhub.Hub
	engine   *gin.Engine
	server   *http.Server
	mu       sync.RWMutex
}

// NewServer wires the coordinators into a local API server and returns it.
func NewServer(port int, notifyWS bool, gw *gateway.Client, up *upload.Coordinator, rf *refresh.Coordinator) *Server {
	s := &Server{
		port:     port,
		notifyWS: notifyWS,
	}
	if notifyWS {
		s.hub = notifyhub.New()
		up.SetNotifier(s.hub.Broadcast)
		rf.SetNotifier(s.hub.Broadcast)
	}
	controllers.Setup(gw, up, rf)
	controllers.NotifyWSEnabled = notifyWS
	return s
}

// Hub returns the notify hub, or nil when the WebSocket is disabled.
func (s *Server) Hub() *notifyhub.Hub {
	return s.hub
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.POST("/upload/:category", controllers.UserUpload)      // Upload one file to a category
		self.GET("/uploads/:category", controllers.UserUploadState) // Coordinator bookkeeping for a category
		self.POST("/uploads/zip/select", controllers.UserSelectZipConversations)
		self.GET("/files/:category", controllers.UserListFiles)         // Backend file listing passthrough
		self.DELETE("/files/:category/:id", controllers.UserDeleteFile) // Delete a stored file
		self.POST("/files/:category/:id/subject", controllers.UserSetFileSubject)

		self.POST("/refresh", controllers.UserRefreshTrigger)      // Trigger memory refresh
		self.GET("/refresh/status", controllers.UserRefreshStatus) // Simulated progress snapshot
		self.GET("/refresh/ready", controllers.UserRefreshReady)   // Backend readiness passthrough

		self.GET("/sessions", controllers.UserSessionsList)
		self.POST("/sessions", controllers.UserSessionCreate)
		self.DELETE("/sessions/:id", controllers.UserSessionDelete)
		self.GET("/messages/:id", controllers.UserMessages)
		self.POST("/chat", controllers.UserChatSend)

		self.GET("/settings", controllers.UserSettingsGet)
		self.PUT("/settings", controllers.UserSettingsPut)

		self.GET("/status", controllers.UserStatus)
		self.GET("/create-qr-code", controllers.GenerateQRCode)
		if s.notifyWS && s.hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}

	return engine
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting companion API on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}
