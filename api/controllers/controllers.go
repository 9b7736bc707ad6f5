package controllers

import (
	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/refresh"
	"github.com/nulltale/nulltale-go/upload"
)

// Package-level collaborators, wired once at startup by api.Server.
var (
	backendGateway     *gateway.Client
	uploadCoordinator  *upload.Coordinator
	refreshCoordinator *refresh.Coordinator
)

// Setup wires the controllers to their collaborators.
func Setup(gw *gateway.Client, up *upload.Coordinator, rf *refresh.Coordinator) {
	backendGateway = gw
	uploadCoordinator = up
	refreshCoordinator = rf
}
