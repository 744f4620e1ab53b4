package handlers

import (
	"net/http"

	"github.com/anonto42/connectin/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles HTTP requests related to connections
type ConnectionHandler struct {
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections/request/:userId", h.SendConnectionRequest)
	g.PUT("/connections/accept/:requestId", h.AcceptConnectionRequest)
	g.PUT("/connections/reject/:requestId", h.RejectConnectionRequest)
	g.GET("/connections/requests", h.GetConnectionRequests)
	g.GET("/connections/status/:userId", h.GetConnectionStatus)
	g.GET("/connections", h.GetUserConnections)
	g.DELETE("/connections/:userId", h.RemoveConnection)
}

func (h *ConnectionHandler) SendConnectionRequest(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	req, err := h.connections.SendRequest(c.Request().Context(), userID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Connection request sent successfully", "request": req})
}

func (h *ConnectionHandler) AcceptConnectionRequest(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	requestID, err := parseIDParam(c, "requestId")
	if err != nil {
		return err
	}

	req, err := h.connections.AcceptRequest(c.Request().Context(), requestID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection accepted successfully", "request": req})
}

func (h *ConnectionHandler) RejectConnectionRequest(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	requestID, err := parseIDParam(c, "requestId")
	if err != nil {
		return err
	}

	req, err := h.connections.RejectRequest(c.Request().Context(), requestID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection request rejected", "request": req})
}

// GetConnectionRequests lists the pending requests addressed to the current user
func (h *ConnectionHandler) GetConnectionRequests(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	requests, err := h.connections.ListPendingRequests(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *ConnectionHandler) GetConnectionStatus(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	status, err := h.connections.GetStatus(c.Request().Context(), userID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (h *ConnectionHandler) GetUserConnections(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	connections, err := h.connections.ListConnections(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, connections)
}

func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	otherID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.connections.RemoveConnection(c.Request().Context(), userID, otherID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection removed successfully"})
}
