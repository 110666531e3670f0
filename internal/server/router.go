package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDContextKey = "movemate_request_id"
	requestIDHeader     = "X-Request-ID"
)

var (
	errMissingStore      = errors.New("inventory store dependency required")
	errMissingDispatcher = errors.New("activity dispatcher dependency required")
)

type Dependencies struct {
	Store       inventory.Store
	Dispatcher  *ActivityDispatcher
	Logger      *zap.Logger
	CORSOrigins []string
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errMissingStore
	}
	if deps.Dispatcher == nil {
		return nil, errMissingDispatcher
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}

	router.GET("/healthz", handler.handleHealthz)

	api := router.Group("/api")
	api.GET("/boxes", handler.handleListBoxes)
	api.POST("/boxes", handler.handleCreateBox)
	api.GET("/boxes/export.csv", handler.handleExportBoxesCSV)
	api.GET("/boxes/labels.pdf", handler.handleBoxLabelsPDF)
	api.GET("/boxes/number/:number", handler.handleGetBoxByNumber)
	api.GET("/boxes/:id", handler.handleGetBox)
	api.PUT("/boxes/:id", handler.handleUpdateBox)
	api.DELETE("/boxes/:id", handler.handleDeleteBox)
	api.PUT("/boxes/:id/status", handler.handleUpdateBoxStatus)
	api.PUT("/boxes/:id/position", handler.handleUpdateBoxPosition)
	api.GET("/boxes/:id/activities", handler.handleListBoxActivities)
	api.GET("/boxes/:id/qrcode", handler.handleGetBoxQRCode)
	api.GET("/boxes/:id/qrcode.png", handler.handleBoxQRCodePNG)
	api.GET("/scan/:data", handler.handleScan)
	api.GET("/truck", handler.handleTruckGrid)
	api.GET("/owners", handler.handleListOwners)
	api.POST("/owners", handler.handleCreateOwner)
	api.GET("/owners/:id", handler.handleGetOwner)
	api.PUT("/owners/:id", handler.handleUpdateOwner)
	api.DELETE("/owners/:id", handler.handleDeleteOwner)
	api.GET("/activities", handler.handleListActivities)
	api.GET("/activities/stream", handler.handleActivityStream)

	return router, nil
}

type httpHandler struct {
	store      inventory.Store
	dispatcher *ActivityDispatcher
	logger     *zap.Logger
}

func (h *httpHandler) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestIDMiddleware tags every request with an identifier so log lines can
// be correlated with responses. Caller-provided identifiers are echoed back.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return value, true
}

func (h *httpHandler) renderStoreError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, inventory.ErrOwnerInUse):
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is still assigned to one or more boxes"})
	default:
		h.logger.Error("inventory operation failed",
			zap.String("operation", operation),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
