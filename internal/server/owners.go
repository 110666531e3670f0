package server

import (
	"net/http"
	"strings"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-gonic/gin"
)

type createOwnerPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateOwnerPayload struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (h *httpHandler) handleListOwners(c *gin.Context) {
	owners, err := h.store.ListOwners(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, "list_owners", err)
		return
	}
	payloads := make([]ownerPayload, 0, len(owners))
	for _, owner := range owners {
		payloads = append(payloads, toOwnerPayload(owner))
	}
	c.JSON(http.StatusOK, payloads)
}

func (h *httpHandler) handleCreateOwner(c *gin.Context) {
	var request createOwnerPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	owner, err := h.store.CreateOwner(c.Request.Context(), inventory.NewOwner{
		Name:  request.Name,
		Color: request.Color,
	})
	if err != nil {
		h.renderStoreError(c, "create_owner", err)
		return
	}
	c.JSON(http.StatusCreated, toOwnerPayload(owner))
}

func (h *httpHandler) handleGetOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	owner, err := h.store.GetOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.renderStoreError(c, "get_owner", err)
		return
	}
	c.JSON(http.StatusOK, toOwnerPayload(owner))
}

func (h *httpHandler) handleUpdateOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var request updateOwnerPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if request.Name != nil && strings.TrimSpace(*request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	owner, err := h.store.UpdateOwner(c.Request.Context(), ownerID, inventory.OwnerPatch{
		Name:  request.Name,
		Color: request.Color,
	})
	if err != nil {
		h.renderStoreError(c, "update_owner", err)
		return
	}
	c.JSON(http.StatusOK, toOwnerPayload(owner))
}

// handleDeleteOwner relies on the store to refuse deletion while any box still
// names the owner; that refusal surfaces as a 400 with an explanation.
func (h *httpHandler) handleDeleteOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteOwner(c.Request.Context(), ownerID); err != nil {
		h.renderStoreError(c, "delete_owner", err)
		return
	}
	c.Status(http.StatusNoContent)
}
