package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-gonic/gin"
)

type createBoxPayload struct {
	BoxNumber *int   `json:"box_number"`
	Owner     string `json:"owner"`
	Room      string `json:"room"`
	Contents  string `json:"contents"`
	Status    string `json:"status"`
}

type updateBoxPayload struct {
	BoxNumber *int    `json:"box_number"`
	Owner     *string `json:"owner"`
	Room      *string `json:"room"`
	Contents  *string `json:"contents"`
	Status    *string `json:"status"`
}

type updateBoxStatusPayload struct {
	Status string `json:"status"`
}

type updateBoxPositionPayload struct {
	Depth      string `json:"depth"`
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	Status     string `json:"status"`
}

func (h *httpHandler) handleListBoxes(c *gin.Context) {
	boxes, err := h.store.ListBoxes(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, "list_boxes", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayloads(boxes))
}

// handleCreateBox accepts any status string: unknown values are coerced to
// packed rather than rejected.
func (h *httpHandler) handleCreateBox(c *gin.Context) {
	var request createBoxPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.BoxNumber == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	box, err := h.store.CreateBox(c.Request.Context(), inventory.NewBox{
		BoxNumber: *request.BoxNumber,
		Owner:     request.Owner,
		Room:      request.Room,
		Contents:  request.Contents,
		Status:    request.Status,
	})
	if err != nil {
		h.renderStoreError(c, "create_box", err)
		return
	}
	c.JSON(http.StatusCreated, toBoxPayload(box))
}

func (h *httpHandler) handleGetBox(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	box, err := h.store.GetBox(c.Request.Context(), boxID)
	if err != nil {
		h.renderStoreError(c, "get_box", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}

func (h *httpHandler) handleGetBoxByNumber(c *gin.Context) {
	number, err := strconv.Atoi(strings.TrimSpace(c.Param("number")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_box_number"})
		return
	}
	box, err := h.store.GetBoxByNumber(c.Request.Context(), number)
	if err != nil {
		h.renderStoreError(c, "get_box_by_number", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}

func (h *httpHandler) handleUpdateBox(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var request updateBoxPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	box, err := h.store.UpdateBox(c.Request.Context(), boxID, inventory.BoxPatch{
		BoxNumber: request.BoxNumber,
		Owner:     request.Owner,
		Room:      request.Room,
		Contents:  request.Contents,
		Status:    request.Status,
	})
	if err != nil {
		h.renderStoreError(c, "update_box", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}

func (h *httpHandler) handleDeleteBox(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteBox(c.Request.Context(), boxID); err != nil {
		h.renderStoreError(c, "delete_box", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleUpdateBoxStatus is the strict counterpart of box creation: a status
// outside the known set is a client error here, not something to coerce.
func (h *httpHandler) handleUpdateBoxStatus(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var request updateBoxStatusPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	status, err := inventory.ParseStatus(request.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		return
	}

	box, err := h.store.UpdateBoxStatus(c.Request.Context(), boxID, status)
	if err != nil {
		h.renderStoreError(c, "update_box_status", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}

// handleUpdateBoxPosition validates the grid coordinate strictly but hands an
// accompanying status to the store exactly as supplied.
func (h *httpHandler) handleUpdateBoxPosition(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var request updateBoxPositionPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	position, err := inventory.NewPosition(request.Depth, request.Horizontal, request.Vertical)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_position"})
		return
	}
	var status *inventory.Status
	if request.Status != "" {
		value := inventory.Status(request.Status)
		status = &value
	}

	box, err := h.store.UpdateBoxPosition(c.Request.Context(), boxID, position, status)
	if err != nil {
		h.renderStoreError(c, "update_box_position", err)
		return
	}
	c.JSON(http.StatusOK, toBoxPayload(box))
}
