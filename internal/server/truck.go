package server

import (
	"net/http"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-gonic/gin"
)

type truckGridPayload struct {
	Cells         []truckCellPayload `json:"cells"`
	OccupiedCells int                `json:"occupied_cells"`
	LoadedBoxes   int                `json:"loaded_boxes"`
}

type truckCellPayload struct {
	Position   string                `json:"position"`
	Depth      string                `json:"depth"`
	Horizontal string                `json:"horizontal"`
	Vertical   string                `json:"vertical"`
	Boxes      []truckCellBoxPayload `json:"boxes"`
}

type truckCellBoxPayload struct {
	ID        int64  `json:"id"`
	BoxNumber int    `json:"box_number"`
	Owner     string `json:"owner"`
	Status    string `json:"status"`
}

// handleTruckGrid projects the box list onto the 27-cell loading grid. A box
// counts as in the truck while it holds a position, whatever its status says.
// Cells carry every occupant so crowding stays visible.
func (h *httpHandler) handleTruckGrid(c *gin.Context) {
	boxes, err := h.store.ListBoxes(c.Request.Context())
	if err != nil {
		h.renderStoreError(c, "truck_grid", err)
		return
	}

	occupants := make(map[string][]truckCellBoxPayload)
	loaded := 0
	for _, box := range boxes {
		if box.Position == nil {
			continue
		}
		loaded++
		cell := box.Position.String()
		occupants[cell] = append(occupants[cell], truckCellBoxPayload{
			ID:        box.ID,
			BoxNumber: box.BoxNumber,
			Owner:     box.Owner,
			Status:    string(box.Status),
		})
	}

	grid := truckGridPayload{
		Cells:       make([]truckCellPayload, 0, 27),
		LoadedBoxes: loaded,
	}
	for _, position := range inventory.AllPositions() {
		boxesInCell := occupants[position.String()]
		if boxesInCell == nil {
			boxesInCell = []truckCellBoxPayload{}
		}
		cell := truckCellPayload{
			Position:   position.String(),
			Depth:      string(position.Depth),
			Horizontal: string(position.Horizontal),
			Vertical:   string(position.Vertical),
			Boxes:      boxesInCell,
		}
		if len(cell.Boxes) > 0 {
			grid.OccupiedCells++
		}
		grid.Cells = append(grid.Cells, cell)
	}
	c.JSON(http.StatusOK, grid)
}
