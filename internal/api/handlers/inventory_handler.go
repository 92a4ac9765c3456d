// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boltline/purchasing-dash/internal/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// GetInventory returns the reconciled snapshot. With ?reorder=true each item
// carries its reorder signals, computed on demand.
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	withReorder, _ := strconv.ParseBool(c.DefaultQuery("reorder", "false"))

	if withReorder {
		items, err := h.inventory.SnapshotWithReorder()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "payload": items})
		return
	}

	items, err := h.inventory.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "payload": items})
}

// GetReorder returns reorder info for one reconciled item by composite id.
func (h *InventoryHandler) GetReorder(c *gin.Context) {
	id := c.Param("id")
	info, ok := h.inventory.ReorderFor(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reconciled item with id " + id})
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetLowStock returns reorder-needed items grouped by vendor.
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	groups, err := h.inventory.LowStockByVendor()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "payload": groups})
}

// GetSummary returns the dashboard header stats.
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	summary, err := h.inventory.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOpenPO returns the open purchase order quantity for an item.
func (h *InventoryHandler) GetOpenPO(c *gin.Context) {
	item := c.Param("item")
	c.JSON(http.StatusOK, gin.H{
		"item":     item,
		"open_qty": h.inventory.OpenPOQuantity(item),
	})
}

// GetVendors returns the vendor directory with lead times.
func (h *InventoryHandler) GetVendors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vendors": h.inventory.VendorDirectory()})
}
