package controllers

import (
	"net/http"

	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/services"

	"github.com/gin-gonic/gin"
)

// SyncController handles the shipment delivery-status sync endpoint.
type SyncController struct {
	sync services.SyncService
}

// NewSyncController creates a new SyncController.
func NewSyncController(sync services.SyncService) *SyncController {
	return &SyncController{sync: sync}
}

// SyncShipments handles POST /shipments/sync. Invoked by cron with the shared
// secret or manually from the back office.
func (sc *SyncController) SyncShipments(ctx *gin.Context) {
	var req models.SyncRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
	}

	results, svcErr := sc.sync.SyncShipments(ctx.Request.Context(), req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"synced":  len(results),
		"results": results,
	})
}
