package controller

import (
	"fmt"
	"strconv"

	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExportController struct {
	exportService *service.ExportService
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{
		exportService: service.NewExportService(db),
	}
}

func setupExportController(db *gorm.DB) []RouteInfo {
	e := NewExportController(db)
	routes := []RouteInfo{
		{Method: "GET", Path: "/events/:event_id/registration/export", HandlerFunc: e.exportRegistrationHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	return routes
}

// @Description Downloads the registration tabulation as CSV
// @Tags registration
// @Produce text/csv
// @Success 200
// @Router /events/{event_id}/registration/export [get]
func (e *ExportController) exportRegistrationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		export, err := e.exportService.ExportRegistrationCSV(eventId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Data(200, "text/csv; charset=utf-8", export.Content)
	}
}
