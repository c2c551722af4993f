package controller

import (
	"strconv"

	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/service"
	"scoutroster/utils"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type FieldDefinitionController struct {
	fieldDefinitionService *service.FieldDefinitionService
	userService            *service.UserService
}

func NewFieldDefinitionController(db *gorm.DB) *FieldDefinitionController {
	return &FieldDefinitionController{
		fieldDefinitionService: service.NewFieldDefinitionService(db),
		userService:            service.NewUserService(db),
	}
}

func setupFieldDefinitionController(db *gorm.DB) []RouteInfo {
	e := NewFieldDefinitionController(db)
	basePath := "/events/:event_id/fields"
	admin := []repository.Permission{repository.PermissionAdmin}
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getFieldDefinitionsHandler(), Authenticated: true},
		{Method: "POST", Path: "", HandlerFunc: e.createFieldDefinitionHandler(), Authenticated: true, RequiredRoles: admin},
		{Method: "GET", Path: "/next-sequence", HandlerFunc: e.getNextSequenceHandler(), Authenticated: true, RequiredRoles: admin},
		{Method: "PATCH", Path: "/:field_id", HandlerFunc: e.updateFieldDefinitionHandler(), Authenticated: true, RequiredRoles: admin},
		{Method: "DELETE", Path: "/:field_id", HandlerFunc: e.deleteFieldDefinitionHandler(), Authenticated: true, RequiredRoles: admin},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Fetches an event's registration fields in display order
// @Tags field
// @Produce json
// @Success 200 {array} FieldDefinitionResponse
// @Router /events/{event_id}/fields [get]
func (e *FieldDefinitionController) getFieldDefinitionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		definitions, err := e.fieldDefinitionService.GetFieldDefinitionsForEvent(eventId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(definitions, toFieldDefinitionResponse))
	}
}

// @Description Suggests the sequence number for the next field
// @Tags field
// @Produce json
// @Success 200 {object} NextSequenceResponse
// @Router /events/{event_id}/fields/next-sequence [get]
func (e *FieldDefinitionController) getNextSequenceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		maxSequence, err := e.fieldDefinitionService.GetMaxSequenceNumber(eventId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, NextSequenceResponse{SequenceNumber: maxSequence + 10})
	}
}

// @Description Creates a registration field
// @Tags field
// @Accept json
// @Produce json
// @Param field body FieldDefinitionCreate true "Field to create"
// @Success 201 {object} FieldDefinitionResponse
// @Router /events/{event_id}/fields [post]
func (e *FieldDefinitionController) createFieldDefinitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var fieldCreate FieldDefinitionCreate
		if err := c.BindJSON(&fieldCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		definition := fieldCreate.toModel()
		definition.EventId = eventId
		definition, err = e.fieldDefinitionService.CreateFieldDefinition(actor, definition)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toFieldDefinitionResponse(definition))
	}
}

// @Description Updates a registration field
// @Tags field
// @Accept json
// @Produce json
// @Param field body FieldDefinitionCreate true "Field changes"
// @Success 200 {object} FieldDefinitionResponse
// @Router /events/{event_id}/fields/{field_id} [patch]
func (e *FieldDefinitionController) updateFieldDefinitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fieldId, err := strconv.Atoi(c.Param("field_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var fieldCreate FieldDefinitionCreate
		if err := c.BindJSON(&fieldCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		matched, err := e.fieldDefinitionService.UpdateFieldDefinition(actor, fieldId, fieldCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		if !matched {
			c.JSON(404, gin.H{"error": "Field definition not found"})
			return
		}
		definition, err := e.fieldDefinitionService.GetFieldDefinitionById(fieldId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toFieldDefinitionResponse(definition))
	}
}

// @Description Deletes a registration field and its collected data
// @Tags field
// @Success 200 {object} DeleteCountResponse
// @Router /events/{event_id}/fields/{field_id} [delete]
func (e *FieldDefinitionController) deleteFieldDefinitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fieldId, err := strconv.Atoi(c.Param("field_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		count, err := e.fieldDefinitionService.DeleteFieldDefinition(actor, fieldId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, DeleteCountResponse{Deleted: count})
	}
}

type FieldDefinitionCreate struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Scope          string   `json:"scope"`
	FieldType      string   `json:"field_type"`
	Required       bool     `json:"required"`
	Options        []string `json:"options"`
	SequenceNumber int      `json:"sequence_number"`
}

func (f FieldDefinitionCreate) toModel() *repository.FieldDefinition {
	return &repository.FieldDefinition{
		Name:           f.Name,
		Description:    f.Description,
		Scope:          repository.FieldScope(f.Scope),
		FieldType:      repository.FieldType(f.FieldType),
		Required:       f.Required,
		Options:        pq.StringArray(f.Options),
		SequenceNumber: f.SequenceNumber,
	}
}

type FieldDefinitionResponse struct {
	Id             int      `json:"id"`
	EventId        int      `json:"event_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Scope          string   `json:"scope"`
	FieldType      string   `json:"field_type"`
	Required       bool     `json:"required"`
	Options        []string `json:"options"`
	SequenceNumber int      `json:"sequence_number"`
}

func toFieldDefinitionResponse(definition *repository.FieldDefinition) *FieldDefinitionResponse {
	if definition == nil {
		return nil
	}
	return &FieldDefinitionResponse{
		Id:             definition.Id,
		EventId:        definition.EventId,
		Name:           definition.Name,
		Description:    definition.Description,
		Scope:          string(definition.Scope),
		FieldType:      string(definition.FieldType),
		Required:       definition.Required,
		Options:        definition.Options,
		SequenceNumber: definition.SequenceNumber,
	}
}

type NextSequenceResponse struct {
	SequenceNumber int `json:"sequence_number"`
}

type DeleteCountResponse struct {
	Deleted int `json:"deleted"`
}
