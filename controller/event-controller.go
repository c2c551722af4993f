package controller

import (
	"strconv"
	"time"

	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/service"
	"scoutroster/utils"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventController struct {
	eventService *service.EventService
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		eventService: service.NewEventService(db),
	}
}

func setupEventController(db *gorm.DB, cacheStore persistence.CacheStore) []RouteInfo {
	e := NewEventController(db)
	basePath := "/events"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: cache.CachePage(cacheStore, time.Minute, e.getEventsHandler())},
		{Method: "POST", Path: "", HandlerFunc: e.createEventHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/:event_id", HandlerFunc: e.getEventHandler()},
		{Method: "PATCH", Path: "/:event_id", HandlerFunc: e.updateEventHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "DELETE", Path: "/:event_id", HandlerFunc: e.deleteEventHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Fetches all events
// @Tags event
// @Produce json
// @Success 200 {array} EventResponse
// @Router /events [get]
func (e *EventController) getEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := e.eventService.GetAllEvents()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(events, toEventResponse))
	}
}

// @Description Fetches one event
// @Tags event
// @Produce json
// @Success 200 {object} EventResponse
// @Router /events/{event_id} [get]
func (e *EventController) getEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		event, err := e.eventService.GetEventById(eventId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toEventResponse(event))
	}
}

// @Description Creates an event
// @Tags event
// @Accept json
// @Produce json
// @Param event body EventCreate true "Event to create"
// @Success 201 {object} EventResponse
// @Router /events [post]
func (e *EventController) createEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var eventCreate EventCreate
		if err := c.BindJSON(&eventCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		event, err := e.eventService.CreateEvent(eventCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toEventResponse(event))
	}
}

// @Description Updates an event
// @Tags event
// @Accept json
// @Produce json
// @Param event body EventCreate true "Event changes"
// @Success 200 {object} EventResponse
// @Router /events/{event_id} [patch]
func (e *EventController) updateEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var eventCreate EventCreate
		if err := c.BindJSON(&eventCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		event, err := e.eventService.UpdateEvent(eventId, eventCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toEventResponse(event))
	}
}

// @Description Deletes an event
// @Tags event
// @Success 200
// @Router /events/{event_id} [delete]
func (e *EventController) deleteEventHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.eventService.DeleteEvent(eventId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{})
	}
}

type EventCreate struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (e EventCreate) toModel() *repository.Event {
	return &repository.Event{
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
	}
}

type EventResponse struct {
	Id          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func toEventResponse(event *repository.Event) *EventResponse {
	if event == nil {
		return nil
	}
	return &EventResponse{
		Id:          event.Id,
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
	}
}
