package controller

import (
	"strconv"
	"time"

	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/service"
	"scoutroster/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RsvpController struct {
	rsvpService *service.RsvpService
	userService *service.UserService
}

func NewRsvpController(db *gorm.DB) *RsvpController {
	return &RsvpController{
		rsvpService: service.NewRsvpService(db),
		userService: service.NewUserService(db),
	}
}

func setupRsvpController(db *gorm.DB) []RouteInfo {
	e := NewRsvpController(db)
	basePath := "/events/:event_id/rsvps"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getEventRsvpsHandler(), Authenticated: true},
		{Method: "GET", Path: "/self", HandlerFunc: e.getPersonalRsvpHandler(), Authenticated: true},
		{Method: "PUT", Path: "/self", HandlerFunc: e.saveRsvpHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/self", HandlerFunc: e.deleteRsvpHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Fetches all RSVPs for an event
// @Tags rsvp
// @Produce json
// @Success 200 {array} RsvpResponse
// @Router /events/{event_id}/rsvps [get]
func (e *RsvpController) getEventRsvpsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		rsvps, err := e.rsvpService.GetRsvpsForEvent(eventId)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(rsvps, toRsvpResponse))
	}
}

// @Description Fetches the authenticated user's RSVP for an event
// @Tags rsvp
// @Produce json
// @Success 200 {object} RsvpResponse
// @Router /events/{event_id}/rsvps/self [get]
func (e *RsvpController) getPersonalRsvpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		rsvp, err := e.rsvpService.GetRsvpForUser(user.Id, eventId)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "No rsvp"})
			} else {
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(200, toRsvpResponse(rsvp))
	}
}

// @Description Creates or replaces the authenticated user's RSVP
// @Tags rsvp
// @Accept json
// @Produce json
// @Param rsvp body RsvpCreate true "RSVP"
// @Success 201 {object} RsvpResponse
// @Router /events/{event_id}/rsvps/self [put]
func (e *RsvpController) saveRsvpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var rsvpCreate RsvpCreate
		if err := c.BindJSON(&rsvpCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		members := utils.Map(rsvpCreate.Members, func(m RsvpMemberCreate) *repository.RsvpMember {
			return &repository.RsvpMember{
				ParticipantType: repository.ParticipantType(m.ParticipantType),
				ParticipantId:   m.ParticipantId,
			}
		})
		rsvp, err := e.rsvpService.SaveRsvp(user, eventId, repository.RsvpAnswer(rsvpCreate.Answer), rsvpCreate.Comment, members)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toRsvpResponse(rsvp))
	}
}

// @Description Removes the authenticated user's RSVP
// @Tags rsvp
// @Success 200
// @Router /events/{event_id}/rsvps/self [delete]
func (e *RsvpController) deleteRsvpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.rsvpService.RemoveRsvp(user.Id, eventId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{})
	}
}

type RsvpMemberCreate struct {
	ParticipantType string `json:"participant_type"`
	ParticipantId   int    `json:"participant_id"`
}

type RsvpCreate struct {
	Answer  string             `json:"answer"`
	Comment *string            `json:"comment"`
	Members []RsvpMemberCreate `json:"members"`
}

type RsvpMemberResponse struct {
	ParticipantType string `json:"participant_type"`
	ParticipantId   int    `json:"participant_id"`
}

type RsvpResponse struct {
	Id        int                   `json:"id"`
	EventId   int                   `json:"event_id"`
	User      *UserResponse         `json:"user"`
	Answer    string                `json:"answer"`
	Comment   *string               `json:"comment"`
	Timestamp time.Time             `json:"timestamp"`
	Members   []*RsvpMemberResponse `json:"members"`
}

func toRsvpResponse(rsvp *repository.Rsvp) *RsvpResponse {
	if rsvp == nil {
		return nil
	}
	return &RsvpResponse{
		Id:        rsvp.Id,
		EventId:   rsvp.EventId,
		User:      toUserResponse(rsvp.User),
		Answer:    string(rsvp.Answer),
		Comment:   rsvp.Comment,
		Timestamp: rsvp.Timestamp,
		Members: utils.Map(rsvp.Members, func(m *repository.RsvpMember) *RsvpMemberResponse {
			return &RsvpMemberResponse{
				ParticipantType: string(m.ParticipantType),
				ParticipantId:   m.ParticipantId,
			}
		}),
	}
}
