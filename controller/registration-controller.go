package controller

import (
	"strconv"

	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/service"
	"scoutroster/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegistrationController struct {
	registrationService *service.RegistrationService
	participantService  *service.ParticipantService
	userService         *service.UserService
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{
		registrationService: service.NewRegistrationService(db),
		participantService:  service.NewParticipantService(db),
		userService:         service.NewUserService(db),
	}
}

func setupRegistrationController(db *gorm.DB) []RouteInfo {
	e := NewRegistrationController(db)
	basePath := "/events/:event_id/registration"
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.submitRegistrationHandler(), Authenticated: true},
		{Method: "GET", Path: "", HandlerFunc: e.getRegistrationDataHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "GET", Path: "/participants/:rsvp_id", HandlerFunc: e.getRsvpParticipantsHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Submits registration answers as a flat form; keys follow field_{fieldId}_{participantType}_{participantId}
// @Tags registration
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200
// @Router /events/{event_id}/registration [post]
func (e *RegistrationController) submitRegistrationHandler() gin.HandlerFunc {
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
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		form := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				form[key] = values[0]
			}
		}
		if err := e.registrationService.Submit(actor, eventId, form); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, gin.H{})
	}
}

// @Description Fetches the registration tabulation for an event
// @Tags registration
// @Produce json
// @Success 200 {object} RegistrationTableResponse
// @Router /events/{event_id}/registration [get]
func (e *RegistrationController) getRegistrationDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		table, err := e.registrationService.GetRegistrationDataForEvent(eventId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toRegistrationTableResponse(table))
	}
}

// @Description Fetches the participants selected on one RSVP, with any values already stored for them
// @Tags registration
// @Produce json
// @Success 200 {object} RsvpParticipantsResponse
// @Router /events/{event_id}/registration/participants/{rsvp_id} [get]
func (e *RegistrationController) getRsvpParticipantsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, err := strconv.Atoi(c.Param("event_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		rsvpId, err := strconv.Atoi(c.Param("rsvp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participants, err := e.participantService.ResolveParticipants(eventId, rsvpId)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		refs := utils.Map(participants, func(p *service.Participant) repository.ParticipantRef {
			return p.Ref()
		})
		values, err := e.registrationService.GetFieldDataForParticipants(refs)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, RsvpParticipantsResponse{
			Participants: utils.Map(participants, toParticipantResponse),
			FieldData:    values,
		})
	}
}

type ParticipantResponse struct {
	ParticipantType string `json:"participant_type"`
	ParticipantId   int    `json:"participant_id"`
	DisplayName     string `json:"display_name"`
	LastName        string `json:"last_name"`
	FirstName       string `json:"first_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
}

func toParticipantResponse(participant *service.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ParticipantType: string(participant.Type),
		ParticipantId:   participant.Id,
		DisplayName:     participant.DisplayName(),
		LastName:        participant.LastName,
		FirstName:       participant.FirstName,
		Phone:           participant.Phone,
		Email:           participant.Email,
	}
}

type RsvpParticipantsResponse struct {
	Participants []*ParticipantResponse `json:"participants"`
	FieldData    map[string]string      `json:"field_data"`
}

type RegistrationRowResponse struct {
	Participant *ParticipantResponse `json:"participant"`
	FieldData   map[int]string       `json:"field_data"`
}

type RegistrationTableResponse struct {
	Fields []*FieldDefinitionResponse `json:"fields"`
	Rows   []*RegistrationRowResponse `json:"rows"`
}

func toRegistrationTableResponse(table *service.RegistrationTable) *RegistrationTableResponse {
	return &RegistrationTableResponse{
		Fields: utils.Map(table.Fields, toFieldDefinitionResponse),
		Rows: utils.Map(table.Rows, func(row *service.RegistrationRow) *RegistrationRowResponse {
			return &RegistrationRowResponse{
				Participant: toParticipantResponse(row.Participant),
				FieldData:   row.FieldData,
			}
		}),
	}
}
