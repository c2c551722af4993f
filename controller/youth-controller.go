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

type YouthController struct {
	youthService *service.YouthService
	userService  *service.UserService
}

func NewYouthController(db *gorm.DB) *YouthController {
	return &YouthController{
		youthService: service.NewYouthService(db),
		userService:  service.NewUserService(db),
	}
}

func setupYouthController(db *gorm.DB) []RouteInfo {
	e := NewYouthController(db)
	basePath := "/youths"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getYouthsHandler(), Authenticated: true},
		{Method: "POST", Path: "", HandlerFunc: e.createYouthHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "PATCH", Path: "/:youth_id", HandlerFunc: e.updateYouthHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:youth_id", HandlerFunc: e.deleteYouthHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "PUT", Path: "/:youth_id/parents/:user_id", HandlerFunc: e.linkParentHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "DELETE", Path: "/:youth_id/parents/:user_id", HandlerFunc: e.unlinkParentHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Fetches the youth roster
// @Tags youth
// @Produce json
// @Success 200 {array} YouthResponse
// @Router /youths [get]
func (e *YouthController) getYouthsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		youths, err := e.youthService.GetAllYouths()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(youths, toYouthResponse))
	}
}

// @Description Creates a youth roster entry
// @Tags youth
// @Accept json
// @Produce json
// @Param youth body YouthCreate true "Youth to create"
// @Success 201 {object} YouthResponse
// @Router /youths [post]
func (e *YouthController) createYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var youthCreate YouthCreate
		if err := c.BindJSON(&youthCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		youth, err := e.youthService.SaveYouth(actor, youthCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toYouthResponse(youth))
	}
}

// @Description Updates a youth roster entry
// @Tags youth
// @Accept json
// @Produce json
// @Param youth body YouthCreate true "Youth changes"
// @Success 200 {object} YouthResponse
// @Router /youths/{youth_id} [patch]
func (e *YouthController) updateYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		youthId, err := strconv.Atoi(c.Param("youth_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		var youthCreate YouthCreate
		if err := c.BindJSON(&youthCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		youth := youthCreate.toModel()
		youth.Id = youthId
		youth, err = e.youthService.SaveYouth(actor, youth)
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toYouthResponse(youth))
	}
}

// @Description Deletes a youth roster entry
// @Tags youth
// @Success 200
// @Router /youths/{youth_id} [delete]
func (e *YouthController) deleteYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		youthId, err := strconv.Atoi(c.Param("youth_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.youthService.DeleteYouth(actor, youthId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, gin.H{})
	}
}

// @Description Links a parent to a youth
// @Tags youth
// @Success 200
// @Router /youths/{youth_id}/parents/{user_id} [put]
func (e *YouthController) linkParentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		youthId, err := strconv.Atoi(c.Param("youth_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.youthService.LinkParent(actor, userId, youthId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, gin.H{})
	}
}

// @Description Unlinks a parent from a youth
// @Tags youth
// @Success 200
// @Router /youths/{youth_id}/parents/{user_id} [delete]
func (e *YouthController) unlinkParentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		youthId, err := strconv.Atoi(c.Param("youth_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		actor, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		if err := e.youthService.UnlinkParent(actor, userId, youthId); err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, gin.H{})
	}
}

type YouthCreate struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Den       string     `json:"den"`
}

func (y YouthCreate) toModel() *repository.Youth {
	return &repository.Youth{
		FirstName: y.FirstName,
		LastName:  y.LastName,
		BirthDate: y.BirthDate,
		Den:       y.Den,
	}
}

type YouthResponse struct {
	Id        int        `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Den       string     `json:"den"`
}

func toYouthResponse(youth *repository.Youth) *YouthResponse {
	if youth == nil {
		return nil
	}
	return &YouthResponse{
		Id:        youth.Id,
		FirstName: youth.FirstName,
		LastName:  youth.LastName,
		BirthDate: youth.BirthDate,
		Den:       youth.Den,
	}
}
