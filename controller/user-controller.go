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

type UserController struct {
	userService *service.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		userService: service.NewUserService(db),
	}
}

func setupUserController(db *gorm.DB) []RouteInfo {
	e := NewUserController(db)
	basePath := "/users"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getUsersHandler(), Authenticated: true},
		{Method: "GET", Path: "/self", HandlerFunc: e.getSelfHandler(), Authenticated: true},
		{Method: "POST", Path: "", HandlerFunc: e.createUserHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "PATCH", Path: "/:user_id", HandlerFunc: e.updateUserHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
		{Method: "DELETE", Path: "/:user_id", HandlerFunc: e.deleteUserHandler(), Authenticated: true, RequiredRoles: []repository.Permission{repository.PermissionAdmin}},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Fetches the adult roster
// @Tags user
// @Produce json
// @Success 200 {array} UserResponse
// @Router /users [get]
func (e *UserController) getUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := e.userService.GetAllUsers()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, utils.Map(users, toUserResponse))
	}
}

// @Description Fetches the authenticated user
// @Tags user
// @Produce json
// @Success 200 {object} UserResponse
// @Router /users/self [get]
func (e *UserController) getSelfHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthCookie(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}

// @Description Creates a roster entry
// @Tags user
// @Accept json
// @Produce json
// @Param user body UserCreate true "User to create"
// @Success 201 {object} UserResponse
// @Router /users [post]
func (e *UserController) createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userCreate UserCreate
		if err := c.BindJSON(&userCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.SaveUser(userCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(201, toUserResponse(user))
	}
}

// @Description Updates a roster entry
// @Tags user
// @Accept json
// @Produce json
// @Param user body UserCreate true "User changes"
// @Success 200 {object} UserResponse
// @Router /users/{user_id} [patch]
func (e *UserController) updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var userCreate UserCreate
		if err := c.BindJSON(&userCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.UpdateUser(userId, userCreate.toModel())
		if err != nil {
			app_error.Abort(c, err)
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}

// @Description Deletes a roster entry
// @Tags user
// @Success 200
// @Router /users/{user_id} [delete]
func (e *UserController) deleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.userService.DeleteUser(userId); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{})
	}
}

type UserCreate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (u UserCreate) toModel() *repository.User {
	return &repository.User{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Permissions: pq.StringArray{},
	}
}

type UserResponse struct {
	Id        int      `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	IsAdmin   bool     `json:"is_admin"`
}

func toUserResponse(user *repository.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		Id:        user.Id,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		IsAdmin:   user.IsAdmin(),
	}
}
