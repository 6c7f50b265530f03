package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/token"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService service.UserService
	issuer      *token.Issuer
}

func NewAuthController(g *gin.RouterGroup, issuer *token.Issuer) *AuthController {
	a := &AuthController{issuer: issuer}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)

	authed := g.Group("", middleware.BearerAuth(a.issuer))
	authed.POST("/verify", a.verify)
	authed.GET("/profile", a.profile)
	authed.POST("/change-password", a.changePassword)
	authed.GET("/users", middleware.RoleRequired("Access denied", model.RoleAdmin), a.users)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, entity.Msg{Error: msg})
}

// bind decodes the JSON body into obj. An empty body leaves obj zero.
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			fail(c, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return true
}

func (a *AuthController) serviceError(c *gin.Context, action string, err error) {
	var ie *service.InputError
	switch {
	case errors.As(err, &ie):
		fail(c, http.StatusBadRequest, ie.Msg)
	case errors.Is(err, service.ErrUserExists):
		fail(c, http.StatusBadRequest, "Register number already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid register number or password")
	case errors.Is(err, service.ErrInactive):
		fail(c, http.StatusForbidden, "Account is inactive")
	case errors.Is(err, service.ErrWrongPassword):
		fail(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, "User not found")
	default:
		logger.Warningf("%s failed for %s: %v", action, c.ClientIP(), err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func summary(u *model.User) entity.UserSummary {
	return entity.UserSummary{
		Id:     u.Id,
		Name:   u.Name,
		Rgno:   u.Rgno,
		Role:   string(u.Role),
		RollNo: u.RollNo,
	}
}

func (a *AuthController) register(c *gin.Context) {
	var req entity.RegisterRequest
	if !bind(c, &req) {
		return
	}
	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		RollNo:     int64(req.RollNo),
		Rgno:       int64(req.Rgno),
		Role:       model.Role(req.Role),
		Department: req.Department,
		Semester:   int(req.Semester),
	}
	if err := a.userService.Register(user, req.Password); err != nil {
		a.serviceError(c, "register", err)
		return
	}

	tok, err := a.issuer.Issue(user.Id, user.Rgno, string(user.Role))
	if err != nil {
		a.serviceError(c, "issue token", err)
		return
	}
	c.JSON(http.StatusCreated, entity.AuthResponse{
		Msg:   entity.Msg{Success: true, Message: "Registration successful"},
		Token: tok,
		User:  summary(user),
	})
}

func (a *AuthController) login(c *gin.Context) {
	var req entity.LoginRequest
	if !bind(c, &req) {
		return
	}
	user, err := a.userService.CheckUser(int64(req.Rgno), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warningf("wrong login for rgno %d from %s", req.Rgno, c.ClientIP())
		}
		a.serviceError(c, "login", err)
		return
	}

	tok, err := a.issuer.Issue(user.Id, user.Rgno, string(user.Role))
	if err != nil {
		a.serviceError(c, "issue token", err)
		return
	}
	s := summary(user)
	s.Email = user.Email
	c.JSON(http.StatusOK, entity.AuthResponse{
		Msg:   entity.Msg{Success: true, Message: "Login successful"},
		Token: tok,
		User:  s,
	})
}

func (a *AuthController) logout(c *gin.Context) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Message: "Logout successful"})
}

func (a *AuthController) verify(c *gin.Context) {
	c.JSON(http.StatusOK, entity.UserResponse{
		Msg:  entity.Msg{Success: true},
		User: middleware.GetClaims(c),
	})
}

func (a *AuthController) profile(c *gin.Context) {
	user, err := a.userService.GetUser(middleware.GetClaims(c).UserID)
	if err != nil {
		a.serviceError(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, entity.UserResponse{Msg: entity.Msg{Success: true}, User: user})
}

func (a *AuthController) changePassword(c *gin.Context) {
	var req entity.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}
	err := a.userService.ChangePassword(middleware.GetClaims(c).UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		a.serviceError(c, "change password", err)
		return
	}
	c.JSON(http.StatusOK, entity.Msg{Success: true, Message: "Password changed successfully"})
}

func (a *AuthController) users(c *gin.Context) {
	users, err := a.userService.GetUsers()
	if err != nil {
		a.serviceError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, entity.UsersResponse{
		Msg:   entity.Msg{Success: true},
		Count: len(users),
		Users: users,
	})
}
