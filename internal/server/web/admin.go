package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

func (s *Server) listUsers(c *gin.Context) {
	users := s.accounts.ListUsers()
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (s *Server) getUser(c *gin.Context) {
	info := s.accounts.GetUserInfo(c.Param("username"))
	if info == nil {
		reject(c, http.StatusNotFound, services.MsgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, toView(*info))
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	role := credentials.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		reject(c, http.StatusBadRequest, MsgBadRole)
		return
	}

	res := s.accounts.CreateAccount(c.Request.Context(), req.Username, req.Password, strings.TrimSpace(req.Email), role)
	if res.OK {
		c.JSON(http.StatusCreated, gin.H{"ok": true, "message": res.Message})
		return
	}
	respond(c, res)
}

type resetPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	switch {
	case req.NewPassword != req.ConfirmPassword:
		reject(c, http.StatusBadRequest, MsgPasswordsMismatch)
	case req.NewPassword == "":
		reject(c, http.StatusBadRequest, MsgPasswordEmpty)
	default:
		respond(c, s.accounts.ResetPassword(c.Request.Context(), c.Param("username"), req.NewPassword))
	}
}

type roleRequest struct {
	Role string `json:"role"`
}

func (s *Server) updateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	role := credentials.Role(req.Role)
	if !role.Valid() {
		reject(c, http.StatusBadRequest, MsgBadRole)
		return
	}

	username := c.Param("username")
	res := s.accounts.UpdateUserInfo(c.Request.Context(), username, nil, &role)
	if res.OK {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Role for " + username + " updated to " + string(role)})
		return
	}
	respond(c, res)
}

// deleteUser requires ?confirm=<username> to match the path.
func (s *Server) deleteUser(c *gin.Context) {
	username := c.Param("username")
	if c.Query("confirm") != username {
		reject(c, http.StatusBadRequest, MsgDeleteNotConfirm)
		return
	}
	respond(c, s.accounts.DeleteUser(c.Request.Context(), username))
}
