package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/policy"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

// Messages produced by form checks that happen before the account service.
const (
	MsgEmptyCredentials  = "Username and password cannot be empty"
	MsgTermsNotAccepted  = "You must agree to the Terms of Service and Privacy Policy"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgNewPasswordsDiff  = "New passwords do not match"
	MsgAllFieldsRequired = "All fields are required"
	MsgPasswordEmpty     = "Password cannot be empty"
	MsgDeleteNotConfirm  = "Username doesn't match. Deletion cancelled."
	MsgBadRole           = "Role must be user or admin"
	MsgBadRequest        = "Invalid request"
)

// LockoutHelpText is the help-page copy about locked accounts. It says 15
// minutes while the enforced default is 4; see lockout_minutes in /help.
const LockoutHelpText = "If your account is locked, you'll need to wait 15 minutes before trying again."

type userView struct {
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	Email          *string    `json:"email"`
	CreatedAt      *time.Time `json:"created_at"`
	LastLogin      *time.Time `json:"last_login"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until"`
	Legacy         bool       `json:"legacy"`
}

func toView(u services.UserInfo) userView {
	return userView{
		Username:       u.Username,
		Role:           string(u.Role),
		Email:          u.Email,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		Legacy:         u.Legacy,
	}
}

func resultStatus(r services.Result) int {
	if r.OK {
		return http.StatusOK
	}
	switch {
	case errors.Is(r.Kind, common.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(r.Kind, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(r.Kind, common.ErrInvariant):
		return http.StatusConflict
	case errors.Is(r.Kind, common.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respond(c *gin.Context, r services.Result) {
	c.JSON(resultStatus(r), gin.H{"ok": r.OK, "message": r.Message})
}

func reject(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "message": msg})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		reject(c, http.StatusBadRequest, MsgEmptyCredentials)
		return
	}

	ctx := c.Request.Context()
	res := s.accounts.Authenticate(ctx, req.Username, req.Password)
	if !res.OK {
		respond(c, res)
		return
	}

	info := s.accounts.GetUserInfo(req.Username)
	if info == nil {
		reject(c, http.StatusInternalServerError, "internal error")
		return
	}

	token, expiresAt, err := s.issuer.Issue(info.Username, string(info.Role))
	if err != nil {
		s.logger.Error(ctx, "issuing session", "error", err)
		reject(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, token, int(s.issuer.TTL().Seconds()), "/", "", s.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"message":    res.Message,
		"username":   info.Username,
		"role":       info.Role,
		"token":      token,
		"expires_at": expiresAt,
	})
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Logged out"})
}

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
	TermsAccepted   bool   `json:"terms_accepted"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	switch {
	case req.Username == "" || req.Password == "":
		reject(c, http.StatusBadRequest, MsgEmptyCredentials)
	case !req.TermsAccepted:
		reject(c, http.StatusBadRequest, MsgTermsNotAccepted)
	case req.Password != req.ConfirmPassword:
		reject(c, http.StatusBadRequest, MsgPasswordsMismatch)
	default:
		res := s.accounts.CreateAccount(c.Request.Context(), req.Username, req.Password, strings.TrimSpace(req.Email), credentials.RoleUser)
		if res.OK {
			c.JSON(http.StatusCreated, gin.H{"ok": true, "message": res.Message})
			return
		}
		respond(c, res)
	}
}

type validatePasswordRequest struct {
	Password string `json:"password"`
}

// validatePassword gives live strength feedback while the user types.
func (s *Server) validatePassword(c *gin.Context) {
	var req validatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	violations := policy.ValidatePassword(req.Password)
	if violations == nil {
		violations = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(violations) == 0, "errors": violations})
}

func (s *Server) help(c *gin.Context) {
	lockout := s.accounts.Lockout()
	c.JSON(http.StatusOK, gin.H{
		"lockout_help":    LockoutHelpText,
		"max_attempts":    lockout.MaxAttempts,
		"lockout_minutes": lockout.Minutes(),
		"password_requirements": []string{
			policy.MsgPasswordTooShort,
			policy.MsgPasswordNoUpper,
			policy.MsgPasswordNoDigit,
			policy.MsgPasswordNoSpecial,
		},
		"username_requirements": policy.MsgInvalidUsername,
	})
}

func (s *Server) me(c *gin.Context) {
	claims, _ := sessionClaims(c)
	info := s.accounts.GetUserInfo(claims.Username)
	if info == nil {
		reject(c, http.StatusNotFound, services.MsgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, toView(*info))
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) updateEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	claims, _ := sessionClaims(c)
	email := strings.TrimSpace(req.Email)
	respond(c, s.accounts.UpdateUserInfo(c.Request.Context(), claims.Username, &email, nil))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	switch {
	case req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "":
		reject(c, http.StatusBadRequest, MsgAllFieldsRequired)
	case req.NewPassword != req.ConfirmPassword:
		reject(c, http.StatusBadRequest, MsgNewPasswordsDiff)
	default:
		claims, _ := sessionClaims(c)
		respond(c, s.accounts.ChangePassword(c.Request.Context(), claims.Username, req.CurrentPassword, req.NewPassword))
	}
}
