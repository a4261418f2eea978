package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Roles recognised by the session middleware.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// Header names carrying the caller identity.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const sessionKey = "session"

// Session identifies the caller of a request. It is asserted by the client
// and carries no credentials.
type Session struct {
	UserID string
	Role   string
}

// CanManage reports whether the session may change the presence of facultyID.
func (s Session) CanManage(facultyID string) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleFaculty:
		return s.UserID != "" && s.UserID == facultyID
	default:
		return false
	}
}

// SessionReader stores the caller Session on the gin context.
// Requests without a role are treated as students.
func SessionReader() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(HeaderUserRole)
		switch role {
		case RoleFaculty, RoleAdmin, RoleStudent:
		case "":
			role = RoleStudent
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		c.Set(sessionKey, Session{UserID: c.GetHeader(HeaderUserID), Role: role})
		c.Next()
	}
}

// GetSession returns the Session stored by SessionReader.
func GetSession(c *gin.Context) Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{Role: RoleStudent}
}

// RequireManager rejects callers that may not manage the faculty member
// named by the :id path parameter.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).CanManage(c.Param("id")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to manage this faculty member"})
			return
		}
		c.Next()
	}
}
