package middleware

import (
	"net/http"
	"strings"

	"MediCareHMS/role"
	"MediCareHMS/token"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	CtxUserID   = "userId"
	CtxUsername = "username"
	CtxRole     = "role"
)

/*
* Read the bearer token from the Authorization header
* Websocket upgrades may pass it as ?token= instead
* Parse and validate it
* Put userId, username and role on the context
 */
func JWTAuth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if raw == "" && websocket.IsWebSocketUpgrade(c.Request) {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedMessage(util.TOKEN_MISSING))
			return
		}
		claims, err := tm.Parse(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedMessage(util.TOKEN_INVALID))
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// Authorize lets the request through only for the listed roles.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !role.Allows(c.GetString(CtxRole), roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, util.FailedMessage(util.ACCESS_DENIED))
			return
		}
		c.Next()
	}
}
