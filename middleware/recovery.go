package middleware

import (
	"fmt"
	"net/http"

	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CtxExposeDetail marks requests whose 500 responses may carry the error text.
const CtxExposeDetail = "exposeDetail"

// Recovery turns a panic into the generic 500 envelope. The panic value is
// only echoed back when exposeDetail is set, and the same flag is left on the
// context for handlers reporting their own internal errors.
func Recovery(exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxExposeDetail, exposeDetail)
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("global error handler")
				body := util.FailedMessage(util.SOMETHING_WENT_WRONG)
				if exposeDetail {
					body.Error = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, util.FailedMessage(fmt.Sprintf("Route %s not found", c.Request.URL.Path)))
}
