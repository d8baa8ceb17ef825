package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextOwnerIDKey = "owner_id"

// OwnerContext parses :owner_id once for every owner-scoped route.
func OwnerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := snowflake.ParseString(strings.TrimSpace(c.Param("owner_id")))
		if err != nil || ownerID == 0 {
			AbortWithError(c, newValidationError("owner_id", "invalid_owner", "invalid owner id"))
			return
		}
		c.Set(contextOwnerIDKey, ownerID)
		c.Next()
	}
}

func ownerIDFromContext(c *gin.Context) snowflake.ID {
	if v, ok := c.Get(contextOwnerIDKey); ok {
		if id, ok := v.(snowflake.ID); ok {
			return id
		}
	}
	return 0
}

// setChargeType tags the request log line with the charge type it produced.
func setChargeType(c *gin.Context, chargeType string) {
	c.Set("charge_type", chargeType)
}
