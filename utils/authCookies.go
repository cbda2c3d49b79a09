package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

const accessTokenCookie = "accessToken"

func SetAuthCookie(c *gin.Context, accessToken string) {
	setCookie(c, accessTokenCookie, accessToken, AccessTokenExpiry)
}

func ClearAuthCookie(c *gin.Context) {
	setCookie(c, accessTokenCookie, "", -time.Second)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	secure := true
	if gin.Mode() == gin.DebugMode { // Toggle for local dev
		secure = false
	}
	maxAge := int(expiry.Seconds())
	if expiry < 0 {
		maxAge = -1
	}
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
