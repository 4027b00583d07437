package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode matches the framework verbosity to the APP_ENV value.
// Anything that is not production or test keeps the default debug output.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
