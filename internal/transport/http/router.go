package handlers

import (
	"strings"
	"time"

	"techcatalog/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	techHandler *TechHandler,
	adminHandler *AdminHandler,
	proficiencyHandler *ProficiencyHandler,
	requestHandler *RequestHandler,
	authMW gin.HandlerFunc,
	limiter *middleware.RateLimiter,
	allowedOrigins string,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	config := cors.DefaultConfig()
	if allowedOrigins == "" || allowedOrigins == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api")
	{
		api.GET("/techs", techHandler.List)
		api.GET("/techs/:id", techHandler.GetOne)

		admin := api.Group("/admin")
		admin.Use(authMW)
		{
			admin.GET("/check", adminHandler.Check)
			techs := admin.Group("/techs")
			techs.Use(middleware.AdminOnly())
			{
				techs.POST("", adminHandler.Create)
				techs.PUT("", adminHandler.Update)
				techs.DELETE("/:id", adminHandler.Delete)
			}
		}

		user := api.Group("/user")
		user.Use(authMW)
		{
			user.GET("/stats", proficiencyHandler.Stats)
			user.GET("/stats/overview", proficiencyHandler.Overview)
			user.POST("/techs/:id/proficiency", proficiencyHandler.Apply)
			user.DELETE("/techs/:id", proficiencyHandler.Remove)
		}

		api.POST("/send-request", authMW, limiter.Limit("send_request", 5, 1*time.Minute), requestHandler.Send)
	}

	return r
}
