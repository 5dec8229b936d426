package routes

import (
	"carbculator/controllers"
	"carbculator/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Profile  *controllers.ProfileController
	Entries  *controllers.EntryController
	Progress *controllers.ProgressController
	Calendar *controllers.CalendarController
	Insights *controllers.InsightController
	Upload   *controllers.UploadController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/user/profile", ctrl.Profile.GetProfile)
		api.PUT("/user/profile", ctrl.Profile.UpdateProfile)

		api.GET("/food-entries", ctrl.Entries.ListFoodEntries)
		api.POST("/food-entries", ctrl.Entries.AddFoodEntry)
		api.DELETE("/food-entries/:id", ctrl.Entries.DeleteFoodEntry)
		api.POST("/water-entries", ctrl.Entries.AddWaterEntry)
		api.DELETE("/water-entries/:id", ctrl.Entries.DeleteWaterEntry)

		api.GET("/progress/today", ctrl.Progress.GetDailyProgress)
		api.GET("/progress/summary", ctrl.Progress.GetRangeSummary)
		api.GET("/calendar/:year/:month", ctrl.Calendar.GetMonthStatuses)

		api.POST("/insights", ctrl.Insights.GenerateInsights)
		api.POST("/upload/analyze", ctrl.Upload.AnalyzeImage)
		api.GET("/ws", ctrl.Realtime.Connect)
	}

	return r
}
