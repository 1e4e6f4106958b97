package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the router. All content routes require
// a valid staff JWT; equipment deletion additionally requires the admin role.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	programService service.ProgramService,
	dayService service.DayService,
	workoutService service.WorkoutService,
	clientService service.ClientService,
	equipmentService service.EquipmentService,
	activityService service.ActivityService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService, dayService)
	workoutHandler := NewWorkoutHandler(workoutService)
	clientHandler := NewClientHandler(clientService)
	equipmentHandler := NewEquipmentHandler(equipmentService)
	activityHandler := NewActivityHandler(activityService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Programs and the Day/Workout tree ---
		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.PUT("/:programId", programHandler.UpdateProgram)
			programGroup.POST("/:programId/archive", programHandler.ArchiveProgram)
			programGroup.POST("/:programId/restore", programHandler.RestoreProgram)
			programGroup.POST("/:programId/duplicate", programHandler.DuplicateProgram)
			programGroup.POST("/:programId/days", programHandler.CreateDay)
			programGroup.GET("/:programId/days", programHandler.GetDays)
		}

		dayGroup := protected.Group("/days")
		{
			dayGroup.PUT("/:dayId", programHandler.UpdateDay)
			dayGroup.DELETE("/:dayId", programHandler.DeleteDay) // Guarded: 409 if the day has workouts
			dayGroup.POST("/:dayId/workouts", workoutHandler.CreateWorkout)
			dayGroup.GET("/:dayId/workouts", workoutHandler.GetWorkouts)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:workoutId/move", workoutHandler.MoveWorkout)
			workoutGroup.POST("/:workoutId/video-upload-url", workoutHandler.RequestVideoUploadURL)
			workoutGroup.GET("/:workoutId/video-url", workoutHandler.GetVideoDownloadURL)
		}

		// --- Clients and assignments ---
		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.OnboardClient)
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.GET("/:clientId", clientHandler.GetClient)
			clientGroup.PUT("/:clientId", clientHandler.UpdateClient)
			clientGroup.POST("/:clientId/archive", clientHandler.ArchiveClient)
			clientGroup.POST("/:clientId/restore", clientHandler.RestoreClient)
			clientGroup.POST("/:clientId/assignments", clientHandler.AssignProgram)
			clientGroup.GET("/:clientId/assignments", clientHandler.GetAssignments)
		}
		protected.DELETE("/assignments/:assignmentId", clientHandler.Unassign)

		// --- Equipment inventory ---
		equipmentGroup := protected.Group("/equipment")
		{
			equipmentGroup.POST("", equipmentHandler.CreateEquipment)
			equipmentGroup.GET("", equipmentHandler.ListEquipment)
			equipmentGroup.PUT("/:equipmentId", equipmentHandler.UpdateEquipment)
			equipmentGroup.POST("/:equipmentId/archive", equipmentHandler.ArchiveEquipment)
			equipmentGroup.POST("/:equipmentId/restore", equipmentHandler.RestoreEquipment)
			equipmentGroup.DELETE("/:equipmentId", RoleMiddleware(domain.RoleAdmin), equipmentHandler.DeleteEquipment)
		}

		// --- Activity feed ---
		activityGroup := protected.Group("/activity")
		{
			activityGroup.GET("", activityHandler.ListRecent)
			activityGroup.GET("/stream", activityHandler.Stream)
		}
	}
}
