package api

import (
	"net/http"

	"gymdesk/gym-app/internal/authz"
	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        service.AuthService
	Users       service.UserService
	Members     service.MemberService
	Assignments service.AssignmentService
	Trainers    service.TrainerService
	Plans       service.WorkoutPlanService
	Schedules   service.ScheduleService
	Attendance  service.AttendanceService
	BMI         service.BMIService
}

// RouteOptions controls the optional public endpoints.
type RouteOptions struct {
	Metrics     *metrics.Recorder // nil disables /metrics and request metrics
	MetricsPath string
}

func SetupRoutes(router *gin.Engine, svc Services, opts RouteOptions) {
	useJSONFieldNames()

	rec := opts.Metrics
	if rec != nil {
		router.Use(rec.Middleware())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(rec.Handler()))
	}

	authHandler := NewAuthHandler(svc.Auth, rec)
	userHandler := NewUserHandler(svc.Users)
	memberHandler := NewMemberHandler(svc.Members, svc.Assignments, rec)
	trainerHandler := NewTrainerHandler(svc.Trainers, svc.Assignments, rec)
	planHandler := NewWorkoutPlanHandler(svc.Plans, svc.Assignments, rec)
	scheduleHandler := NewScheduleHandler(svc.Schedules, svc.Attendance, rec)
	bmiHandler := NewBMIHandler(svc.BMI, rec)

	authMiddleware := AuthMiddleware(svc.Auth)
	allow := RoleMiddleware

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)

	protected.POST("/auth/logout", allow(authz.OpLogout), authHandler.Logout)

	// --- User Routes ---
	userGroup := protected.Group("/user")
	{
		userGroup.GET("/profile", allow(authz.OpViewProfile), userHandler.GetProfile)
		userGroup.PUT("/profile", allow(authz.OpUpdateProfile), userHandler.UpdateProfile)
		userGroup.POST("/avatar/upload-url", allow(authz.OpAvatarUpload), userHandler.AvatarUploadURL)
	}

	// --- Member Routes ---
	memberGroup := protected.Group("/members")
	{
		memberGroup.GET("", allow(authz.OpListMembers), memberHandler.List)
		memberGroup.POST("", allow(authz.OpCreateMember), memberHandler.Create)
		memberGroup.GET("/me", allow(authz.OpViewOwnMember), memberHandler.GetMine)
		memberGroup.GET("/trainer/:trainerId", allow(authz.OpListMembersByTrainer), memberHandler.ListByTrainer)
		memberGroup.GET("/:id", allow(authz.OpViewMember), memberHandler.Get)
		memberGroup.PUT("/:id", allow(authz.OpUpdateMember), memberHandler.Update)
		memberGroup.DELETE("/:id", allow(authz.OpDeleteMember), memberHandler.Delete)
		memberGroup.POST("/:id/assign-trainer", allow(authz.OpAssignTrainer), memberHandler.AssignTrainer)
		memberGroup.POST("/:id/assign-plan", allow(authz.OpAssignPlan), memberHandler.AssignWorkoutPlan)
	}

	// --- Bulk Assignment Routes ---
	assignmentGroup := protected.Group("/assignments")
	{
		assignmentGroup.POST("/trainer", allow(authz.OpBulkAssignTrainer), memberHandler.BulkAssignTrainer)
		assignmentGroup.POST("/plan", allow(authz.OpBulkAssignPlan), memberHandler.BulkAssignWorkoutPlan)
	}

	// --- Trainer Routes ---
	trainerGroup := protected.Group("/trainers")
	{
		trainerGroup.GET("", allow(authz.OpListTrainers), trainerHandler.List)
		trainerGroup.POST("", allow(authz.OpCreateTrainer), trainerHandler.Create)
		trainerGroup.GET("/me", allow(authz.OpViewOwnTrainer), trainerHandler.GetMine)
		trainerGroup.GET("/members", allow(authz.OpListOwnMembers), trainerHandler.MyMembers)
		trainerGroup.PUT("/availability", allow(authz.OpUpdateAvailability), trainerHandler.UpdateOwnAvailability)
		trainerGroup.GET("/:id", allow(authz.OpViewTrainer), trainerHandler.Get)
		trainerGroup.PUT("/:id", allow(authz.OpUpdateAvailability), trainerHandler.UpdateAvailability)
		trainerGroup.DELETE("/:id", allow(authz.OpDeleteTrainer), trainerHandler.Delete)
		trainerGroup.POST("/:id/availability/slots", allow(authz.OpUpdateAvailability), trainerHandler.AddSlot)
		trainerGroup.DELETE("/:id/availability/slots", allow(authz.OpUpdateAvailability), trainerHandler.RemoveSlot)
		trainerGroup.POST("/:id/assign-member", allow(authz.OpAssignMemberTrainer), trainerHandler.AssignMember)
	}

	// --- Workout Plan Routes ---
	planGroup := protected.Group("/workout-plans")
	{
		planGroup.GET("", allow(authz.OpListPlans), planHandler.List)
		planGroup.POST("", allow(authz.OpManagePlans), planHandler.Create)
		planGroup.GET("/me", allow(authz.OpViewOwnPlan), planHandler.GetMine)
		planGroup.POST("/assign", allow(authz.OpAssignPlanToMember), planHandler.Assign)
		planGroup.GET("/:id", allow(authz.OpViewPlan), planHandler.Get)
		planGroup.PUT("/:id", allow(authz.OpManagePlans), planHandler.Update)
		planGroup.DELETE("/:id", allow(authz.OpManagePlans), planHandler.Delete)
		planGroup.GET("/:id/members", allow(authz.OpListPlanMembers), planHandler.Members)
		planGroup.POST("/:id/assign-member", allow(authz.OpAssignMemberPlan), planHandler.AssignMember)
	}

	// --- Schedule Routes ---
	// Both spellings are served; clients in the wild use either.
	for _, prefix := range []string{"/schedule", "/schedules"} {
		scheduleGroup := protected.Group(prefix)
		scheduleGroup.POST("", allow(authz.OpCreateSchedule), scheduleHandler.Create)
		scheduleGroup.GET("", allow(authz.OpListSchedules), scheduleHandler.List)
		scheduleGroup.GET("/me", allow(authz.OpListOwnSchedules), scheduleHandler.ListMine)
		scheduleGroup.GET("/trainer", allow(authz.OpListTrainerSchedule), scheduleHandler.ListForTrainer)
		scheduleGroup.DELETE("/:id", allow(authz.OpDeleteSchedule), scheduleHandler.Delete)
	}

	// --- Attendance Routes ---
	protected.POST("/attendance", allow(authz.OpMarkAttendance), scheduleHandler.MarkAttendance)
	protected.GET("/attendance", allow(authz.OpListAttendance), scheduleHandler.ListAttendance)

	// --- BMI Routes ---
	bmiGroup := protected.Group("/BMI")
	{
		bmiGroup.POST("/calculate", allow(authz.OpCalculateBMI), bmiHandler.Calculate)
		bmiGroup.GET("/:id", allow(authz.OpViewBMI), bmiHandler.Get)
	}
}
