package routes

import (
	"siakad_go/controllers"
	"siakad_go/database"
	"siakad_go/handlers"
	"siakad_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// Explicit per-route policy records. Every protected route names the roles
// it admits here instead of burying the rule in the handler.
var (
	adminOnly         = middleware.AllowRoles("admin")
	lecturerOnly      = middleware.AllowRoles("lecturer")
	studentOnly       = middleware.AllowRoles("student")
	guardianOnly      = middleware.AllowRoles("guardian")
	staffOnly         = middleware.AllowRoles("admin", "lecturer")
	uploaders         = middleware.AllowRoles("admin", "lecturer", "student")
	anyAuthenticated  = middleware.AllowRoles()
	krsReaders        = middleware.AllowRoles("admin", "lecturer", "student")
	attendanceReaders = middleware.AllowRoles("admin", "lecturer", "student")
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	majorController := &controllers.MajorController{}
	courseController := &controllers.CourseController{}
	yearController := &controllers.AcademicYearController{}
	studentController := &controllers.StudentController{}
	lecturerController := &controllers.LecturerController{}
	guardianController := &controllers.GuardianController{}
	classController := &controllers.ClassController{}
	materialController := &controllers.MaterialController{}
	assignmentController := &controllers.AssignmentController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	reportController := &controllers.ReportController{}
	krsController := controllers.NewKrsController()
	attendanceController := controllers.NewAttendanceController()
	dashboardController := controllers.NewDashboardController()
	uploadController := controllers.NewUploadController()
	lineWebhook := handlers.NewLineWebhookHandler(database.DB)

	api := app.Group("/api")

	// Public routes: the course catalog is browsable without a login, and
	// prospective students self-register
	public := api.Group("/public")
	public.Get("/courses", courseController.GetCourses)
	public.Get("/courses/:id", courseController.GetCourse)
	public.Post("/students/register", authController.RegisterStudent)

	// Authentication
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)

	// LINE platform webhook (signature-validated, no JWT)
	api.Post("/webhooks/line", lineWebhook.Handle)

	// Protected routes
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)

	protected.Get("/dashboard", middleware.Authorize(anyAuthenticated), dashboardController.GetDashboard)
	protected.Post("/uploads/presign", middleware.Authorize(uploaders), uploadController.PresignUpload)

	// User management
	users := protected.Group("/users", middleware.Authorize(adminOnly))
	users.Get("/", userController.GetUsers)
	users.Post("/", authController.Register)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Catalog hierarchy
	majors := protected.Group("/majors")
	majors.Get("/", middleware.Authorize(anyAuthenticated), majorController.GetMajors)
	majors.Post("/", middleware.Authorize(adminOnly), majorController.CreateMajor)
	majors.Put("/:id", middleware.Authorize(adminOnly), majorController.UpdateMajor)
	majors.Delete("/:id", middleware.Authorize(adminOnly), majorController.DeleteMajor)

	programs := protected.Group("/study-programs")
	programs.Get("/", middleware.Authorize(anyAuthenticated), majorController.GetStudyPrograms)
	programs.Post("/", middleware.Authorize(adminOnly), majorController.CreateStudyProgram)

	curricula := protected.Group("/curricula")
	curricula.Get("/", middleware.Authorize(anyAuthenticated), majorController.GetCurricula)
	curricula.Post("/", middleware.Authorize(adminOnly), majorController.CreateCurriculum)

	// Courses (mutations only; reads are public)
	courses := protected.Group("/courses", middleware.Authorize(adminOnly))
	courses.Post("/", courseController.CreateCourse)
	courses.Put("/:id", courseController.UpdateCourse)
	courses.Delete("/:id", courseController.DeleteCourse)
	courses.Post("/:id/prerequisites", courseController.AddPrerequisite)
	courses.Delete("/:id/prerequisites/:prereq_id", courseController.RemovePrerequisite)

	// Academic years
	years := protected.Group("/academic-years")
	years.Get("/", middleware.Authorize(anyAuthenticated), yearController.GetAcademicYears)
	years.Get("/active", middleware.Authorize(anyAuthenticated), yearController.GetActiveAcademicYear)
	years.Post("/", middleware.Authorize(adminOnly), yearController.CreateAcademicYear)
	years.Put("/:id/activate", middleware.Authorize(adminOnly), yearController.ActivateAcademicYear)
	years.Get("/:id/krs-report", middleware.Authorize(adminOnly), reportController.ExportKrsRecap)

	// People
	students := protected.Group("/students")
	students.Get("/", middleware.Authorize(staffOnly), studentController.GetStudents)
	students.Get("/:id", middleware.Authorize(staffOnly), studentController.GetStudent)
	students.Put("/:id", middleware.Authorize(adminOnly), studentController.UpdateStudent)
	students.Get("/:id/classes", middleware.Authorize(krsReaders), studentController.GetStudentClasses)

	lecturers := protected.Group("/lecturers")
	lecturers.Get("/", middleware.Authorize(staffOnly), lecturerController.GetLecturers)
	lecturers.Post("/", middleware.Authorize(adminOnly), lecturerController.CreateLecturer)
	lecturers.Get("/:id", middleware.Authorize(staffOnly), lecturerController.GetLecturer)
	lecturers.Put("/:id", middleware.Authorize(adminOnly), lecturerController.UpdateLecturer)
	lecturers.Get("/:id/classes", middleware.Authorize(staffOnly), lecturerController.GetLecturerClasses)

	guardians := protected.Group("/guardians")
	guardians.Get("/my-students", middleware.Authorize(guardianOnly), guardianController.GetMyStudents)
	guardians.Get("/", middleware.Authorize(adminOnly), guardianController.GetGuardians)
	guardians.Post("/", middleware.Authorize(adminOnly), guardianController.CreateGuardian)
	guardians.Get("/:id", middleware.Authorize(adminOnly), guardianController.GetGuardian)
	guardians.Post("/:id/students", middleware.Authorize(adminOnly), guardianController.LinkStudent)
	guardians.Delete("/:id/students/:student_id", middleware.Authorize(adminOnly), guardianController.UnlinkStudent)

	// Classes, schedules and rosters
	classes := protected.Group("/classes")
	classes.Get("/", middleware.Authorize(anyAuthenticated), classController.GetClasses)
	classes.Post("/", middleware.Authorize(adminOnly), classController.CreateClass)
	classes.Get("/:id", middleware.Authorize(anyAuthenticated), classController.GetClass)
	classes.Put("/:id", middleware.Authorize(adminOnly), classController.UpdateClass)
	classes.Delete("/:id", middleware.Authorize(adminOnly), classController.DeleteClass)
	classes.Post("/:id/schedules", middleware.Authorize(adminOnly), classController.AddSchedule)
	classes.Delete("/:id/schedules/:schedule_id", middleware.Authorize(adminOnly), classController.RemoveSchedule)
	classes.Get("/:id/roster", middleware.Authorize(staffOnly), classController.GetRoster)
	classes.Delete("/:id/roster/:student_id", middleware.Authorize(adminOnly), classController.DropStudent)

	// Class content
	classes.Get("/:id/materials", middleware.Authorize(anyAuthenticated), materialController.GetMaterials)
	classes.Post("/:id/materials", middleware.Authorize(staffOnly), materialController.CreateMaterial)
	classes.Get("/:id/assignments", middleware.Authorize(anyAuthenticated), assignmentController.GetAssignments)
	classes.Post("/:id/assignments", middleware.Authorize(staffOnly), assignmentController.CreateAssignment)

	materials := protected.Group("/materials", middleware.Authorize(staffOnly))
	materials.Put("/:id", materialController.UpdateMaterial)
	materials.Delete("/:id", materialController.DeleteMaterial)

	assignments := protected.Group("/assignments")
	assignments.Get("/:id", middleware.Authorize(anyAuthenticated), assignmentController.GetAssignment)
	assignments.Put("/:id", middleware.Authorize(staffOnly), assignmentController.UpdateAssignment)
	assignments.Delete("/:id", middleware.Authorize(staffOnly), assignmentController.DeleteAssignment)
	assignments.Post("/:id/submissions", middleware.Authorize(studentOnly), assignmentController.Submit)
	assignments.Delete("/:id/submissions", middleware.Authorize(studentOnly), assignmentController.DeleteSubmission)

	submissions := protected.Group("/submissions")
	submissions.Put("/:submission_id/grade", middleware.Authorize(lecturerOnly), assignmentController.GradeSubmission)

	// KRS enrollment workflow
	krs := protected.Group("/krs")
	krs.Post("/", middleware.Authorize(studentOnly), krsController.CreateHeader)
	krs.Get("/my", middleware.Authorize(studentOnly), krsController.GetMyHeaders)
	krs.Get("/pending", middleware.Authorize(adminOnly), krsController.GetPendingHeaders)
	krs.Get("/:id", middleware.Authorize(krsReaders), krsController.GetHeader)
	krs.Post("/:id/details", middleware.Authorize(studentOnly), krsController.AddDetail)
	krs.Delete("/details/:detail_id", middleware.Authorize(studentOnly), krsController.RemoveDetail)
	krs.Put("/:id/status", middleware.Authorize(adminOnly), krsController.SetStatus)
	krs.Put("/details/:detail_id/grade", middleware.Authorize(lecturerOnly), krsController.SetGrade)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Post("/sessions", middleware.Authorize(lecturerOnly), attendanceController.OpenSession)
	attendance.Put("/sessions/:id/close", middleware.Authorize(lecturerOnly), attendanceController.CloseSession)
	attendance.Post("/sessions/:id/records", middleware.Authorize(studentOnly), attendanceController.Record)
	attendance.Get("/sessions/:id/records", middleware.Authorize(lecturerOnly), attendanceController.GetSessionRecords)

	classes.Get("/:id/attendance/active", middleware.Authorize(attendanceReaders), attendanceController.GetActiveSession)
	classes.Get("/:id/attendance/my-history", middleware.Authorize(studentOnly), attendanceController.GetMyHistory)
	classes.Get("/:id/attendance/report", middleware.Authorize(staffOnly), reportController.ExportAttendanceRecap)

	// Notifications
	notifications := protected.Group("/notifications", middleware.Authorize(anyAuthenticated))
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Put("/:id/read", notificationController.MarkRead)
	notifications.Put("/read-all", notificationController.MarkAllRead)

	// Activity logs
	logs := protected.Group("/logs", middleware.Authorize(adminOnly))
	logs.Get("/", logController.GetLogs)
	logs.Post("/flush", logController.FlushLogs)
}
