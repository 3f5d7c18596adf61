package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/http/middleware"
	"doclib/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Documents service.DocumentService
	Subjects  service.SubjectService
	Auth      service.AuthService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Library routes are per-route guarded so unknown paths still answer 404.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	requireAuth := middleware.RequireAuth(svc.Auth)

	app.Post("/auth/signup", SignUp(svc.Auth))
	app.Post("/auth/signin", SignIn(svc.Auth))
	app.Post("/auth/signout", requireAuth, SignOut(svc.Auth))

	app.Get("/documents", requireAuth, ListDocuments(svc.Documents))
	app.Post("/documents", requireAuth, UploadDocument(svc.Documents))
	app.Get("/documents/:id", requireAuth, GetDocument(svc.Documents))
	app.Patch("/documents/:id", requireAuth, UpdateDocument(svc.Documents))
	app.Delete("/documents/:id", requireAuth, DeleteDocument(svc.Documents))
	app.Get("/documents/:id/download", requireAuth, DownloadDocument(svc.Documents))
	app.Get("/documents/:id/content", requireAuth, DocumentContent(svc.Documents))

	app.Get("/subjects", requireAuth, ListSubjects(svc.Subjects))
	app.Post("/subjects", requireAuth, CreateSubject(svc.Subjects))
	app.Patch("/subjects/:id", requireAuth, RenameSubject(svc.Subjects))
	app.Delete("/subjects/:id", requireAuth, DeleteSubject(svc.Subjects))

	app.Get("/stats", requireAuth, GetStats(svc.Documents))
}
