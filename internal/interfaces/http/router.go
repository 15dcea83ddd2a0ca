package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	LedgerUC  ledgerService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, alta solo admin
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), authHandler.Register)

	// Ledger (protegido)
	ledgerGroup := api.Group("/ledger", AuthMiddleware(deps.JWTSecret))
	h := NewLedgerHandler(deps.LedgerUC)

	readers := RequireRole(entity.RoleAdmin, entity.RoleAnalyst, entity.RoleViewer)
	runners := RequireRole(entity.RoleAdmin, entity.RoleAnalyst)

	ledgerGroup.Get("/runs", readers, h.ListRuns)
	ledgerGroup.Get("/runs/:id", readers, h.GetRun)
	ledgerGroup.Get("/runs/:id/entries", readers, h.ListEntries)
	ledgerGroup.Post("/runs", runners, h.Run)
	ledgerGroup.Post("/runs/from-store", runners, h.RunFromStore)
	ledgerGroup.Post("/records", RequireRole(entity.RoleAdmin), h.ImportRecords)
}
