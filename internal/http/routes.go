package http

import (
	"forgecraft/internal/config"
	"forgecraft/internal/http/handlers"
	"forgecraft/internal/http/middleware"
	"forgecraft/internal/service"
	"forgecraft/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the full API surface. The hub is returned so main
// can expose its connection count if needed.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, sessions *service.SessionStore, version string) *ws.Hub {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, sessions, hub, cfg.SessionTTL)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks bypass rate limiting.
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	auth := middleware.JWT(sessions)
	admin := middleware.AdminOnly(db)

	// Auth
	v1.POST("/auth/register", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Register)
	v1.POST("/auth/login", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Login)
	v1.POST("/auth/logout", auth, h.Logout)

	// Profile
	v1.GET("/me", auth, h.Me)
	v1.POST("/me/sound", auth, h.SetSound)

	// Inventory
	v1.GET("/inventory/swords", auth, h.ListSwords)
	v1.GET("/inventory/materials", auth, h.ListMaterials)
	v1.GET("/inventory/shields", auth, h.ListShields)
	v1.POST("/inventory/swords/:id/sell", auth, h.SellSword)
	v1.POST("/inventory/materials/:id/sell", auth, h.SellMaterial)
	v1.POST("/inventory/shields/:id/sell", auth, h.SellShield)

	// Anvil
	v1.POST("/anvil/sword/:id", auth, h.PutSwordOnAnvil)
	v1.DELETE("/anvil/sword", auth, h.TakeSwordOffAnvil)
	v1.POST("/anvil/shield/:id", auth, h.PutShieldOnAnvil)
	v1.DELETE("/anvil/shield", auth, h.TakeShieldOffAnvil)

	// Forge
	v1.POST("/forge/upgrade/:id", auth, h.UpgradeSword)
	v1.POST("/forge/synthesize", auth, h.Synthesize)
	v1.GET("/forge/levels", h.ListSwordLevels)

	// Marketplace
	v1.GET("/market", h.ListMarket)
	v1.GET("/market/:id", h.GetMarketItem)
	v1.POST("/market/:id/purchase", auth, h.PurchaseMarketItem)
	v1.GET("/purchases", auth, h.ListMyPurchases)

	// Catalog (public reads)
	v1.GET("/catalog/materials", h.ListMaterialTypes)
	v1.GET("/catalog/shields", h.ListShieldTypes)

	// Gifts and vouchers
	v1.GET("/gifts", auth, h.ListMyGifts)
	v1.POST("/gifts/:id/claim", auth, h.ClaimGift)
	v1.POST("/vouchers", auth, h.CreateVoucher)
	v1.GET("/vouchers", auth, h.ListMyVouchers)
	v1.GET("/vouchers/:id", auth, h.GetVoucher)
	v1.POST("/vouchers/:id/cancel", auth, h.CancelVoucher)

	// Support
	v1.POST("/support", auth, h.CreateTicket)
	v1.PUT("/support/:id", auth, h.UpdateTicket)
	v1.GET("/support", auth, h.ListMyTickets)

	// Admin surface
	adm := v1.Group("/admin", auth, admin)
	adm.GET("/config", h.GetAdminConfig)
	adm.PUT("/config", h.UpdateAdminConfig)
	adm.POST("/users/:id/ban", h.SetUserBanned)
	adm.POST("/market", h.CreateMarketItem)
	adm.POST("/market/:id/active", h.SetMarketItemActive)
	adm.PUT("/market/:id/price", h.UpdateMarketItemPrice)
	adm.DELETE("/market/:id", h.DeleteMarketItem)
	adm.POST("/gifts", h.CreateGift)
	adm.POST("/gifts/:id/cancel", h.CancelGift)
	adm.DELETE("/gifts/:id", h.DeleteGift)
	adm.POST("/catalog/levels", h.CreateSwordLevel)
	adm.POST("/catalog/materials", h.CreateMaterialType)
	adm.POST("/catalog/shields", h.CreateShieldType)
	adm.GET("/support", h.ListAllTickets)
	adm.POST("/support/:id/reply", h.ReplyTicket)

	// Event stream
	r.GET("/ws", h.WS)

	return hub
}
