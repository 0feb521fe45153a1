package handlers

import (
	"strconv"
	"time"

	"forgecraft/internal/apperr"
	"forgecraft/internal/logger"
	"forgecraft/internal/pagination"
	"forgecraft/internal/random"
	"forgecraft/internal/service"
	"forgecraft/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB        *pgxpool.Pool
	Auth      *service.AuthService
	Users     *service.UserService
	Inventory *service.InventoryService
	Market    *service.MarketService
	Forge     *service.ForgeService
	Gifts     *service.GiftService
	Vouchers  *service.VoucherService
	Config    *service.AdminConfigService
	Support   *service.SupportService
	Catalog   *service.CatalogService
	Sessions  *service.SessionStore
	Hub       *ws.Hub
}

func NewHandler(db *pgxpool.Pool, sessions *service.SessionStore, hub *ws.Hub, tokenTTL time.Duration) *Handler {
	roller := random.CryptoRoller{}
	return &Handler{
		DB:        db,
		Auth:      service.NewAuthService(db, sessions, tokenTTL),
		Users:     service.NewUserService(db),
		Inventory: service.NewInventoryService(db, hub),
		Market:    service.NewMarketService(db, hub),
		Forge:     service.NewForgeService(db, roller, hub),
		Gifts:     service.NewGiftService(db, hub),
		Vouchers:  service.NewVoucherService(db, hub),
		Config:    service.NewAdminConfigService(db),
		Support:   service.NewSupportService(db),
		Catalog:   service.NewCatalogService(db),
		Sessions:  sessions,
		Hub:       hub,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := uidVal.(int64)
	return id, ok
}

// fail maps a service error onto the response. Internal and fatal-config
// causes are logged server-side; the client only sees the stable code.
func fail(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal || e.Kind == apperr.KindFatalConfig {
		logger.Error("request failed", "path", c.FullPath(), "code", e.Code, "err", err)
	}
	c.JSON(e.Kind.HTTPStatus(), gin.H{"error": e.Message, "code": e.Code})
}

// pageFromQuery parses ?page= and ?limit= with the shared defaults.
func pageFromQuery(c *gin.Context) (pagination.Page, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return pagination.Page{}, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return pagination.Page{}, false
	}
	return pagination.Normalize(page, limit)
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	fail(c, apperr.Validation("BAD_REQUEST", msg))
}
