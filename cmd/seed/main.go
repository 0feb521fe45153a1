package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"forgecraft/internal/db"
	"forgecraft/internal/domain"
	"forgecraft/internal/repository"
	"forgecraft/internal/service"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the minimum data the economy needs to run: the admin config
// singleton, the level-0 sword definition plus a short progression ladder,
// a few material and shield types, and an admin account.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()
	ctx := context.Background()

	configRepo := repository.NewAdminConfigRepository(pool)
	if err := configRepo.Ensure(ctx, &domain.AdminConfig{
		AdminEmail:        envOr("ADMIN_EMAIL", "admin@forgecraft.local"),
		MaxDailyAds:       10,
		MaxDailyMissions:  5,
		DefaultTrustPoint: 10,
		MinVoucherGold:    decimal.NewFromInt(100),
		MaxVoucherGold:    decimal.NewFromInt(100000),
		VoucherExpiryDays: 30,
		CancelAllowed:     true,
	}); err != nil {
		log.Fatalf("seed admin config: %v", err)
	}
	log.Println("admin config ensured")

	levelRepo := repository.NewSwordLevelRepository(pool)
	cost := decimal.NewFromInt(50)
	for lvl := 0; lvl <= 10; lvl++ {
		l := &domain.SwordLevel{
			Level:       lvl,
			Name:        fmt.Sprintf("Blade Mk%d", lvl),
			Power:       10 * (lvl + 1),
			UpgradeCost: cost,
			SellingCost: cost.Div(decimal.NewFromInt(2)).Round(0),
			SuccessRate: 95 - 7*lvl,
			Image:       fmt.Sprintf("swords/mk%d.png", lvl),
		}
		if err := levelRepo.Create(ctx, l); err != nil {
			if repository.IsUniqueViolation(err) {
				continue
			}
			log.Fatalf("seed sword level %d: %v", lvl, err)
		}
		cost = cost.Mul(decimal.NewFromInt(2))
	}
	log.Println("sword levels seeded")

	catalog := service.NewCatalogService(pool)
	materials := []service.CreateCatalogTypeInput{
		{Name: "Iron Ore", Cost: decimal.NewFromInt(20), Power: 5, Rarity: domain.RarityCommon},
		{Name: "Ember Crystal", Cost: decimal.NewFromInt(120), Power: 25, Rarity: domain.RarityRare},
		{Name: "Starforged Shard", Cost: decimal.NewFromInt(900), Power: 80, Rarity: domain.RarityEpic},
	}
	for _, m := range materials {
		if _, err := catalog.CreateMaterialType(ctx, m); err != nil {
			if err == service.ErrDuplicateCatalog {
				continue
			}
			log.Fatalf("seed material %q: %v", m.Name, err)
		}
	}

	shields := []service.CreateCatalogTypeInput{
		{Name: "Oak Buckler", Cost: decimal.NewFromInt(35), Power: 8, Rarity: domain.RarityCommon},
		{Name: "Runed Aegis", Cost: decimal.NewFromInt(400), Power: 45, Rarity: domain.RarityLegendary},
	}
	for _, sh := range shields {
		if _, err := catalog.CreateShieldType(ctx, sh); err != nil {
			if err == service.ErrDuplicateCatalog {
				continue
			}
			log.Fatalf("seed shield %q: %v", sh.Name, err)
		}
	}
	log.Println("catalog seeded")

	userRepo := repository.NewUserRepository(pool)
	adminEmail := envOr("ADMIN_EMAIL", "admin@forgecraft.local")
	if _, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("admin user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(envOr("ADMIN_PASSWORD", "changeme-now")), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	admin := &domain.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Admin",
		Gold:         decimal.Zero,
		IsAdmin:      true,
		SoundOn:      true,
	}
	if err := userRepo.Create(ctx, pool, admin); err != nil {
		log.Fatalf("create admin user: %v", err)
	}
	log.Printf("admin user created id=%d", admin.ID)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
