package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"forgecraft/internal/domain"
	"forgecraft/internal/pagination"
	"forgecraft/internal/random"
	"forgecraft/internal/repository"
	"forgecraft/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func setup(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	ensureFixtures(t, db)
	return db
}

// ensureFixtures seeds the admin config singleton and the level 0 and 1
// sword definitions every economy path depends on.
func ensureFixtures(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	configRepo := repository.NewAdminConfigRepository(db)
	if err := configRepo.Ensure(ctx, &domain.AdminConfig{
		AdminEmail:        "admin@test.local",
		MaxDailyAds:       10,
		MaxDailyMissions:  5,
		DefaultTrustPoint: 10,
		MinVoucherGold:    decimal.NewFromInt(100),
		MaxVoucherGold:    decimal.NewFromInt(10000),
		VoucherExpiryDays: 30,
		CancelAllowed:     true,
	}); err != nil {
		t.Fatalf("ensure admin config: %v", err)
	}

	levels := repository.NewSwordLevelRepository(db)
	for lvl := 0; lvl <= 1; lvl++ {
		if _, err := levels.GetByLevel(ctx, db, lvl); err == nil {
			continue
		} else if !repository.NotFound(err) {
			t.Fatalf("lookup level %d: %v", lvl, err)
		}
		err := levels.Create(ctx, &domain.SwordLevel{
			Level:       lvl,
			Name:        fmt.Sprintf("Test Blade %d", lvl),
			Power:       10 * (lvl + 1),
			UpgradeCost: decimal.NewFromInt(50),
			SellingCost: decimal.NewFromInt(25),
			SuccessRate: 90,
			Image:       "x.png",
		})
		if err != nil && !repository.IsUniqueViolation(err) {
			t.Fatalf("create level %d: %v", lvl, err)
		}
	}
}

func newSessions() *service.SessionStore {
	return service.NewSessionStore("", "", 0, time.Hour)
}

// newUser registers a fresh user with the given starting gold.
func newUser(t *testing.T, db *pgxpool.Pool, gold int64) *domain.User {
	t.Helper()
	ctx := context.Background()

	auth := service.NewAuthService(db, newSessions(), time.Hour)
	email := fmt.Sprintf("u%d@test.local", time.Now().UnixNano())
	user, err := auth.Register(ctx, email, "sUp3r-secret", "Tester")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if gold > 0 {
		users := repository.NewUserRepository(db)
		if err := users.CreditGold(ctx, db, user.ID, decimal.NewFromInt(gold)); err != nil {
			t.Fatalf("credit gold: %v", err)
		}
	}
	return reload(t, db, user.ID)
}

func reload(t *testing.T, db *pgxpool.Pool, userID int64) *domain.User {
	t.Helper()
	user, err := repository.NewUserRepository(db).GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}

func newMaterialType(t *testing.T, db *pgxpool.Pool) *domain.MaterialType {
	t.Helper()
	catalog := service.NewCatalogService(db)
	m, err := catalog.CreateMaterialType(context.Background(), service.CreateCatalogTypeInput{
		Name:   fmt.Sprintf("Ore %d", time.Now().UnixNano()),
		Cost:   decimal.NewFromInt(20),
		Power:  5,
		Rarity: domain.RarityCommon,
	})
	if err != nil {
		t.Fatalf("create material type: %v", err)
	}
	return m
}

func newShieldType(t *testing.T, db *pgxpool.Pool) *domain.ShieldType {
	t.Helper()
	catalog := service.NewCatalogService(db)
	s, err := catalog.CreateShieldType(context.Background(), service.CreateCatalogTypeInput{
		Name:   fmt.Sprintf("Shield %d", time.Now().UnixNano()),
		Cost:   decimal.NewFromInt(30),
		Power:  8,
		Rarity: domain.RarityRare,
	})
	if err != nil {
		t.Fatalf("create shield type: %v", err)
	}
	return s
}

func TestRegisterCreatesStarterSwordOnAnvil(t *testing.T) {
	db := setup(t)
	user := newUser(t, db, 0)

	if user.AnvilSwordID == nil {
		t.Fatal("expected a starter sword on the anvil")
	}
	sword, err := repository.NewUserSwordRepository(db).GetByID(context.Background(), *user.AnvilSwordID)
	if err != nil {
		t.Fatalf("load starter sword: %v", err)
	}
	if sword.UserID != user.ID || !sword.IsOnAnvil || sword.IsSolded {
		t.Fatalf("starter sword in wrong state: %+v", sword)
	}
	if !user.Gold.IsZero() {
		t.Fatalf("expected zero starting gold, got %s", user.Gold)
	}
}

func TestMarketPurchaseIsSingleBuyer(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	market := service.NewMarketService(db, nil)

	mat := newMaterialType(t, db)
	item, err := market.CreateItem(ctx, service.CreateMarketItemInput{
		ItemType:       domain.MarketItemMaterial,
		MaterialTypeID: &mat.ID,
		PriceGold:      decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	a := newUser(t, db, 500)
	b := newUser(t, db, 500)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, u := range []*domain.User{a, b} {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, errs[i] = market.Purchase(ctx, userID, item.ID)
		}(i, u.ID)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if !errors.Is(err, service.ErrAlreadyPurchased) {
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}
	if okCount != 1 {
		t.Fatalf("expected exactly one successful purchase, got %d", okCount)
	}

	// A second attempt by anyone must fail; mutation paths are frozen too.
	if _, err := market.Purchase(ctx, a.ID, item.ID); !errors.Is(err, service.ErrAlreadyPurchased) {
		t.Fatalf("expected ALREADY_PURCHASED, got %v", err)
	}
	if err := market.UpdatePrice(ctx, item.ID, decimal.NewFromInt(1)); !errors.Is(err, service.ErrItemLocked) {
		t.Fatalf("expected ITEM_LOCKED on price change, got %v", err)
	}
	if err := market.DeleteItem(ctx, item.ID); !errors.Is(err, service.ErrItemLocked) {
		t.Fatalf("expected ITEM_LOCKED on delete, got %v", err)
	}
}

func TestMarketPurchaseSwordMintsSwordAtListedLevel(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	market := service.NewMarketService(db, nil)

	level, err := repository.NewSwordLevelRepository(db).GetByLevel(ctx, db, 1)
	if err != nil {
		t.Fatalf("load level 1: %v", err)
	}
	item, err := market.CreateItem(ctx, service.CreateMarketItemInput{
		ItemType:     domain.MarketItemSword,
		SwordLevelID: &level.ID,
		PriceGold:    decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	buyer := newUser(t, db, 5000)
	purchase, err := market.Purchase(ctx, buyer.ID, item.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !purchase.PriceGold.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("purchase row must record the listed price, got %s", purchase.PriceGold)
	}

	if got := reload(t, db, buyer.ID).Gold; !got.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected balance 3000 after buying at 2000, got %s", got)
	}
	after, err := market.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if !after.IsPurchased {
		t.Fatal("item must be marked purchased")
	}

	// Exactly one new sword at the listed level, unsold and off the anvil;
	// the registration starter sword stays where it was.
	swords, err := repository.NewUserSwordRepository(db).ListByUser(ctx, buyer.ID, 0, 10)
	if err != nil {
		t.Fatalf("list swords: %v", err)
	}
	bought := 0
	for _, s := range swords {
		if s.SwordLevelID != level.ID {
			continue
		}
		bought++
		if s.IsOnAnvil || s.IsSolded || s.Code == "" {
			t.Fatalf("bought sword in wrong state: %+v", s)
		}
	}
	if bought != 1 {
		t.Fatalf("expected exactly one sword at the listed level, got %d", bought)
	}

	purchases, err := market.ListPurchases(ctx, buyer.ID, pagination.Page{Limit: 10})
	if err != nil {
		t.Fatalf("list purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("expected exactly one purchase row, got %d", len(purchases))
	}
}

func TestMarketPurchaseInsufficientGoldLeavesStateUntouched(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	market := service.NewMarketService(db, nil)

	mat := newMaterialType(t, db)
	item, err := market.CreateItem(ctx, service.CreateMarketItemInput{
		ItemType:       domain.MarketItemMaterial,
		MaterialTypeID: &mat.ID,
		PriceGold:      decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	poor := newUser(t, db, 10)
	if _, err := market.Purchase(ctx, poor.ID, item.ID); !errors.Is(err, service.ErrInsufficientGold) {
		t.Fatalf("expected INSUFFICIENT_GOLD, got %v", err)
	}

	after := reload(t, db, poor.ID)
	if !after.Gold.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("gold must be untouched, got %s", after.Gold)
	}
	got, err := market.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.IsPurchased {
		t.Fatal("item must remain unpurchased after a failed debit")
	}
}

func TestUpgradeSuccessAdvancesLevelInPlace(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 500)
	roller := &random.ScriptRoller{Successes: []bool{true}}
	forge := service.NewForgeService(db, roller, nil)

	result, err := forge.Upgrade(ctx, user.ID, *user.AnvilSwordID)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !result.Success || result.NewLevel == nil || result.NewLevel.Level != 1 {
		t.Fatalf("expected success to level 1, got %+v", result)
	}

	sword, err := repository.NewUserSwordRepository(db).GetByID(ctx, *user.AnvilSwordID)
	if err != nil {
		t.Fatalf("load sword: %v", err)
	}
	if sword.SwordLevelID != result.NewLevel.ID || !sword.IsOnAnvil {
		t.Fatalf("sword must advance in place and stay on anvil: %+v", sword)
	}

	after := reload(t, db, user.ID)
	if !after.Gold.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("upgrade cost must be debited, got %s", after.Gold)
	}
}

func TestUpgradeFailureDestroysSwordAndGrantsReward(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	newMaterialType(t, db) // the reward union must not be empty

	user := newUser(t, db, 500)
	roller := &random.ScriptRoller{Successes: []bool{false}, Picks: []int{0}}
	forge := service.NewForgeService(db, roller, nil)

	swordID := *user.AnvilSwordID
	result, err := forge.Upgrade(ctx, user.ID, swordID)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if result.Success {
		t.Fatal("scripted roll must fail")
	}
	if result.RewardMaterialID == nil && result.RewardShieldID == nil {
		t.Fatal("failure must grant a reward")
	}

	if _, err := repository.NewUserSwordRepository(db).GetByID(ctx, swordID); !repository.NotFound(err) {
		t.Fatalf("sword must be destroyed, got %v", err)
	}
	after := reload(t, db, user.ID)
	if after.AnvilSwordID != nil {
		t.Fatal("anvil reference must be cleared on failure")
	}
	if !after.Gold.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("debit must stick on failure too, got %s", after.Gold)
	}
}

func TestSynthesizeConsumesBatchAndMintsLevelZero(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 0)
	mat := newMaterialType(t, db)
	shield := newShieldType(t, db)

	materials := repository.NewUserMaterialRepository(db)
	shields := repository.NewUserShieldRepository(db)
	if err := materials.AddQuantity(ctx, db, user.ID, mat.ID, 2); err != nil {
		t.Fatalf("grant materials: %v", err)
	}
	if err := shields.AddQuantity(ctx, db, user.ID, shield.ID, 1); err != nil {
		t.Fatalf("grant shield: %v", err)
	}

	forge := service.NewForgeService(db, random.CryptoRoller{}, nil)
	sword, err := forge.Synthesize(ctx, user.ID, []service.SynthesisEntry{
		{Kind: service.SynthesisMaterial, TypeID: mat.ID},
		{Kind: service.SynthesisMaterial, TypeID: mat.ID},
		{Kind: service.SynthesisShield, TypeID: shield.ID},
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if sword.IsOnAnvil || sword.IsSolded || sword.Code == "" {
		t.Fatalf("minted sword in wrong state: %+v", sword)
	}

	m, err := materials.Get(ctx, user.ID, mat.ID)
	if err != nil {
		t.Fatalf("reload materials: %v", err)
	}
	if m.Quantity != 0 {
		t.Fatalf("expected materials consumed, got %d", m.Quantity)
	}

	// A short stack must abort the whole batch.
	_, err = forge.Synthesize(ctx, user.ID, []service.SynthesisEntry{
		{Kind: service.SynthesisShield, TypeID: shield.ID},
	})
	if !errors.Is(err, service.ErrInsufficientQuantity) {
		t.Fatalf("expected INSUFFICIENT_QUANTITY, got %v", err)
	}
}

func TestVoucherBoundsAndCancelRefund(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 5000)
	vouchers := service.NewVoucherService(db, nil)

	if _, err := vouchers.Create(ctx, user.ID, decimal.NewFromInt(1)); !errors.Is(err, service.ErrVoucherOutOfBounds) {
		t.Fatalf("below min must fail, got %v", err)
	}
	if _, err := vouchers.Create(ctx, user.ID, decimal.NewFromInt(999999)); !errors.Is(err, service.ErrVoucherOutOfBounds) {
		t.Fatalf("above max must fail, got %v", err)
	}

	v, err := vouchers.Create(ctx, user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	if v.Code == "" || v.Status != domain.VoucherStatusPending {
		t.Fatalf("voucher in wrong state: %+v", v)
	}
	if got := reload(t, db, user.ID).Gold; !got.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("gold must be debited, got %s", got)
	}

	if err := vouchers.Cancel(ctx, user.ID, v.ID); err != nil {
		t.Fatalf("cancel voucher: %v", err)
	}
	if got := reload(t, db, user.ID).Gold; !got.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("cancel must refund in full, got %s", got)
	}

	// Cancelling twice must not refund twice.
	if err := vouchers.Cancel(ctx, user.ID, v.ID); !errors.Is(err, service.ErrVoucherNotPending) {
		t.Fatalf("expected VOUCHER_NOT_PENDING, got %v", err)
	}
	if got := reload(t, db, user.ID).Gold; !got.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("double cancel must not refund again, got %s", got)
	}
}

func TestSellShieldOnAnvilClearsSlotWhenEmptied(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 0)
	shield := newShieldType(t, db)
	inventory := service.NewInventoryService(db, nil)

	shields := repository.NewUserShieldRepository(db)
	if err := shields.AddQuantity(ctx, db, user.ID, shield.ID, 2); err != nil {
		t.Fatalf("grant shields: %v", err)
	}
	if err := inventory.SetAnvilShield(ctx, user.ID, shield.ID); err != nil {
		t.Fatalf("set anvil shield: %v", err)
	}

	// Selling one of two keeps the anvil slot.
	if _, err := inventory.SellShield(ctx, user.ID, shield.ID, 1); err != nil {
		t.Fatalf("sell one: %v", err)
	}
	if reload(t, db, user.ID).AnvilShieldTypeID == nil {
		t.Fatal("anvil slot must survive a partial sale")
	}

	// Selling the last one clears flag and back-reference together.
	if _, err := inventory.SellShield(ctx, user.ID, shield.ID, 1); err != nil {
		t.Fatalf("sell last: %v", err)
	}
	if reload(t, db, user.ID).AnvilShieldTypeID != nil {
		t.Fatal("anvil slot must clear when the stack empties")
	}
}

func TestSellSwordSoftRetiresAndPaysOut(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 0)
	inventory := service.NewInventoryService(db, nil)

	swordID := *user.AnvilSwordID
	earned, err := inventory.SellSword(ctx, user.ID, swordID)
	if err != nil {
		t.Fatalf("sell sword: %v", err)
	}
	if !earned.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected selling cost 25, got %s", earned)
	}

	sword, err := repository.NewUserSwordRepository(db).GetByID(ctx, swordID)
	if err != nil {
		t.Fatalf("reload sword: %v", err)
	}
	if !sword.IsSolded || sword.IsOnAnvil {
		t.Fatalf("sold sword must be retired and off anvil: %+v", sword)
	}
	if reload(t, db, user.ID).AnvilSwordID != nil {
		t.Fatal("user anvil reference must clear")
	}

	if _, err := inventory.SellSword(ctx, user.ID, swordID); !errors.Is(err, service.ErrSwordAlreadySold) {
		t.Fatalf("expected ALREADY_SOLD, got %v", err)
	}
}

func TestGiftClaimGrantsEveryItemOnce(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	receiver := newUser(t, db, 0)
	mat := newMaterialType(t, db)
	gifts := service.NewGiftService(db, nil)

	goldAmount := decimal.NewFromInt(300)
	trust := decimal.NewFromInt(5)
	gift, err := gifts.Create(ctx, service.CreateGiftInput{
		ReceiverID: &receiver.ID,
		Items: []service.GiftItemInput{
			{ItemType: domain.GiftItemGold, Amount: &goldAmount},
			{ItemType: domain.GiftItemTrustPoints, Amount: &trust},
			{ItemType: domain.GiftItemMaterial, MaterialTypeID: &mat.ID},
		},
	})
	if err != nil {
		t.Fatalf("create gift: %v", err)
	}
	if gift.Status != domain.GiftStatusPending {
		t.Fatalf("gift must start pending, got %s", gift.Status)
	}

	claimed, err := gifts.Claim(ctx, receiver.ID, gift.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != domain.GiftStatusClaimed {
		t.Fatalf("expected CLAIMED, got %s", claimed.Status)
	}

	after := reload(t, db, receiver.ID)
	if !after.Gold.Equal(goldAmount) {
		t.Fatalf("gold item must credit, got %s", after.Gold)
	}
	if after.TrustPoints != 15 { // 10 default + 5 gifted
		t.Fatalf("trust points must credit, got %d", after.TrustPoints)
	}
	m, err := repository.NewUserMaterialRepository(db).Get(ctx, receiver.ID, mat.ID)
	if err != nil || m.Quantity != 1 {
		t.Fatalf("material item must land in inventory: %v %+v", err, m)
	}

	// A second claim must not grant again.
	if _, err := gifts.Claim(ctx, receiver.ID, gift.ID); !errors.Is(err, service.ErrGiftNotPending) {
		t.Fatalf("expected GIFT_NOT_PENDING, got %v", err)
	}
	if got := reload(t, db, receiver.ID).Gold; !got.Equal(goldAmount) {
		t.Fatalf("double claim must not double credit, got %s", got)
	}
}

func TestGiftCancelAndDeleteOnlyWhilePending(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	receiver := newUser(t, db, 0)
	gifts := service.NewGiftService(db, nil)
	amount := decimal.NewFromInt(100)
	goldGift := func() *domain.UserGift {
		g, err := gifts.Create(ctx, service.CreateGiftInput{
			ReceiverID: &receiver.ID,
			Items:      []service.GiftItemInput{{ItemType: domain.GiftItemGold, Amount: &amount}},
		})
		if err != nil {
			t.Fatalf("create gift: %v", err)
		}
		return g
	}

	// Cancel flips PENDING to CANCELLED and blocks the claim.
	cancelled := goldGift()
	if err := gifts.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err := gifts.Get(ctx, cancelled.ID)
	if err != nil {
		t.Fatalf("get cancelled gift: %v", err)
	}
	if got.Status != domain.GiftStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", got.Status)
	}
	if _, err := gifts.Claim(ctx, receiver.ID, cancelled.ID); !errors.Is(err, service.ErrGiftNotPending) {
		t.Fatalf("cancelled gift must not be claimable, got %v", err)
	}
	if err := gifts.Cancel(ctx, cancelled.ID); !errors.Is(err, service.ErrGiftNotPending) {
		t.Fatalf("second cancel must report GIFT_NOT_PENDING, got %v", err)
	}

	// Claimed gifts stay claimed: neither cancel nor delete may touch them.
	claimed := goldGift()
	if _, err := gifts.Claim(ctx, receiver.ID, claimed.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := gifts.Cancel(ctx, claimed.ID); !errors.Is(err, service.ErrGiftNotPending) {
		t.Fatalf("claimed gift must not cancel, got %v", err)
	}
	if err := gifts.Delete(ctx, claimed.ID); !errors.Is(err, service.ErrGiftNotPending) {
		t.Fatalf("claimed gift must not delete, got %v", err)
	}
	if got := reload(t, db, receiver.ID).Gold; !got.Equal(amount) {
		t.Fatalf("only the claimed gift may credit, got %s", got)
	}

	// Delete removes a PENDING gift entirely.
	doomed := goldGift()
	if err := gifts.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete pending: %v", err)
	}
	if _, err := gifts.Get(ctx, doomed.ID); !errors.Is(err, service.ErrGiftNotFound) {
		t.Fatalf("deleted gift must be gone, got %v", err)
	}
}

func TestSetAnvilSwordSwapsExclusiveSlot(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 0)
	firstID := *user.AnvilSwordID

	level, err := repository.NewSwordLevelRepository(db).GetByLevel(ctx, db, 0)
	if err != nil {
		t.Fatalf("load level 0: %v", err)
	}
	swords := repository.NewUserSwordRepository(db)
	second := &domain.UserSword{
		UserID:       user.ID,
		SwordLevelID: level.ID,
		Code:         fmt.Sprintf("%010d", time.Now().UnixNano()%10000000000),
	}
	if err := swords.Create(ctx, db, second); err != nil {
		t.Fatalf("create second sword: %v", err)
	}

	inventory := service.NewInventoryService(db, nil)
	if err := inventory.SetAnvilSword(ctx, user.ID, second.ID); err != nil {
		t.Fatalf("set anvil sword: %v", err)
	}

	old, err := swords.GetByID(ctx, firstID)
	if err != nil {
		t.Fatalf("reload first sword: %v", err)
	}
	if old.IsOnAnvil {
		t.Fatal("previous anvil sword must be released by the swap")
	}
	if got := reload(t, db, user.ID).AnvilSwordID; got == nil || *got != second.ID {
		t.Fatalf("anvil reference must point at the new sword, got %v", got)
	}
	n, err := swords.CountOnAnvil(ctx, user.ID)
	if err != nil {
		t.Fatalf("count on anvil: %v", err)
	}
	if n != 1 {
		t.Fatalf("at most one sword may sit on the anvil, got %d", n)
	}
}

func TestBannedUserIsBlockedButMaySupportTicket(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	user := newUser(t, db, 1000)
	users := service.NewUserService(db)
	if err := users.SetBanned(ctx, user.ID, true); err != nil {
		t.Fatalf("ban: %v", err)
	}

	vouchers := service.NewVoucherService(db, nil)
	if _, err := vouchers.Create(ctx, user.ID, decimal.NewFromInt(500)); !errors.Is(err, service.ErrUserBanned) {
		t.Fatalf("banned user must be guarded, got %v", err)
	}

	support := service.NewSupportService(db)
	ticket, err := support.Create(ctx, user.ID, "Unban request", "I believe my account was banned by mistake, please review.")
	if err != nil {
		t.Fatalf("banned users may file tickets: %v", err)
	}
	if ticket.IsReviewed {
		t.Fatal("fresh ticket must not be reviewed")
	}

	if err := support.Reply(ctx, ticket.ID, "Reviewed, ban stands."); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := support.Update(ctx, user.ID, ticket.ID, "Edited title", "Editing after review must be rejected, right?"); !errors.Is(err, service.ErrTicketReviewed) {
		t.Fatalf("expected TICKET_REVIEWED, got %v", err)
	}
}
