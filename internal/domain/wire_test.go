package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// Monetary fields must survive the wire as exact decimal strings, including
// values beyond the 53-bit float-safe range.
func TestGoldWireRoundTrip(t *testing.T) {
	big, err := decimal.NewFromString("90071992547409931234567")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	u := User{ID: 1, Email: "smith@forge.io", Gold: big}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"gold":"90071992547409931234567"`) {
		t.Fatalf("gold not serialized as decimal string: %s", raw)
	}

	var back User
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Gold.Equal(big) {
		t.Fatalf("round trip lost precision: %s != %s", back.Gold, big)
	}
}

func TestRarityValid(t *testing.T) {
	for _, r := range []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if Rarity("SHINY").Valid() {
		t.Fatal("unknown rarity accepted")
	}
}

func TestMarketItemTypeValid(t *testing.T) {
	if !MarketItemSword.Valid() || !MarketItemMaterial.Valid() || !MarketItemShield.Valid() {
		t.Fatal("known item types rejected")
	}
	if MarketItemType("POTION").Valid() {
		t.Fatal("unknown item type accepted")
	}
}

func TestGiftItemTypeValid(t *testing.T) {
	if !GiftItemGold.Valid() || !GiftItemTrustPoints.Valid() {
		t.Fatal("known gift item types rejected")
	}
	if GiftItemType("XP").Valid() {
		t.Fatal("unknown gift item type accepted")
	}
}
