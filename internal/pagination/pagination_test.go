package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantLimit  int
		wantOK     bool
	}{
		{"first page default limit", 1, 0, 0, DefaultLimit, true},
		{"explicit limit", 2, 10, 10, 10, true},
		{"limit capped", 1, 500, 0, MaxLimit, true},
		{"negative limit falls back", 3, -5, 2 * DefaultLimit, DefaultLimit, true},
		{"zero page invalid", 0, 10, 0, 0, false},
		{"negative page invalid", -1, 10, 0, 0, false},
		{"last allowed page", MaxPage, 10, (MaxPage - 1) * 10, 10, true},
		{"page past cap invalid", MaxPage + 1, 10, 0, 0, false},
		{"huge page invalid", int(^uint(0) >> 1), 10, 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := Normalize(tc.page, tc.limit)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if p.Offset != tc.wantOffset || p.Limit != tc.wantLimit {
				t.Fatalf("got offset=%d limit=%d; want offset=%d limit=%d",
					p.Offset, p.Limit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}

func TestSort(t *testing.T) {
	if got := Sort("price_gold", "created_at", "price_gold", "created_at"); got != "price_gold" {
		t.Fatalf("allowed column rejected: %s", got)
	}
	if got := Sort("1;DROP TABLE users", "created_at", "price_gold", "created_at"); got != "created_at" {
		t.Fatalf("unknown column not replaced: %s", got)
	}
}
