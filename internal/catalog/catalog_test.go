package catalog_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/robornet/internal/catalog"
)

func TestTariffs(t *testing.T) {
	t.Parallel()

	ts := catalog.Tariffs()
	var names []string
	for _, tr := range ts {
		names = append(names, tr.Name)
	}
	want := []string{"Стандарт", "Оптимум", "Абсолют", "WiFi Старт"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tariff names mismatch (-want +got):\n%s", diff)
	}

	// Mutating the copy must not leak back into the catalog.
	ts[1].Features[0] = "changed"
	if catalog.Tariffs()[1].Features[0] != "Бесплатное подключение" {
		t.Error("Tariffs() returned shared feature slice")
	}
}

func TestPricingGrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		tariffs         []catalog.Tariff
		wantHighlighted []bool
	}{
		{
			name:            "catalog",
			tariffs:         catalog.Tariffs(),
			wantHighlighted: []bool{false, true, false, false},
		},
		{
			name: "two flagged popular",
			tariffs: []catalog.Tariff{
				{ID: "a", Popular: true}, {ID: "b"}, {ID: "c", Popular: true},
			},
			wantHighlighted: []bool{true, false, false},
		},
		{
			name:            "none flagged",
			tariffs:         []catalog.Tariff{{ID: "a"}, {ID: "b"}},
			wantHighlighted: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards := catalog.PricingGrid(tt.tariffs)
			if len(cards) != len(tt.tariffs) {
				t.Fatalf("PricingGrid() returned %d cards, want %d", len(cards), len(tt.tariffs))
			}
			got := make([]bool, len(cards))
			for i, c := range cards {
				got[i] = c.Highlighted
				if c.Highlighted != (c.Badge == catalog.PopularBadge) {
					t.Errorf("card %d: highlighted=%v badge=%q", i, c.Highlighted, c.Badge)
				}
			}
			if diff := cmp.Diff(tt.wantHighlighted, got); diff != "" {
				t.Errorf("highlighted mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewsPager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total       int
		wantVisible []int // after construction, then after each ShowMore
	}{
		{total: 7, wantVisible: []int{3, 6, 7, 7}},
		{total: 6, wantVisible: []int{3, 6, 6}},
		{total: 2, wantVisible: []int{2, 2}},
		{total: 0, wantVisible: []int{0, 0}},
	}

	for _, tt := range tests {
		p := catalog.NewNewsPager(tt.total)
		for step, want := range tt.wantVisible {
			if step > 0 {
				p.ShowMore()
			}
			if p.Visible() != want {
				t.Errorf("total=%d step=%d Visible() = %d, want %d", tt.total, step, p.Visible(), want)
			}
			if p.HasMore() != (want < tt.total) {
				t.Errorf("total=%d step=%d HasMore() = %v", tt.total, step, p.HasMore())
			}
		}
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	items := catalog.News()
	if len(items) < 4 {
		t.Fatalf("catalog needs more than one page of news, got %d", len(items))
	}

	first := catalog.Page(items, 0)
	if first.Visible != 3 || len(first.Items) != 3 || !first.HasMore {
		t.Errorf("Page(0) = visible %d, items %d, more %v", first.Visible, len(first.Items), first.HasMore)
	}

	all := catalog.Page(items, 1000)
	if all.Visible != len(items) || all.HasMore {
		t.Errorf("Page(1000) = visible %d, more %v; want %d, false", all.Visible, all.HasMore, len(items))
	}
}

func TestNewsByID(t *testing.T) {
	t.Parallel()

	n, ok := catalog.NewsByID(2)
	if !ok {
		t.Fatal("NewsByID(2) not found")
	}
	if n.FullText == "" && n.Body() != n.Description {
		t.Errorf("Body() = %q, want description fallback", n.Body())
	}
	if _, ok := catalog.NewsByID(999); ok {
		t.Error("NewsByID(999) found, want missing")
	}
}

func TestChannels(t *testing.T) {
	t.Parallel()

	cs := catalog.Channels()
	if len(cs) != 11 {
		t.Fatalf("Channels() returned %d categories, want 11", len(cs))
	}
	for _, c := range cs {
		if !strings.HasPrefix(c.Image, "https://") || len(c.Logos) == 0 {
			t.Errorf("category %q has image %q and %d logos", c.Title, c.Image, len(c.Logos))
		}
	}
}

func TestVoiceInstruction(t *testing.T) {
	t.Parallel()

	got := catalog.VoiceInstruction(catalog.Tariffs(), catalog.ContactInfo())
	for _, want := range []string{
		"- «Оптимум» — 60 Мбит/с, 699 руб/мес, ТВ: 140+",
		"- «WiFi Старт» — 5 Мбит/с, 650 руб/мес (беспроводной, для частного сектора)",
		"Телефон: " + catalog.ContactInfo().PhoneShort,
		"Всё верно?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("VoiceInstruction() missing %q", want)
		}
	}
}

func TestChatInstructionAsksForSuggestions(t *testing.T) {
	t.Parallel()

	got := catalog.ChatInstruction(catalog.Tariffs(), catalog.ContactInfo())
	if !strings.Contains(got, "💡") {
		t.Error("ChatInstruction() does not describe the suggestion line")
	}
}

func TestPromoDelay(t *testing.T) {
	t.Parallel()

	if d := catalog.PromoData().Delay(); d <= 0 {
		t.Errorf("PromoData().Delay() = %v, want positive", d)
	}
}
