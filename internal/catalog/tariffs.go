// Package catalog holds the static site content: tariffs, TV channel
// categories, news, FAQ, contacts and promo data, plus the small amount of
// view state derived from it (pricing cards, news pages).
package catalog

// TariffType is the kind of dwelling a tariff is sold for.
type TariffType string

const (
	TariffApartment TariffType = "apartment"
	TariffHouse     TariffType = "house"
)

// Tariff is a read-only catalog entry.
type Tariff struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Price      int        `json:"price"`
	Speed      int        `json:"speed"`
	NightSpeed int        `json:"night_speed,omitempty"`
	TVChannels string     `json:"tv_channels,omitempty"`
	Features   []string   `json:"features,omitempty"`
	Wireless   bool       `json:"wireless"`
	Popular    bool       `json:"popular"`
	Type       TariffType `json:"type"`
	ButtonText string     `json:"button_text"`
}

var tariffs = []Tariff{
	{
		ID:         "1",
		Name:       "Стандарт",
		Price:      599,
		Speed:      40,
		TVChannels: "140+",
		Type:       TariffApartment,
		ButtonText: "ПОДКЛЮЧИТЬ",
	},
	{
		ID:         "2",
		Name:       "Оптимум",
		Price:      699,
		Speed:      60,
		TVChannels: "140+",
		Popular:    true,
		Type:       TariffApartment,
		Features:   []string{"Бесплатное подключение"},
		ButtonText: "ПОДКЛЮЧИТЬ СЕЙЧАС",
	},
	{
		ID:         "3",
		Name:       "Абсолют",
		Price:      799,
		Speed:      100,
		TVChannels: "140+",
		Type:       TariffApartment,
		ButtonText: "ПОДКЛЮЧИТЬ",
	},
	{
		ID:         "4",
		Name:       "WiFi Старт",
		Price:      650,
		Speed:      5,
		NightSpeed: 20,
		Wireless:   true,
		Type:       TariffHouse,
		ButtonText: "ПОДРОБНЕЕ",
	},
}

// Tariffs returns a copy of the catalog tariffs in display order.
func Tariffs() []Tariff {
	out := make([]Tariff, len(tariffs))
	for i, t := range tariffs {
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}

// PopularTariff returns the first tariff flagged popular.
func PopularTariff(ts []Tariff) (Tariff, bool) {
	for _, t := range ts {
		if t.Popular {
			return t, true
		}
	}
	return Tariff{}, false
}

// PricingCard is one tariff as the pricing grid renders it.
type PricingCard struct {
	Tariff      Tariff `json:"tariff"`
	Highlighted bool   `json:"highlighted"`
	Badge       string `json:"badge,omitempty"`
}

// PopularBadge is shown on the highlighted card.
const PopularBadge = "хит продаж"

// PricingGrid builds one card per tariff, in order. Only the first popular
// tariff is highlighted, so the grid never shows two selected cards even if
// the data flags more than one.
func PricingGrid(ts []Tariff) []PricingCard {
	cards := make([]PricingCard, 0, len(ts))
	highlighted := false
	for _, t := range ts {
		card := PricingCard{Tariff: t}
		if t.Popular && !highlighted {
			card.Highlighted = true
			card.Badge = PopularBadge
			highlighted = true
		}
		cards = append(cards, card)
	}
	return cards
}
