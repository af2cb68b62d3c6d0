package catalog

// NewsItem is a company news entry.
type NewsItem struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Tag         string `json:"tag"`
	TagColor    string `json:"tag_color"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FullText    string `json:"full_text,omitempty"`
}

// Body is the text the detail view shows.
func (n NewsItem) Body() string {
	if n.FullText != "" {
		return n.FullText
	}
	return n.Description
}

var news = []NewsItem{
	{
		ID:          1,
		Date:        "12.09.2025",
		Tag:         "Акция",
		TagColor:    "neon-lime",
		Title:       "Бесплатное подключение на тарифе «Оптимум»",
		Description: "До конца года подключаем тариф «Оптимум» без платы за монтаж.",
		FullText: "До 31 декабря при заключении договора на тариф «Оптимум» монтаж и настройка оборудования бесплатны. " +
			"Акция действует для многоквартирных домов, подключённых к сети РоборНЭТ.",
	},
	{
		ID:          2,
		Date:        "28.08.2025",
		Tag:         "Сеть",
		TagColor:    "neon-cyan",
		Title:       "Новые дома в Красноармейском районе",
		Description: "Мы подключили ещё 14 многоквартирных домов к оптической сети.",
	},
	{
		ID:          3,
		Date:        "15.08.2025",
		Tag:         "ТВ",
		TagColor:    "neon-coral",
		Title:       "Расширение пакета HD-каналов",
		Description: "В базовый пакет добавлены новые каналы в высоком качестве.",
		FullText: "Абоненты всех квартирных тарифов получили доступ к обновлённому пакету HD-каналов. " +
			"Каналы появятся в списке автоматически после перезагрузки приставки.",
	},
	{
		ID:          4,
		Date:        "01.08.2025",
		Tag:         "Частный сектор",
		TagColor:    "neon-cyan",
		Title:       "WiFi Старт теперь с ночным ускорением",
		Description: "С 00:00 до 08:00 скорость на тарифе WiFi Старт увеличивается до 20 Мбит/с.",
	},
	{
		ID:          5,
		Date:        "20.07.2025",
		Tag:         "Сервис",
		TagColor:    "neon-lime",
		Title:       "Заявка за минуту с AI-консультантом",
		Description: "Оставить заявку на подключение теперь можно голосом прямо на сайте.",
	},
	{
		ID:          6,
		Date:        "05.07.2025",
		Tag:         "Работы",
		TagColor:    "neon-coral",
		Title:       "Плановые работы на магистрали",
		Description: "В ночь на 8 июля возможны кратковременные перерывы связи.",
		FullText: "8 июля с 02:00 до 05:00 проводятся плановые работы на магистральном узле. " +
			"Возможны перерывы связи до 15 минут. Приносим извинения за неудобства.",
	},
	{
		ID:          7,
		Date:        "18.06.2025",
		Tag:         "Компания",
		TagColor:    "neon-cyan",
		Title:       "РоборНЭТ открыл новый офис",
		Description: "Новый офис обслуживания абонентов работает без перерыва на обед.",
	},
}

// News returns all news items, newest first.
func News() []NewsItem {
	return append([]NewsItem(nil), news...)
}

// NewsByID finds a news item for the detail view.
func NewsByID(id int) (NewsItem, bool) {
	for _, n := range news {
		if n.ID == id {
			return n, true
		}
	}
	return NewsItem{}, false
}

const (
	// NewsInitialVisible is how many items the list shows before "show more".
	NewsInitialVisible = 3
	// NewsPageStep is how many items each "show more" reveals.
	NewsPageStep = 3
)

// NewsPager tracks the reveal counter of the news list.
type NewsPager struct {
	visible int
	total   int
}

// NewNewsPager starts a pager over total items.
func NewNewsPager(total int) *NewsPager {
	return &NewsPager{visible: clampVisible(NewsInitialVisible, total), total: total}
}

// ShowMore reveals the next step, capped at the total.
func (p *NewsPager) ShowMore() {
	p.visible = clampVisible(p.visible+NewsPageStep, p.total)
}

// HasMore reports whether the "show more" control should be shown.
func (p *NewsPager) HasMore() bool { return p.visible < p.total }

// Visible is the current counter.
func (p *NewsPager) Visible() int { return p.visible }

// NewsPage is the visible part of the news list.
type NewsPage struct {
	Items   []NewsItem `json:"items"`
	Visible int        `json:"visible"`
	Total   int        `json:"total"`
	HasMore bool       `json:"has_more"`
}

// Page returns the first visible items. A non-positive counter means the
// initial page; the counter is capped at len(items).
func Page(items []NewsItem, visible int) NewsPage {
	if visible <= 0 {
		visible = NewsInitialVisible
	}
	visible = clampVisible(visible, len(items))
	return NewsPage{
		Items:   append([]NewsItem(nil), items[:visible]...),
		Visible: visible,
		Total:   len(items),
		HasMore: visible < len(items),
	}
}

func clampVisible(v, total int) int {
	if v > total {
		return total
	}
	return v
}
