package catalog

import "time"

// FAQEntry is one accordion item.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faq = []FAQEntry{
	{
		Question: "Сколько стоит подключение?",
		Answer:   "Подключение на тарифе «Оптимум» бесплатное. Для остальных тарифов стоимость монтажа уточняйте у консультанта.",
	},
	{
		Question: "Как быстро меня подключат?",
		Answer:   "Обычно монтажник приезжает в течение 1–3 рабочих дней после заявки, в удобное для вас время.",
	},
	{
		Question: "Можно ли подключить частный дом?",
		Answer:   "Да, для частного сектора есть беспроводной тариф «WiFi Старт». Возможность подключения зависит от адреса.",
	},
	{
		Question: "Нужен ли свой роутер?",
		Answer:   "Можно использовать свой роутер или взять наш в аренду. Настройку выполнит монтажник.",
	},
	{
		Question: "Как смотреть ТВ-каналы?",
		Answer:   "Более 140 каналов доступны на квартирных тарифах через приставку или приложение на Smart TV.",
	},
	{
		Question: "Как оплатить интернет?",
		Answer:   "Оплатить можно в личном кабинете, через банковское приложение или в офисе обслуживания.",
	},
}

// FAQ returns the FAQ entries in display order.
func FAQ() []FAQEntry {
	return append([]FAQEntry(nil), faq...)
}

// Contacts are the company contact and legal details.
type Contacts struct {
	PhoneShort          string `json:"phone_short"`
	PhoneMobile         string `json:"phone_mobile"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	WorkingHours        string `json:"working_hours"`
	WorkingHoursWeekend string `json:"working_hours_weekend"`
	LegalName           string `json:"legal_name"`
	INN                 string `json:"inn"`
	KPP                 string `json:"kpp"`
	OGRN                string `json:"ogrn"`
	LegalAddress        string `json:"legal_address"`
	VK                  string `json:"vk"`
	TelegramChannel     string `json:"tg_channel"`
	TelegramBot         string `json:"tg_bot"`
}

var contacts = Contacts{
	PhoneShort:          "50-50-34",
	PhoneMobile:         "+7 (937) 550-50-34",
	Email:               "info@robornet.ru",
	Address:             "г. Волгоград, ул. Мира, 19",
	WorkingHours:        "Пн–Пт: 9:00–19:00",
	WorkingHoursWeekend: "Сб–Вс: 10:00–16:00",
	LegalName:           "ООО «РОБОР»",
	INN:                 "3444270123",
	KPP:                 "344401001",
	OGRN:                "1193443001234",
	LegalAddress:        "400066, г. Волгоград, ул. Мира, д. 19, офис 5",
	VK:                  "https://vk.com/robornet",
	TelegramChannel:     "https://t.me/robornet_news",
	TelegramBot:         "https://t.me/robornet_bot",
}

// ContactInfo returns the company contacts.
func ContactInfo() Contacts { return contacts }

// Promo is the promotional modal content.
type Promo struct {
	Badge           string `json:"badge"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PrimaryButton   string `json:"primary_button"`
	SecondaryButton string `json:"secondary_button"`
	DelayMillis     int64  `json:"delay_ms"`
}

// Delay is how long after page load the modal appears.
func (p Promo) Delay() time.Duration {
	return time.Duration(p.DelayMillis) * time.Millisecond
}

var promo = Promo{
	Badge:           "Спецпредложение",
	Title:           "Подключение за 0 ₽",
	Description:     "Оформите заявку на тариф «Оптимум» и получите бесплатное подключение и первый месяц ТВ в подарок.",
	PrimaryButton:   "Отлично, спасибо",
	SecondaryButton: "Спросить консультанта",
	DelayMillis:     15000,
}

// PromoData returns the promo modal content.
func PromoData() Promo { return promo }
