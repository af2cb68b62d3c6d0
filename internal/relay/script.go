package relay

import (
	"strings"

	"github.com/edgard/robornet/internal/lead"
)

// OpeningMessage starts every relay conversation.
const OpeningMessage = "Хочу подключить интернет"

// Script chooses the next customer message from the backend's last reply by
// keyword matching. It assumes the backend asks for name, phone, address and
// tariff in some order and acknowledges the request at the end.
type Script struct {
	lead lead.Lead

	sentName   bool
	sentPhone  bool
	sentAddr   bool
	sentTariff bool

	acknowledged bool
}

// NewScript starts a script for l.
func NewScript(l lead.Lead) *Script {
	return &Script{lead: l}
}

// Acknowledged reports whether the backend confirmed the request.
func (s *Script) Acknowledged() bool { return s.acknowledged }

// Next returns the message to send in response to reply. ok is false when
// the conversation is over: the backend acknowledged the request after the
// phone was sent, or there is nothing to answer with.
func (s *Script) Next(reply string) (msg string, ok bool) {
	msg = s.next(strings.ToLower(reply))
	return msg, msg != ""
}

func (s *Script) next(r string) string {
	l := s.lead

	if s.sentPhone && containsAny(r, "принят", "создан", "зарегистрир") {
		s.acknowledged = true
		return ""
	}
	if !s.sentName && containsAny(r, "зовут", "ваше имя", "обращаться") {
		s.sentName = true
		s.sentPhone = true
		if l.Phone != "" {
			return l.Name + ". Мой телефон: " + l.Phone
		}
		return l.Name
	}
	if !s.sentPhone && containsAny(r, "телефон", "номер") {
		s.sentPhone = true
		// Unknown phone ends the conversation here.
		return l.Phone
	}
	if !s.sentAddr && (containsAny(r, "адрес", "проживаете") || (strings.Contains(r, "где") && strings.Contains(r, "подключ"))) {
		s.sentAddr = true
		return l.Address
	}
	if !s.sentTariff && containsAny(r, "тариф", "задачи", "нужен интернет") {
		s.sentTariff = true
		if l.Tariff != "" {
			return "Хочу тариф «" + l.Tariff + "»"
		}
		return "Самый популярный"
	}
	if containsAny(r, "время", "удобно", "когда") {
		return "В любое рабочее время"
	}
	if containsAny(r, "верно", "правильн", "данные") {
		return "Да, всё верно"
	}
	if s.sentAddr && s.sentPhone && containsAny(r, "возможность подключения", "доступно", "подключим") {
		return "Отлично! Пожалуйста, оформите заявку на подключение интернета."
	}
	if containsAny(r, "роутер", "wi-fi", "камер", "дополнительн") {
		return "Нет, спасибо. Оформите только заявку на подключение интернета."
	}
	if !s.sentPhone && l.Phone != "" {
		s.sentPhone = true
		return l.Phone
	}
	return "Да, оформите заявку на подключение"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
