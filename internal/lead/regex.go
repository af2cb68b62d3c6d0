package lead

import (
	"regexp"
	"strings"
)

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Имя:\s*([А-ЯЁа-яё][а-яё]+)`),
		regexp.MustCompile(`(?i)(?:зовут\s*)([А-ЯЁа-яё][а-яё]+)`),
	}
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Телефон:\s*(\+?\d[\d\s\-(]{8,14})`),
		regexp.MustCompile(`(\+?[78][\s-]?\(?\d{3}\)?[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2})`),
	}
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Адрес:\s*(.+?)(?:,\s*(?:Тариф|Телефон|Имя)|$)`),
	}
	tariffPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Тариф:\s*[«"]?([^»".,\n]+)`),
		regexp.MustCompile(`«([^»]+)»`),
	}
)

// RegexExtractor applies one independent pattern list per field. Fields do
// not influence each other; the first pattern that matches wins.
type RegexExtractor struct{}

// Extract implements Extractor. Whitespace runs are collapsed before matching.
func (RegexExtractor) Extract(text string) Fields {
	raw := strings.Join(strings.Fields(text), " ")
	return Fields{
		Name:    firstMatch(raw, namePatterns),
		Phone:   firstMatch(raw, phonePatterns),
		Address: firstMatch(raw, addressPatterns),
		Tariff:  firstMatch(raw, tariffPatterns),
	}
}

func firstMatch(s string, patterns []*regexp.Regexp) Optional {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return Some(v)
			}
		}
	}
	return None()
}
