// Package dates turns free-text date phrases ("kemarin", "3 days ago",
// "15 juli", "15/7/2024") into absolute points in time.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Locale string

const (
	LocaleID Locale = "id"
	LocaleEN Locale = "en"
)

func ParseLocale(value string) Locale {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "en-us", "en-gb", "english":
		return LocaleEN
	default:
		return LocaleID
	}
}

type relativeRule struct {
	pattern *regexp.Regexp
	days    func(match []string) (int, bool)
}

func fixed(days int) func([]string) (int, bool) {
	return func([]string) (int, bool) { return days, true }
}

func countBack(match []string) (int, bool) {
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 0 || n > 3660 {
		return 0, false
	}
	return -n, true
}

var relativeRules = map[Locale][]relativeRule{
	LocaleEN: {
		{regexp.MustCompile(`\b(\d{1,4})\s+days?\s+ago\b`), countBack},
		{regexp.MustCompile(`\byesterday\b`), fixed(-1)},
		{regexp.MustCompile(`\btomorrow\b`), fixed(1)},
		{regexp.MustCompile(`\blast\s+week\b`), fixed(-7)},
	},
	LocaleID: {
		{regexp.MustCompile(`\b(\d{1,4})\s+hari\s+(?:yang\s+)?lalu\b`), countBack},
		{regexp.MustCompile(`\bminggu\s+(?:lalu|kemarin)\b`), fixed(-7)},
		{regexp.MustCompile(`\bkemarin\b`), fixed(-1)},
		{regexp.MustCompile(`\bbesok\b`), fixed(1)},
	},
}

var monthNames = map[Locale]map[string]time.Month{
	LocaleEN: {
		"january": time.January, "jan": time.January,
		"february": time.February, "feb": time.February,
		"march": time.March, "mar": time.March,
		"april": time.April, "apr": time.April,
		"may": time.May,
		"june": time.June, "jun": time.June,
		"july": time.July, "jul": time.July,
		"august": time.August, "aug": time.August,
		"september": time.September, "sep": time.September, "sept": time.September,
		"october": time.October, "oct": time.October,
		"november": time.November, "nov": time.November,
		"december": time.December, "dec": time.December,
	},
	LocaleID: {
		"januari": time.January, "jan": time.January,
		"februari": time.February, "feb": time.February,
		"maret": time.March, "mar": time.March,
		"april": time.April, "apr": time.April,
		"mei": time.May,
		"juni": time.June, "jun": time.June,
		"juli": time.July, "jul": time.July,
		"agustus": time.August, "agu": time.August, "agt": time.August,
		"september": time.September, "sep": time.September,
		"oktober": time.October, "okt": time.October,
		"november": time.November, "nov": time.November,
		"desember": time.December, "des": time.December,
	},
}

var (
	dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})\s+([a-z]{3,9})\.?(?:\s+(\d{4}))?\b`)
	monthDayPattern = regexp.MustCompile(`\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	slashPattern    = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?(?:$|[^\d/])`)
	isoPattern      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
)

// Resolve interprets text relative to now, whose location is the caller's
// timezone. The preferred locale is tried first, then the other one, since
// users often mix languages in a single message.
func Resolve(text string, locale Locale, now time.Time) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, false
	}

	today := startOfDay(now)
	locales := orderedLocales(locale)

	for _, loc := range locales {
		for _, rule := range relativeRules[loc] {
			match := rule.pattern.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			if days, ok := rule.days(match); ok {
				return today.AddDate(0, 0, days), true
			}
		}
	}

	for _, loc := range locales {
		if t, ok := resolveNamedMonth(text, monthNames[loc], now); ok {
			return t, true
		}
	}

	return resolveNumeric(text, now)
}

func orderedLocales(locale Locale) []Locale {
	if locale == LocaleEN {
		return []Locale{LocaleEN, LocaleID}
	}
	return []Locale{LocaleID, LocaleEN}
}

func resolveNamedMonth(text string, months map[string]time.Month, now time.Time) (time.Time, bool) {
	for _, match := range dayMonthPattern.FindAllStringSubmatch(text, -1) {
		month, ok := months[match[2]]
		if !ok {
			continue
		}
		if t, ok := buildDate(match[3], month, match[1], now); ok {
			return t, true
		}
	}

	for _, match := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		month, ok := months[match[1]]
		if !ok {
			continue
		}
		if t, ok := buildDate(match[3], month, match[2], now); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func resolveNumeric(text string, now time.Time) (time.Time, bool) {
	if match := isoPattern.FindStringSubmatch(text); match != nil {
		month, err := strconv.Atoi(match[2])
		if err == nil && month >= 1 && month <= 12 {
			if t, ok := buildDate(match[1], time.Month(month), match[3], now); ok {
				return t, true
			}
		}
	}

	for _, idx := range slashPattern.FindAllStringSubmatchIndex(text, -1) {
		day, monthText := text[idx[2]:idx[3]], text[idx[4]:idx[5]]
		year := ""
		if idx[6] >= 0 {
			year = text[idx[6]:idx[7]]
		}
		if year == "" && isQuantity(text[:idx[2]], text[idx[5]:]) {
			continue
		}
		month, err := strconv.Atoi(monthText)
		if err != nil || month < 1 || month > 12 {
			continue
		}
		if len(year) == 2 {
			year = "20" + year
		}
		if t, ok := buildDate(year, time.Month(month), day, now); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// "1/2 kg" or "3/4 liter" is a fraction, not a date, unless the text right
// before it says it is one ("tgl 1/2").
var (
	unitWords = map[string]bool{
		"kg": true, "kilo": true, "g": true, "gr": true, "gram": true, "ons": true,
		"l": true, "lt": true, "ltr": true, "liter": true, "litre": true, "ml": true,
		"pcs": true, "pc": true, "buah": true, "biji": true, "porsi": true, "bungkus": true,
		"lusin": true, "gelas": true, "botol": true, "cup": true, "cups": true,
		"sdm": true, "sdt": true, "tbsp": true, "tsp": true, "lb": true, "oz": true, "x": true,
	}
	dateWords = map[string]bool{
		"tgl": true, "tanggal": true, "date": true, "on": true, "pada": true,
	}
)

func isQuantity(before, after string) bool {
	if dateWords[lastWord(before)] {
		return false
	}
	return unitWords[firstWord(after)]
}

func firstWord(text string) string {
	text = strings.TrimLeft(text, " \t")
	end := strings.IndexFunc(text, func(r rune) bool { return r < 'a' || r > 'z' })
	if end < 0 {
		return text
	}
	return text[:end]
}

func lastWord(text string) string {
	text = strings.TrimRight(text, " \t.:")
	start := strings.LastIndexFunc(text, func(r rune) bool { return r < 'a' || r > 'z' })
	return text[start+1:]
}

func buildDate(yearText string, month time.Month, dayText string, now time.Time) (time.Time, bool) {
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := now.Year()
	if yearText != "" {
		parsed, err := strconv.Atoi(yearText)
		if err != nil || parsed < 1900 || parsed > 2200 {
			return time.Time{}, false
		}
		year = parsed
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes 31 February into March; reject instead.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
