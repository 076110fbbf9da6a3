package assistant

import (
	"regexp"
	"strings"

	"fintrack-go/internal/domain/intent"
)

type Domain string

const (
	DomainTransaction Domain = "transaction"
	DomainReceipt     Domain = "receipt"
	DomainBudget      Domain = "budget"
	DomainSavings     Domain = "savings"
	DomainCategory    Domain = "category"
	DomainLink        Domain = "link"
)

type Route struct {
	Domain  Domain
	Channel intent.Channel
}

// Rules are tried in order; the first match wins. Budget vocabulary comes
// first so "budget tabungan" is a budget command, and every keyword rule
// outranks attachment routing.
var domainRules = []struct {
	domain  Domain
	pattern *regexp.Regexp
}{
	{DomainBudget, regexp.MustCompile(`\b(budget|budgets|anggaran|limit|batas)\b`)},
	{DomainSavings, regexp.MustCompile(`\b(tabung\w*|menabung|nabung|savings?|goals?|target|celengan)\b`)},
	{DomainCategory, regexp.MustCompile(`\b(kategori|category|categories)\b`)},
}

// Classify picks exactly one domain for a message. mimeType is the attachment
// type, empty for plain text.
func Classify(text, mimeType string) Route {
	normalized := strings.ToLower(strings.TrimSpace(text))
	channel := channelOf(mimeType)

	for _, rule := range domainRules {
		if rule.pattern.MatchString(normalized) {
			return Route{Domain: rule.domain, Channel: channel}
		}
	}

	if channel == intent.ChannelImage {
		return Route{Domain: DomainReceipt, Channel: channel}
	}
	return Route{Domain: DomainTransaction, Channel: channel}
}

func channelOf(mimeType string) intent.Channel {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return intent.ChannelVoice
	case strings.HasPrefix(mimeType, "image/"):
		return intent.ChannelImage
	default:
		return intent.ChannelText
	}
}

var linkPattern = regexp.MustCompile(`(?i)^/?link\s+([a-z0-9]{4,12})$`)

// linkCode returns the activation code of a "/link CODE" message.
func linkCode(text string) (string, bool) {
	match := linkPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", false
	}
	return strings.ToUpper(match[1]), true
}
