package categories

import (
	"regexp"
	"strings"

	"fintrack-go/internal/domain/names"
)

const maxNameLen = 50

func validateName(name string) (string, error) {
	name = names.Normalize(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len([]rune(name)) > maxNameLen {
		return "", ErrNameTooLong.Withf("category name must be at most %d characters", maxNameLen)
	}
	return name, nil
}

func equalName(a, b string) bool {
	return names.Equal(a, b)
}

var colorRegex = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func normalizeColor(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}

	color := strings.ToLower(strings.TrimSpace(*value))
	if color == "" {
		return nil, nil
	}
	if !colorRegex.MatchString(color) {
		return nil, ErrInvalidColor
	}

	return &color, nil
}

func normalizeIcon(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}

	icon := strings.TrimSpace(*value)
	if icon == "" {
		return nil, nil
	}
	if !isSingleEmojiGrapheme(icon) {
		return nil, ErrInvalidIcon
	}

	return &icon, nil
}

// lenient variants drop bad suggestions from the understanding service
// instead of failing the whole transaction.
func lenientColor(value *string) *string {
	color, err := normalizeColor(value)
	if err != nil {
		return nil
	}
	return color
}

func lenientIcon(value *string) *string {
	icon, err := normalizeIcon(value)
	if err != nil {
		return nil
	}
	return icon
}

const (
	variationSelector16    rune = 0xFE0F
	zeroWidthJoiner        rune = 0x200D
	combiningEnclosingMark rune = 0x20E3
)

func isSingleEmojiGrapheme(value string) bool {
	runes := []rune(value)
	if len(runes) == 0 {
		return false
	}

	if isKeycapEmoji(runes) {
		return true
	}
	if len(runes) == 2 && isRegionalIndicator(runes[0]) && isRegionalIndicator(runes[1]) {
		return true
	}

	index, ok := consumeEmojiComponent(runes, 0)
	if !ok {
		return false
	}
	for index < len(runes) {
		if runes[index] != zeroWidthJoiner {
			return false
		}
		next, ok := consumeEmojiComponent(runes, index+1)
		if !ok {
			return false
		}
		index = next
	}

	return true
}

func consumeEmojiComponent(runes []rune, index int) (int, bool) {
	if index >= len(runes) || !isEmojiBase(runes[index]) {
		return index, false
	}
	index++

	if index < len(runes) && runes[index] == variationSelector16 {
		index++
	}
	if index < len(runes) && isEmojiModifier(runes[index]) {
		index++
	}
	return index, true
}

func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r == 0x00A9 || r == 0x00AE || r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	}
	return false
}

func isEmojiModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isKeycapEmoji(runes []rune) bool {
	switch len(runes) {
	case 2:
		return isKeycapBase(runes[0]) && runes[1] == combiningEnclosingMark
	case 3:
		return isKeycapBase(runes[0]) && runes[1] == variationSelector16 && runes[2] == combiningEnclosingMark
	}
	return false
}

func isKeycapBase(r rune) bool {
	return r == '#' || r == '*' || (r >= '0' && r <= '9')
}
