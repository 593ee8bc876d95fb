package enums

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts the Cyrillic and Latin tokens users type in the bot.
func ParseGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "м", "m", "парень", "male", "муж", "мужской":
		return GenderMale, true
	case "ж", "f", "девушка", "female", "жен", "женский":
		return GenderFemale, true
	default:
		return "", false
	}
}
