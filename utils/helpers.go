package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"tindler_server/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the string looks like an email address
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// TimeAgo formats a timestamp as a compact relative age ("now", "5m", "3h", "2d")
func TimeAgo(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	}
}

// Truncate shortens a string to maxLength runes, adding an ellipsis when cut
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// CapitalizeFirst upper-cases the first rune of a string
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ShuffleProfiles returns a shuffled copy of the profile slice
func ShuffleProfiles(rng *rand.Rand, profiles []models.Profile) []models.Profile {
	shuffled := make([]models.Profile, len(profiles))
	copy(shuffled, profiles)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
