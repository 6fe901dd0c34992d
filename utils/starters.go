package utils

import (
	"fmt"
	"math/rand"

	"tindler_server/models"
)

var starterTemplates = []string{
	"Ask about their hot take on ",
	"You both seem passionate about ",
	"Start with what drew you to their profile: ",
	"Common ground: you're both into ",
}

var interestContexts = []string{
	" — it could lead to a great collab!",
	" — maybe you can share insights?",
	" — what's their take?",
	" — there's definitely common ground here.",
}

// GenerateStarter produces a single icebreaker suggestion for a profile
func GenerateStarter(rng *rand.Rand, profile models.Profile) string {
	template := starterTemplates[rng.Intn(len(starterTemplates))]
	if len(profile.Interests) > 0 {
		interest := profile.Interests[rng.Intn(len(profile.Interests))]
		context := interestContexts[rng.Intn(len(interestContexts))]
		return template + interest + context
	}
	if len(profile.Expertise) > 0 {
		area := profile.Expertise[rng.Intn(len(profile.Expertise))]
		return fmt.Sprintf("Curious about their experience with %s — sounds fascinating!", area)
	}
	return fmt.Sprintf("%stheir path as a %s. What's it been like?", template, profile.Role)
}

// GenerateConversationStarters produces a small set of icebreakers for a profile
func GenerateConversationStarters(rng *rand.Rand, profile models.Profile) []string {
	starters := make([]string, 0, 3)

	if profile.Major != "" {
		starters = append(starters, fmt.Sprintf("What's keeping you busy in %s?", profile.Major))
	} else {
		starters = append(starters, "What's the most exciting thing you're working on?")
	}

	if len(profile.Interests) > 0 {
		interest := profile.Interests[rng.Intn(len(profile.Interests))]
		starters = append(starters, fmt.Sprintf("I'd love to hear more about your interest in %s!", interest))
	} else if profile.Role != "" {
		starters = append(starters, fmt.Sprintf("What got you interested in %s?", profile.Role))
	} else {
		starters = append(starters, "What drew you here in the first place?")
	}

	if profile.WhyJoin != "" {
		starters = append(starters, fmt.Sprintf("You mentioned %q — tell me more?", Truncate(profile.WhyJoin, 60)))
	} else {
		starters = append(starters, GenerateStarter(rng, profile))
	}

	return starters
}
