package models

// Profile is a swipeable candidate. Profiles are immutable once fetched; the
// pool only ever removes them.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PhotoURL     string   `json:"photoUrl,omitempty"`
	UserType     string   `json:"userType"`
	Role         string   `json:"role,omitempty"` // class year / program, e.g. "Junior", "MBA1"
	Major        string   `json:"major,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	WhyJoin      string   `json:"whyJoin,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Expertise    []string `json:"expertise,omitempty"`
}

// Identity is the authenticated user as reported by the upstream API.
type Identity struct {
	ID                string   `json:"id"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	UserType          string   `json:"userType,omitempty"`
	HasCompletedSetup bool     `json:"hasCompletedSetup"`
	Profile           *Profile `json:"profile,omitempty"`
}
