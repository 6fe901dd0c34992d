package services

import (
	"context"
	"errors"
	"log"
	"time"
)

const authProbeTimeout = 3 * time.Second

// SelectMatchmaker decides between the remote backend and the local demo
// matchmaker. The remote wins only when a base URL and a usable token are
// present and the backend answers an identity probe; everything else
// downgrades to demo mode so the app stays usable without credentials.
func SelectMatchmaker(baseURL, token string) Matchmaker {
	if baseURL == "" || token == "" {
		log.Println("No backend configured, running in demo mode")
		return NewLocalMatchmaker(0)
	}

	remote := NewRemoteMatchmaker(baseURL, token)
	if !remote.TokenUsable() {
		log.Println("Stored token is expired or malformed, running in demo mode")
		return NewLocalMatchmaker(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), authProbeTimeout)
	defer cancel()
	identity, err := remote.FetchIdentity(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			log.Println("Backend rejected the token, running in demo mode")
		} else {
			log.Printf("Backend identity probe failed, running in demo mode: %v", err)
		}
		return NewLocalMatchmaker(0)
	}

	remote.CurrentUserID = identity.ID
	log.Printf("Authenticated with backend as %s", identity.Email)
	return remote
}
