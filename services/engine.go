package services

import (
	"context"
	"log"
	"sync"
	"time"

	"tindler_server/models"
)

const bootstrapTimeout = 3 * time.Second

// Engine bundles the per-session services behind one handle: state, pool,
// matching and chat all share the session's dispatch lock through the
// SessionService they hold.
type Engine struct {
	Session    *SessionService
	Pool       *PoolService
	Matches    *MatchService
	Chat       *ChatService
	Swipe      *SwipeTracker
	Matchmaker Matchmaker

	bootOnce sync.Once
}

func NewEngine(store KVStore, sessionKey string, matchmaker Matchmaker, notifier Notifier) *Engine {
	session := NewSessionService(store, sessionKey)
	pool := NewPoolService(session)
	matches := NewMatchService(session, pool, matchmaker)
	matches.Notifier = notifier
	chat := NewChatService(session, matchmaker)
	chat.Notifier = notifier
	engine := &Engine{
		Session:    session,
		Pool:       pool,
		Matches:    matches,
		Chat:       chat,
		Matchmaker: matchmaker,
	}
	engine.Swipe = NewSwipeTracker(engine.passTop, engine.likeTop)
	return engine
}

// likeTop and passTop route a completed gesture to the card currently on top
// of the pool. A gesture finishing on an empty pool is ignored.
func (e *Engine) likeTop() {
	if profile, ok := e.topProfile(); ok {
		e.Matches.Like(context.Background(), profile)
	}
}

func (e *Engine) passTop() {
	if profile, ok := e.topProfile(); ok {
		e.Matches.Pass(context.Background(), profile)
	}
}

func (e *Engine) topProfile() (models.Profile, bool) {
	available := e.Pool.AvailableProfiles(PoolFilter{})
	if len(available) == 0 {
		return models.Profile{}, false
	}
	return available[0], true
}

// Bootstrap rehydrates a session: persisted snapshot first, then identity,
// candidates and matches from the matchmaker. Fetch failures degrade to the
// restored snapshot rather than failing the session.
func (e *Engine) Bootstrap(ctx context.Context) {
	e.Session.Load(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	identity, err := e.Matchmaker.FetchIdentity(fetchCtx)
	if err != nil {
		log.Printf("Identity fetch failed, continuing with restored state: %v", err)
	} else {
		e.Session.Dispatch(ctx, SetIdentityAction{Identity: identity})
	}

	if err := e.Matches.LoadCandidates(fetchCtx); err != nil {
		log.Printf("Candidate fetch failed: %v", err)
	}
	if err := e.Matches.LoadMatches(fetchCtx); err != nil {
		log.Printf("Match fetch failed: %v", err)
	}
}

// ResetProfile clears the session upstream and locally. The local reset
// always goes through, so an upstream failure is logged rather than returned.
func (e *Engine) ResetProfile(ctx context.Context) {
	e.Chat.StopAll()
	if err := e.Matchmaker.ResetProfile(ctx); err != nil {
		log.Printf("Upstream profile reset failed, clearing local state anyway: %v", err)
	}
	e.Session.Reset(ctx)
}

// SessionManager hands out one Engine per session key, creating and
// bootstrapping it on first use.
type SessionManager struct {
	Store    KVStore
	Build    func() Matchmaker
	Notifier Notifier

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewSessionManager(store KVStore, build func() Matchmaker, notifier Notifier) *SessionManager {
	return &SessionManager{
		Store:    store,
		Build:    build,
		Notifier: notifier,
		engines:  make(map[string]*Engine),
	}
}

// Engine returns the engine for a session key, bootstrapping a new one if
// this is the key's first request. The empty key maps to the default session.
// The manager lock covers only the map; bootstrap's network fetches run
// outside it so one session's first request cannot stall the others.
func (sm *SessionManager) Engine(ctx context.Context, sessionKey string) *Engine {
	snapshotKey := models.StateStorageKey
	if sessionKey != "" {
		snapshotKey = models.StateStorageKey + ":" + sessionKey
	}

	sm.mu.Lock()
	engine, ok := sm.engines[snapshotKey]
	if !ok {
		engine = NewEngine(sm.Store, snapshotKey, sm.Build(), sm.Notifier)
		sm.engines[snapshotKey] = engine
	}
	sm.mu.Unlock()

	engine.bootOnce.Do(func() {
		engine.Bootstrap(ctx)
	})
	return engine
}

// Shutdown stops background work on every live engine.
func (sm *SessionManager) Shutdown() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, engine := range sm.engines {
		engine.Chat.StopAll()
	}
}
