package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phamduncc/find-word/assets"
	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/game"
	"github.com/phamduncc/find-word/internal/letters"
	"github.com/phamduncc/find-word/internal/progress"
	"github.com/phamduncc/find-word/internal/store"
	"github.com/phamduncc/find-word/internal/words"
)

// fixedPools always deals the same letters (DONEABCFT unless set), cycled to
// the tier's letter count.
type fixedPools struct{ letters string }

func (f fixedPools) Generate(count, _ int) letters.Pool {
	src := letters.Pool("DONEABCFT")
	if f.letters != "" {
		src = letters.Pool(f.letters)
	}
	out := make(letters.Pool, count)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}

func (fixedPools) Shuffle(p letters.Pool) letters.Pool { return p.Clone() }

var testWords = []string{"done", "node", "one", "nod", "bond", "beacon", "bacon", "faced", "cab"}

type testEnv struct {
	srv *Server
	ts  *httptest.Server
}

func newTestEnv(t *testing.T, withDB bool, mutate ...func(*Options)) *testEnv {
	t.Helper()
	return newTestEnvWithPools(t, fixedPools{}, withDB, mutate...)
}

func newTestEnvWithPools(t *testing.T, pools game.PoolSource, withDB bool, mutate ...func(*Options)) *testEnv {
	t.Helper()
	deps := Deps{
		KV:         store.NewMemory(),
		Validator:  words.NewValidator(words.NewDictionary(testWords)),
		Pools:      pools,
		Challenges: daily.NewGenerator("test-salt"),
	}
	if withDB {
		db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		require.NoError(t, store.Migrate(db, assets.Migrations()))
		deps.DB = db
	}
	opts := Options{
		JWTSecret:    "test-secret",
		RateLimit:    1000,
		RateBurst:    1000,
		TickInterval: time.Hour,
		Now:          func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	srv := New(deps, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &testEnv{srv: srv, ts: ts}
}

// player is an HTTP client with its own cookie jar, so each one gets its
// own anonymous identity.
type player struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (e *testEnv) newPlayer(t *testing.T) *player {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &player{t: t, base: e.ts.URL, client: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out (when non-nil).
func (p *player) do(method, path string, body, out any) int {
	p.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(p.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, p.base+path, rd)
	require.NoError(p.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := p.client.Do(req)
	require.NoError(p.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(p.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (p *player) newGame(settings map[string]any) game.Snapshot {
	p.t.Helper()
	var snap game.Snapshot
	require.Equal(p.t, http.StatusCreated, p.do(http.MethodPost, "/game/new", settings, &snap))
	return snap
}

func (p *player) submit(id, text string) game.SubmitResult {
	p.t.Helper()
	require.Equal(p.t, http.StatusOK, p.do(http.MethodPost, "/game/"+id+"/type", map[string]string{"text": text}, nil))
	var res game.SubmitResult
	require.Equal(p.t, http.StatusOK, p.do(http.MethodPost, "/game/"+id+"/submit", nil, &res))
	return res
}

type eventsBody struct {
	Events []game.Event `json:"events"`
}

func kinds(events []game.Event) []game.EventKind {
	out := make([]game.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestHealthAndNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	var health map[string]any
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/health", nil, &health))
	require.Equal(t, true, health["ok"])
	require.EqualValues(t, len(testWords), health["dictionary"])

	var nf map[string]string
	require.Equal(t, http.StatusNotFound, p.do(http.MethodGet, "/nope", nil, &nf))
	require.Equal(t, "not_found", nf["error"])
}

func TestGameFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	snap := p.newGame(map[string]any{"difficulty": "easy"})
	require.Equal(t, game.StatePlaying, snap.State)
	require.Equal(t, "DONEABCFT", snap.Pool.String())
	require.Equal(t, 120, snap.RemainingSeconds)

	res := p.submit(snap.ID, "beacon")
	require.True(t, res.Accepted)
	require.Equal(t, "BEACON", res.Word.Text)

	res = p.submit(snap.ID, "zzz")
	require.False(t, res.Accepted)
	require.Equal(t, words.ReasonInsufficientLetters, res.Reason)

	var ev eventsBody
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/game/"+snap.ID+"/events", nil, &ev))
	require.Contains(t, kinds(ev.Events), game.EventGameStarted)
	require.Contains(t, kinds(ev.Events), game.EventWordFound)
	require.Contains(t, kinds(ev.Events), game.EventWordRejected)

	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/game/"+snap.ID+"/events", nil, &ev))
	require.Empty(t, ev.Events, "events are drained")

	var paused game.Snapshot
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/pause", nil, &paused))
	require.Equal(t, game.StatePaused, paused.State)
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/resume", nil, &paused))
	require.Equal(t, game.StatePlaying, paused.State)

	var final game.Snapshot
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/end", nil, &final))
	require.Equal(t, game.StateFinished, final.State)

	var errBody map[string]string
	require.Equal(t, http.StatusConflict, p.do(http.MethodPost, "/game/"+snap.ID+"/submit", nil, &errBody))
	require.Equal(t, "game_finished", errBody["error"])

	// The finished game reached the profile and its report was queued.
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/game/"+snap.ID+"/events", nil, &ev))
	require.Contains(t, kinds(ev.Events), game.EventNewHighScore)

	var scores struct {
		Scores []progress.HighScore `json:"scores"`
	}
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/scores/easy", nil, &scores))
	require.Len(t, scores.Scores, 1)
	require.Equal(t, final.Score, scores.Scores[0].Score)
	require.Equal(t, "BEACON", scores.Scores[0].LongestWord)
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/scores", nil, &scores))
	require.Len(t, scores.Scores, 1)
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodGet, "/scores/insane", nil, nil))

	var stats struct {
		Stats progress.Stats `json:"stats"`
	}
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/stats", nil, &stats))
	require.Equal(t, 1, stats.Stats.GamesPlayed)

	var wallet progress.Wallet
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/wallet", nil, &wallet))
	require.Equal(t, progress.StartingCoins+progress.CoinsForScore(final.Score), wallet.Coins)
}

func TestGamesArePrivate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	alice, bob := env.newPlayer(t), env.newPlayer(t)

	snap := alice.newGame(nil)
	var body map[string]string
	require.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/game/"+snap.ID, nil, &body))
	require.Equal(t, "game_not_found", body["error"])
	require.Equal(t, http.StatusNotFound, bob.do(http.MethodPost, "/game/"+snap.ID+"/end", nil, nil))
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/game/"+snap.ID, nil, nil))
}

func TestNewGameValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	var body map[string]string
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "insane"}, &body))
	require.Equal(t, "unknown_difficulty", body["error"])
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPost, "/game/new", map[string]string{"mode": "zen"}, &body))
	require.Equal(t, "unknown_mode", body["error"])

	snap := p.newGame(map[string]any{"difficulty": "hard", "timeLimitSeconds": 30})
	require.Equal(t, game.Hard, snap.Settings.Difficulty)
	require.Equal(t, 30, snap.RemainingSeconds)

	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPost, "/game/"+snap.ID+"/select", map[string]int{"index": 99}, &body))
	require.Equal(t, "invalid_tile", body["error"])
}

func TestChallengeGame(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	want := env.srv.deps.Challenges.ForDate(env.srv.opts.Now())
	snap := p.newGame(map[string]any{"mode": "challenge"})
	require.Equal(t, game.ModeChallenge, snap.Settings.Mode)
	require.Equal(t, want.Difficulty, snap.Settings.Difficulty)
	require.NotNil(t, snap.Settings.Goal)
	require.Equal(t, want.ID, snap.Settings.Goal.ChallengeID)

	var status progress.ChallengeStatus
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/daily", nil, &status))
	require.Equal(t, want.ID, status.ID)
	require.False(t, status.Completed)

	var week []daily.Challenge
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/daily/week", nil, &week))
	require.Len(t, week, 7)
	require.Equal(t, want, week[0])

	require.Equal(t, http.StatusServiceUnavailable, p.do(http.MethodGet, "/daily/leaderboard", nil, nil))
}

func TestDailyLeaderboard(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)
	p := env.newPlayer(t)

	require.NoError(t, env.srv.dailyStore.InsertResult(t.Context(), daily.Result{
		PlayerID: "anon-x", Date: "2026-03-14", Challenge: "daily-2026-03-14", Score: 120, WordsFound: 5, ElapsedMs: 9000,
	}))

	var board struct {
		Date    string         `json:"date"`
		Results []daily.Result `json:"results"`
	}
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/daily/leaderboard", nil, &board))
	require.Equal(t, "2026-03-14", board.Date)
	require.Len(t, board.Results, 1)
	require.Equal(t, 120, board.Results[0].Score)

	var status dailyStatus
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/daily", nil, &status))
	require.False(t, status.OnLeaderboard)

	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/daily/leaderboard?date=2026-03-13", nil, &board))
	require.Empty(t, board.Results)
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodGet, "/daily/leaderboard?date=yesterday", nil, nil))
}

func TestPowerUps(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)
	snap := p.newGame(map[string]any{"difficulty": "easy"})

	var body map[string]any
	require.Equal(t, http.StatusPaymentRequired, p.do(http.MethodPost, "/game/"+snap.ID+"/powerup", map[string]string{"kind": "word_hint"}, &body))
	require.Equal(t, "no_inventory", body["error"])
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPost, "/game/"+snap.ID+"/powerup", map[string]string{"kind": "teleport"}, nil))

	var wallet progress.Wallet
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "word_hint"}, &wallet))
	cfg, _ := game.PowerUpWordHint.Config()
	require.Equal(t, progress.StartingCoins-cfg.Cost, wallet.Coins)
	require.Equal(t, 1, wallet.Inventory[game.PowerUpWordHint])

	var out game.PowerUpOutcome
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/powerup", map[string]string{"kind": "WORD_HINT"}, &out))
	require.True(t, out.Applied)
	require.Len(t, out.Words, 1)

	var afterHint progress.Wallet
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/wallet", nil, &afterHint))
	require.Zero(t, afterHint.Inventory[game.PowerUpWordHint])

	// A power-up spent on a finished game goes back to the inventory.
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "extra_time"}, nil))
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/end", nil, nil))
	require.Equal(t, http.StatusConflict, p.do(http.MethodPost, "/game/"+snap.ID+"/powerup", map[string]string{"kind": "extra_time"}, nil))
	var refunded progress.Wallet
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/wallet", nil, &refunded))
	require.Equal(t, 1, refunded.Inventory[game.PowerUpExtraTime])
}

func TestPurchaseInsufficientCoins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "xray_vision"}, nil))
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "xray_vision"}, nil))

	var body struct {
		Error  string          `json:"error"`
		Wallet progress.Wallet `json:"wallet"`
	}
	require.Equal(t, http.StatusPaymentRequired, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "xray_vision"}, &body))
	require.Equal(t, "insufficient_coins", body.Error)
	require.Zero(t, body.Wallet.Coins)
	require.Equal(t, 2, body.Wallet.Inventory[game.PowerUpXRayVision])
}

func TestSettings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	var s progress.Settings
	require.Equal(t, http.StatusOK, p.do(http.MethodPut, "/settings", progress.Settings{PlayerName: "Ada", Difficulty: game.Hard}, &s))
	require.Equal(t, "Ada", s.PlayerName)
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPut, "/settings", map[string]string{"difficulty": "insane"}, nil))

	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/settings", nil, &s))
	require.Equal(t, game.Hard, s.Difficulty)

	// The preferred difficulty applies when a new game names none.
	snap := p.newGame(nil)
	require.Equal(t, game.Hard, snap.Settings.Difficulty)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false, func(o *Options) {
		o.RateLimit = 0.001
		o.RateBurst = 1
	})
	p := env.newPlayer(t)
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/stats", nil, nil))

	p.newGame(nil)
	var body map[string]string
	require.Equal(t, http.StatusTooManyRequests, p.do(http.MethodPost, "/game/new", nil, &body))
	require.Equal(t, "rate_limited", body["error"])
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/stats", nil, nil), "reads are not limited")
}

func TestTimerFinishesGame(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false, func(o *Options) { o.TickInterval = 5 * time.Millisecond })
	p := env.newPlayer(t)

	snap := p.newGame(map[string]any{"difficulty": "easy", "timeLimitSeconds": 2})
	require.Eventually(t, func() bool {
		var cur game.Snapshot
		p.do(http.MethodGet, "/game/"+snap.ID, nil, &cur)
		return cur.State == game.StateFinished && cur.FinishReason == game.FinishTimeUp
	}, 2*time.Second, 10*time.Millisecond)

	// The game is recorded right after the final tick.
	require.Eventually(t, func() bool {
		var stats struct {
			Stats progress.Stats `json:"stats"`
		}
		p.do(http.MethodGet, "/stats", nil, &stats)
		return stats.Stats.GamesPlayed == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)
	p := env.newPlayer(t)

	creds := map[string]string{"username": "ada_l", "password": "correct horse"}
	var user map[string]any
	require.Equal(t, http.StatusCreated, p.do(http.MethodPost, "/auth/signup", creds, &user))
	require.Equal(t, "ada_l", user["username"])

	var me authUser
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/auth/me", nil, &me))
	require.Equal(t, "ada_l", me.Username)

	require.Equal(t, http.StatusConflict, p.do(http.MethodPost, "/auth/signup", map[string]string{"username": "ADA_L", "password": "another pass"}, nil))
	require.Equal(t, http.StatusBadRequest, p.do(http.MethodPost, "/auth/signup", map[string]string{"username": "x", "password": "short"}, nil))

	// A signed-in player's games belong to the account, not the browser.
	snap := p.newGame(nil)
	other := env.newPlayer(t)
	require.Equal(t, http.StatusOK, other.do(http.MethodPost, "/auth/login", creds, nil))
	require.Equal(t, http.StatusOK, other.do(http.MethodGet, "/game/"+snap.ID, nil, nil))

	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/auth/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, p.do(http.MethodGet, "/auth/me", nil, nil))
	require.Equal(t, http.StatusNotFound, p.do(http.MethodGet, "/game/"+snap.ID, nil, nil))

	require.Equal(t, http.StatusUnauthorized, p.do(http.MethodPost, "/auth/login", map[string]string{"username": "ada_l", "password": "wrong password"}, nil))
}

func TestAuthWithoutDatabase(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	var body map[string]string
	require.Equal(t, http.StatusServiceUnavailable, p.do(http.MethodPost, "/auth/signup", map[string]string{"username": "ada_l", "password": "correct horse"}, &body))
	require.Equal(t, "accounts_disabled", body["error"])
	require.Equal(t, http.StatusUnauthorized, p.do(http.MethodGet, "/auth/me", nil, nil))
}

func TestSessionRegistryCleanup(t *testing.T) {
	t.Parallel()
	reg := newSessionRegistry()
	v := words.NewValidator(words.NewDictionary(testWords))
	r := game.NewRunner(game.NewSession("s1", v, fixedPools{}))
	reg.add(&liveSession{runner: r, playerID: "p"})

	require.Zero(t, reg.cleanup(time.Hour))
	_, ok := reg.get("s1", "p")
	require.True(t, ok)
	_, ok = reg.get("s1", "q")
	require.False(t, ok)

	require.Equal(t, 1, reg.cleanup(-time.Second))
	require.Zero(t, reg.len())
	select {
	case <-r.Done():
	default:
		t.Fatal("runner not stopped")
	}
}

func TestClientLimiter(t *testing.T) {
	t.Parallel()
	cl := newClientLimiter(0.001, 2)
	require.True(t, cl.allow("a"))
	require.True(t, cl.allow("a"))
	require.False(t, cl.allow("a"))
	require.True(t, cl.allow("b"), "buckets are per key")

	require.Zero(t, cl.cleanup(time.Hour))
	require.Equal(t, 2, cl.cleanup(-time.Second))
}

func TestPowerUpRefundedWhenNothingToReveal(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithPools(t, fixedPools{letters: "ZZZZZZZZZ"}, false)
	p := env.newPlayer(t)
	snap := p.newGame(map[string]any{"difficulty": "easy"})

	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/wallet/purchase", map[string]string{"kind": "xray_vision"}, nil))
	var out game.PowerUpOutcome
	require.Equal(t, http.StatusOK, p.do(http.MethodPost, "/game/"+snap.ID+"/powerup", map[string]string{"kind": "xray_vision"}, &out))
	require.False(t, out.Applied)
	require.Empty(t, out.Words)

	var wallet progress.Wallet
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/wallet", nil, &wallet))
	require.Equal(t, 1, wallet.Inventory[game.PowerUpXRayVision])
}

func TestNewGameNormalizesInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	snap := p.newGame(map[string]any{"difficulty": " Easy ", "mode": "CLASSIC", "timeLimitSeconds": 1_000_000})
	require.Equal(t, game.Easy, snap.Settings.Difficulty)
	require.Equal(t, 120*game.MaxTimeLimitFactor, snap.RemainingSeconds)
}

func TestCookielessClientsShareAddressBudget(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false, func(o *Options) {
		o.RateLimit = 0.001
		o.RateBurst = 1
	})
	// No cookie jar: every request looks like a brand-new guest.
	p := &player{t: t, base: env.ts.URL, client: &http.Client{}}

	created, limited := 0, 0
	for range 20 {
		switch p.do(http.MethodPost, "/game/new", nil, nil) {
		case http.StatusCreated:
			created++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, 19, limited)
	require.Equal(t, 1, env.srv.sessions.len())
}

func TestNewGameReplacesLiveGame(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	p := env.newPlayer(t)

	first := p.newGame(nil)
	ls, ok := env.srv.sessions.get(first.ID, "anon-"+anonCookie(t, p, env))
	require.True(t, ok)

	second := p.newGame(nil)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 1, env.srv.sessions.len())
	require.Equal(t, http.StatusNotFound, p.do(http.MethodGet, "/game/"+first.ID, nil, nil))
	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/game/"+second.ID, nil, nil))
	select {
	case <-ls.runner.Done():
	default:
		t.Fatal("replaced runner still running")
	}

	other := env.newPlayer(t)
	other.newGame(nil)
	require.Equal(t, 2, env.srv.sessions.len(), "one live game per player")
}

func anonCookie(t *testing.T, p *player, env *testEnv) string {
	t.Helper()
	u, err := url.Parse(env.ts.URL)
	require.NoError(t, err)
	for _, c := range p.client.Jar.Cookies(u) {
		if c.Name == anonCookieName {
			return c.Value
		}
	}
	t.Fatal("no anonymous cookie")
	return ""
}

func TestProfileCacheCleanup(t *testing.T) {
	t.Parallel()
	pc := newProfileCache(store.NewMemory(), daily.NewGenerator("salt"))
	ctx := t.Context()
	a := pc.get(ctx, "a")
	pc.get(ctx, "b")
	require.Same(t, a, pc.get(ctx, "a"))

	inUse := func(id string) bool { return id == "a" }
	require.Zero(t, pc.cleanup(time.Hour, inUse))
	require.Equal(t, 1, pc.cleanup(-time.Second, inUse))
	require.Equal(t, 1, pc.len())
	require.Same(t, a, pc.get(ctx, "a"), "profiles with a live game stay cached")
}
