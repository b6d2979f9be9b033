// Package campaign drives a run through a level catalog: it starts, resets
// and advances sessions, serializes moves and ticks against the current
// session, tracks best times and hands finished runs to the leaderboard.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/sleepwalk/internal/config"
	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/game"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

var (
	// ErrOutOfLevels is returned by Advance on the last catalog level.
	ErrOutOfLevels = errors.New("campaign: no more levels")
	// ErrLevelIndex is returned by Start for an index outside the catalog.
	ErrLevelIndex = errors.New("campaign: level index out of range")
	// ErrNoPendingRecord is returned by SubmitName when no run awaits a name.
	ErrNoPendingRecord = errors.New("campaign: no run is waiting for a name")
)

// DefaultPlayerName is used when a submitted name is blank.
const DefaultPlayerName = "Player"

const persistBuffer = 32

// Options configures a Controller. Every field is optional.
type Options struct {
	BestTimes   BestTimeStore
	Leaderboard Leaderboard
	Attempts    AttemptLog
	Observer    Observer
	Logger      *log.Logger
	Config      *config.GameConfig
	PlayerName  string
}

// View is a read-only picture of the controller for renderers.
// Session must not be modified.
type View struct {
	SessionID  string
	LevelIndex int
	LevelCount int
	Level      *level.Level
	Session    *game.Session
	Phase      Phase
	Notice     string
	Best       time.Duration
	HasBest    bool
	NewRecord  bool
	RunTotal   time.Duration
	RunStart   int // Level index the run started at; only runs from 0 are ranked
	Pending    *ScoreRecord
}

// Controller orchestrates sessions for one player. It is not safe for
// concurrent use: moves, ticks and deferred work must be serialized by the
// caller, as a Bubble Tea update loop does.
type Controller struct {
	id       string
	player   string
	catalog  *level.Catalog
	engine   *game.Engine
	cfg      config.GameConfig
	logger   *log.Logger
	bestRepo BestTimeStore
	board    Leaderboard
	attempts AttemptLog
	observer Observer
	persist  *persister
	deferred scheduler

	best     map[int]time.Duration
	runTimes map[int]time.Duration
	runStart int

	index     int
	lvl       *level.Level
	session   *game.Session
	phase     Phase
	epoch     uint64
	lastMove  time.Time
	notice    string
	noticeSeq uint64
	newRecord bool
	pending   *ScoreRecord
}

// New creates a controller for catalog. Best times are loaded once here;
// a failing store is logged and treated as empty.
// Call Start before any other method.
func New(catalog *level.Catalog, opts Options) (*Controller, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, level.ErrNoLevels
	}

	cfg := config.DefaultGameConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		id:       uuid.NewString(),
		player:   opts.PlayerName,
		catalog:  catalog,
		engine:   game.NewEngine(cfg.GameRules()),
		cfg:      cfg,
		bestRepo: opts.BestTimes,
		board:    opts.Leaderboard,
		attempts: opts.Attempts,
		observer: opts.Observer,
		best:     make(map[int]time.Duration),
		runTimes: make(map[int]time.Duration),
	}
	c.logger = logger.With("session", c.id[:8])
	c.persist = newPersister(c.logger, persistBuffer)

	if c.bestRepo != nil {
		all, err := c.bestRepo.AllBestTimes()
		if err != nil {
			c.logger.Warn("cannot load best times", "err", err)
		}
		for i, d := range all {
			c.best[i] = d
		}
	}

	return c, nil
}

// ID returns the unique controller session ID.
func (c *Controller) ID() string {
	return c.id
}

// Catalog returns the catalog being played.
func (c *Controller) Catalog() *level.Catalog {
	return c.catalog
}

// Start begins a new run at level index i.
func (c *Controller) Start(i int, now time.Time) error {
	if c.catalog.Level(i) == nil {
		return fmt.Errorf("%w: %d of %d", ErrLevelIndex, i, c.catalog.Len())
	}
	c.runTimes = make(map[int]time.Duration)
	c.runStart = i
	c.begin(i, now)
	c.logger.Debug("level started", "level", i, "name", c.lvl.Name)
	c.publish(now, nil, SignalStarted)
	return nil
}

// Reset discards the current session and starts the same level again.
func (c *Controller) Reset(now time.Time) {
	delete(c.runTimes, c.index)
	c.begin(c.index, now)
	c.logger.Debug("level reset", "level", c.index)
	c.publish(now, nil, SignalReset)
}

// Advance starts the next level and returns its index.
// On the last level it returns ErrOutOfLevels and changes nothing.
func (c *Controller) Advance(now time.Time) (int, error) {
	if c.catalog.IsLast(c.index) {
		return c.index, ErrOutOfLevels
	}
	c.begin(c.index+1, now)
	c.logger.Debug("level advanced", "level", c.index, "name", c.lvl.Name)
	c.publish(now, nil, SignalLevelAdvanced)
	return c.index, nil
}

// begin replaces the session wholesale and invalidates pending ticks and
// deferred work of the previous one.
func (c *Controller) begin(i int, now time.Time) {
	c.index = i
	c.lvl = c.catalog.Level(i)
	c.session = game.NewSession(c.lvl, now)
	c.phase = PhasePlaying
	c.epoch++
	c.deferred.Clear()
	c.lastMove = time.Time{}
	c.notice = ""
	c.newRecord = false
	c.pending = nil
}

// Epoch identifies the current session. Ticks carry the epoch they were
// scheduled for; a tick with an older epoch is ignored.
func (c *Controller) Epoch() uint64 {
	return c.epoch
}

// Move applies a player move. It reports whether the move was accepted.
// Moves outside the playing phase or faster than the move cooldown are ignored.
func (c *Controller) Move(dir core.Dir, now time.Time) bool {
	if c.phase != PhasePlaying {
		return false
	}
	if !c.lastMove.IsZero() && now.Sub(c.lastMove) < c.MoveCooldown(now) {
		return false
	}

	next, events := c.engine.Move(c.session, c.lvl, dir, now)
	if next == c.session {
		return false
	}
	c.session = next
	c.lastMove = now

	signals := c.handle(events, now)
	c.publish(now, events, signals...)
	return true
}

// Tick advances hazards for the session identified by epoch.
// It reports whether the caller should schedule another tick.
func (c *Controller) Tick(epoch uint64, now time.Time) bool {
	if epoch != c.epoch || c.phase != PhasePlaying {
		return false
	}

	next, events := c.engine.Tick(c.session, c.lvl, now)
	if next == c.session {
		next = next.Clone()
	}
	next.PruneExpired(now)
	c.session = next

	signals := c.handle(events, now)
	if len(events) > 0 || len(signals) > 0 {
		c.publish(now, events, signals...)
	}
	return c.phase == PhasePlaying
}

// TickPeriod returns the delay until the next tick.
// An active time powerup slows hazards to half speed.
func (c *Controller) TickPeriod(now time.Time) time.Duration {
	period := c.cfg.Timing.TickPeriod
	if c.session != nil && c.session.HasActive(level.PowerupTime, now) {
		period *= 2
	}
	return period
}

// MoveCooldown returns the minimum gap between moves.
// An active speed powerup halves it.
func (c *Controller) MoveCooldown(now time.Time) time.Duration {
	cd := c.cfg.Timing.MoveCooldown
	if c.session != nil && c.session.HasActive(level.PowerupSpeed, now) {
		cd /= 2
	}
	return cd
}

// Pump runs deferred work that is due: the sleep cue ending and notices
// expiring. It reports whether anything changed.
func (c *Controller) Pump(now time.Time) bool {
	return c.deferred.Run(now, c.epoch) > 0
}

// NextDeadline returns when Pump next has work to do.
func (c *Controller) NextDeadline() (time.Time, bool) {
	return c.deferred.Next(c.epoch)
}

// handle reacts to engine events and returns the resulting signals.
func (c *Controller) handle(events []game.Event, now time.Time) []Signal {
	var signals []Signal
	for _, ev := range events {
		switch ev.Kind {
		case game.EventNeedPillows:
			c.setNotice(fmt.Sprintf("Collect all pillows first! (%d left)", ev.Count), now)
		case game.EventKeyCollected:
			c.setNotice(fmt.Sprintf("Picked up the %s key", ev.Color), now)
		case game.EventPowerupCollected:
			c.setNotice(powerupNotice(ev.Powerup), now)
		case game.EventMagnetPull:
			if ev.Count > 0 {
				c.setNotice(fmt.Sprintf("Magnet pulled in %d items", ev.Count), now)
			}
		case game.EventWon:
			signals = append(signals, c.onWon(ev.Time, now)...)
		case game.EventLost:
			c.phase = PhaseGameOver
			c.logger.Info("level lost", "level", c.index, "moves", c.session.Moves)
			c.logAttempt(0, now)
		}
	}
	return signals
}

func powerupNotice(kind level.PowerupKind) string {
	switch kind {
	case level.PowerupSpeed:
		return "Speed boost!"
	case level.PowerupInvincible:
		return "Invincible!"
	case level.PowerupTime:
		return "Time slows down..."
	case level.PowerupMagnet:
		return "Magnet!"
	default:
		return string(kind)
	}
}

// onWon records the final time and schedules the end of the sleep cue.
func (c *Controller) onWon(final time.Duration, now time.Time) []Signal {
	var signals []Signal
	c.phase = PhaseFallingAsleep
	c.runTimes[c.index] = final
	c.logger.Info("level won", "level", c.index, "final", final, "moves", c.session.Moves)
	c.logAttempt(final, now)

	if prev, ok := c.best[c.index]; !ok || final < prev {
		c.best[c.index] = final
		c.newRecord = true
		signals = append(signals, SignalNewRecord)
		if c.bestRepo != nil {
			i := c.index
			c.persist.Enqueue(fmt.Sprintf("best time level %d", i), func() error {
				return c.bestRepo.SetBestTime(i, final)
			})
		}
	}

	c.deferred.After(now.Add(c.cfg.Timing.SleepDelay), c.epoch, c.finishLevel)
	return signals
}

// logAttempt queues the finished session for the attempt history.
func (c *Controller) logAttempt(final time.Duration, now time.Time) {
	if c.attempts == nil {
		return
	}
	a := Attempt{
		SessionID:  c.id,
		LevelIndex: c.index,
		Outcome:    c.session.Outcome.String(),
		Final:      final,
		Moves:      c.session.Moves,
		At:         now,
	}
	c.persist.Enqueue(fmt.Sprintf("attempt level %d", a.LevelIndex), func() error {
		return c.attempts.RecordAttempt(a)
	})
}

// finishLevel ends the sleep cue.
func (c *Controller) finishLevel(now time.Time) {
	if c.phase != PhaseFallingAsleep {
		return
	}

	if !c.catalog.IsLast(c.index) {
		c.phase = PhaseLevelComplete
		c.publish(now, nil, SignalLevelComplete)
		return
	}

	// A run that skipped levels would rank against full runs
	if c.runStart != 0 {
		c.phase = PhaseFinished
		c.logger.Info("partial run finished", "from", c.runStart+1, "elapsed", c.RunTotal())
		c.publish(now, nil, SignalLevelComplete)
		return
	}

	c.phase = PhaseAwaitingName
	c.pending = &ScoreRecord{
		Name:           c.player,
		ElapsedSeconds: roundTenth(c.RunTotal().Seconds()),
		LevelNumber:    c.index + 1,
		CreatedAt:      now,
	}
	c.publish(now, nil, SignalNameRequested)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// SubmitName completes a finished run and queues it for the leaderboard.
func (c *Controller) SubmitName(name string) error {
	if c.phase != PhaseAwaitingName || c.pending == nil {
		return ErrNoPendingRecord
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	rec := *c.pending
	rec.Name = name
	c.player = name
	c.pending = nil
	c.phase = PhaseFinished

	if c.board != nil {
		c.persist.Enqueue("leaderboard entry", func() error {
			return c.board.Append(rec)
		})
	}
	c.logger.Info("run recorded", "name", rec.Name, "elapsed", rec.ElapsedSeconds, "level", rec.LevelNumber)
	c.publish(rec.CreatedAt, nil, SignalRunRecorded)
	return nil
}

func (c *Controller) setNotice(text string, now time.Time) {
	c.notice = text
	c.noticeSeq++
	seq := c.noticeSeq
	c.deferred.After(now.Add(c.cfg.Timing.NoticeDuration), c.epoch, func(time.Time) {
		if c.noticeSeq == seq {
			c.notice = ""
		}
	})
}

// RunTotal returns the sum of final times of the levels won in this run.
func (c *Controller) RunTotal() time.Duration {
	var total time.Duration
	for _, d := range c.runTimes {
		total += d
	}
	return total
}

// BestTime returns the cached best time for level i.
func (c *Controller) BestTime(i int) (time.Duration, bool) {
	d, ok := c.best[i]
	return d, ok
}

// Flush waits for queued store writes. Unlike the other methods it may be
// called from any goroutine.
func (c *Controller) Flush(ctx context.Context) error {
	return c.persist.Flush(ctx)
}

// Leaderboard returns the stored leaderboard. Writes queued just before may
// not be visible yet; call Flush first to see them. Like Flush it may be
// called from any goroutine.
func (c *Controller) Leaderboard() ([]ScoreRecord, error) {
	if c.board == nil {
		return nil, nil
	}
	return c.board.List()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	best, ok := c.best[c.index]
	v := View{
		SessionID:  c.id,
		LevelIndex: c.index,
		LevelCount: c.catalog.Len(),
		Level:      c.lvl,
		Session:    c.session,
		Phase:      c.phase,
		Notice:     c.notice,
		Best:       best,
		HasBest:    ok,
		NewRecord:  c.newRecord,
		RunTotal:   c.RunTotal(),
		RunStart:   c.runStart,
	}
	if c.pending != nil {
		p := *c.pending
		v.Pending = &p
	}
	return v
}

func (c *Controller) publish(now time.Time, events []game.Event, signals ...Signal) {
	if c.observer == nil || c.session == nil {
		return
	}
	c.observer.Observe(Update{
		SessionID:  c.id,
		Player:     c.player,
		LevelIndex: c.index,
		LevelName:  c.lvl.Name,
		Phase:      c.phase,
		Snapshot:   c.session.Snapshot(c.lvl, now),
		Events:     events,
		Signals:    signals,
	})
}

// Close flushes queued writes. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.persist.Close()
}
