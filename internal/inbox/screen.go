// Package inbox runs one conversation list screen: it loads snapshots,
// applies live events and serves projected views.
package inbox

import (
	"LiveInbox/entity"
	"LiveInbox/internal/conversation"
	"LiveInbox/internal/lib/sl"
	"LiveInbox/internal/presence"
	"LiveInbox/internal/ws"
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrNotMounted = errors.New("screen is not mounted")
	ErrNotFound   = errors.New("conversation not found")
)

// SnapshotSource loads the authoritative conversation list.
type SnapshotSource interface {
	LoadRecentConversations(ctx context.Context) ([]entity.Conversation, error)
}

// Channel delivers realtime events. Unsubscribing must stop new deliveries.
type Channel interface {
	Subscribe(kind ws.EventKind, h ws.Handler) func()
}

// ViewState is what a list renders.
type ViewState struct {
	Rows       []conversation.Row `json:"rows"`
	Loading    bool               `json:"loading"`
	LoadFailed bool               `json:"load_failed"`
}

// Screen owns its own store and presence set. Reloads and live events are
// not sequenced against each other: whichever finishes last wins.
type Screen struct {
	surface entity.Surface
	session *entity.Session
	source  SnapshotSource
	channel Channel

	mu          sync.Mutex
	store       *conversation.Store
	presence    *presence.Set
	mounted     bool
	loading     int
	loadFailed  bool
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe []func()

	loads sync.WaitGroup
	log   *slog.Logger
}

func NewScreen(surface entity.Surface, session *entity.Session, source SnapshotSource, channel Channel, log *slog.Logger) *Screen {
	return &Screen{
		surface:  surface,
		session:  session,
		source:   source,
		channel:  channel,
		store:    conversation.NewStore(),
		presence: presence.NewSet(),
		log: log.With(
			sl.Module("inbox.screen"),
			slog.String("surface", string(surface)),
		),
	}
}

func (s *Screen) Surface() entity.Surface {
	return s.surface
}

// Mount subscribes to live events and starts the first load. Mounting a
// mounted screen does nothing.
func (s *Screen) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	if s.channel != nil {
		s.unsubscribe = []func(){
			s.channel.Subscribe(ws.KindPresence, s.onPresence),
			s.channel.Subscribe(ws.KindMessage, s.onMessage),
		}
	}
	s.mu.Unlock()

	s.log.Debug("screen mounted")
	s.startLoad("mount")
}

// Focus reloads when the screen comes back into view.
func (s *Screen) Focus() error {
	return s.requestLoad("focus")
}

// Refresh is the pull-to-refresh gesture, the manual recovery path after a
// failed load.
func (s *Screen) Refresh() error {
	return s.requestLoad("refresh")
}

// Unmount detaches from the channel before it returns. Loads still in
// flight are canceled and their results, if any arrive, are dropped.
func (s *Screen) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	cancel := s.cancel
	s.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	cancel()
	s.log.Debug("screen unmounted")
}

// Wait blocks until every started load has finished.
func (s *Screen) Wait() {
	s.loads.Wait()
}

// View projects the store for this screen's surface.
func (s *Screen) View(query string) ViewState {
	s.mu.Lock()
	list := s.store.List()
	state := ViewState{
		Loading:    s.loading > 0,
		LoadFailed: s.loadFailed && s.store.Empty(),
	}
	s.mu.Unlock()

	state.Rows = conversation.Project(list, s.presence, conversation.Filter{
		Surface: s.surface,
		Query:   query,
	}, s.session.User.ID)
	return state
}

// Open returns the navigation bundle for a conversation of this screen.
func (s *Screen) Open(id string) (entity.OpenParams, error) {
	s.mu.Lock()
	c, ok := s.store.Get(id)
	s.mu.Unlock()

	if !ok || c.Kind.Surface() != s.surface {
		return entity.OpenParams{}, ErrNotFound
	}
	return conversation.OpenParams(&c, s.session.User.ID), nil
}

func (s *Screen) OnlineUsers() []string {
	return s.presence.Snapshot()
}

func (s *Screen) requestLoad(reason string) error {
	s.mu.Lock()
	mounted := s.mounted
	s.mu.Unlock()
	if !mounted {
		return ErrNotMounted
	}
	s.startLoad(reason)
	return nil
}

func (s *Screen) startLoad(reason string) {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.loading++
	s.loads.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.loads.Done()
		list, err := s.source.LoadRecentConversations(ctx)
		s.finishLoad(ctx, reason, list, err)
	}()
}

// finishLoad applies a load result only if the mount that started the load
// is still current. ctx identifies that mount.
func (s *Screen) finishLoad(ctx context.Context, reason string, list []entity.Conversation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading--
	log := s.log.With(slog.String("reason", reason))

	if !s.mounted || ctx != s.ctx || ctx.Err() != nil {
		log.Debug("snapshot dropped after unmount")
		return
	}
	if err != nil {
		s.loadFailed = true
		log.With(
			sl.Err(err),
			slog.Int("kept", s.store.Len()),
		).Warn("snapshot load failed")
		return
	}

	s.loadFailed = false
	s.store.Replace(list)
	log.With(slog.Int("size", s.store.Len())).Debug("snapshot loaded")
}

func (s *Screen) onPresence(ev ws.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.presence.Replace(ev.UserIDs)
}

func (s *Screen) onMessage(ev ws.Event) {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	outcome, err := conversation.ApplyMessageEvent(s.store, ev.Chat)
	s.mu.Unlock()

	if err != nil {
		s.log.With(
			sl.Err(err),
			slog.String("event", ev.Source),
		).Warn("malformed message event, reloading")
		s.startLoad("resync")
		return
	}

	s.log.With(
		slog.String("event", ev.Source),
		slog.String("conversation_id", ev.Chat.ID),
		slog.String("outcome", outcome.String()),
	).Debug("message event applied")
}
