package core

import (
	"LiveInbox/entity"
	"LiveInbox/internal/inbox"
	"LiveInbox/internal/lib/sl"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var ErrUnknownSurface = errors.New("unknown surface")

type Channel interface {
	Start(ctx context.Context)
	Close()
	Connected() bool
}

type Core struct {
	screens map[entity.Surface]*inbox.Screen
	channel Channel
	authKey string
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		screens: make(map[entity.Surface]*inbox.Screen),
		log:     log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetChannel(channel Channel) {
	c.channel = channel
}

func (c *Core) AddScreen(screen *inbox.Screen) {
	c.screens[screen.Surface()] = screen
}

// Start mounts every screen and then opens the shared realtime channel.
func (c *Core) Start(ctx context.Context) {
	for surface, screen := range c.screens {
		screen.Mount(ctx)
		c.log.With(slog.String("surface", string(surface))).Info("screen mounted")
	}
	if c.channel != nil {
		c.channel.Start(ctx)
	}
}

// Stop unmounts the screens before closing the channel so no event reaches
// a screen that is going away.
func (c *Core) Stop() {
	for _, screen := range c.screens {
		screen.Unmount()
	}
	if c.channel != nil {
		c.channel.Close()
	}
	for _, screen := range c.screens {
		screen.Wait()
	}
	c.log.Info("inbox stopped")
}

func (c *Core) screen(surface string) (*inbox.Screen, error) {
	s, ok := c.screens[entity.Surface(surface)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, surface)
	}
	return s, nil
}

func (c *Core) Conversations(surface, query string) (*inbox.ViewState, error) {
	s, err := c.screen(surface)
	if err != nil {
		return nil, err
	}
	view := s.View(query)
	return &view, nil
}

func (c *Core) OpenConversation(surface, id string) (*entity.OpenParams, error) {
	s, err := c.screen(surface)
	if err != nil {
		return nil, err
	}
	params, err := s.Open(id)
	if err != nil {
		return nil, err
	}
	return &params, nil
}

func (c *Core) Refresh(surface string) error {
	s, err := c.screen(surface)
	if err != nil {
		return err
	}
	return s.Refresh()
}

func (c *Core) Focus(surface string) error {
	s, err := c.screen(surface)
	if err != nil {
		return err
	}
	return s.Focus()
}

// OnlineUsers merges the presence sets of all screens.
func (c *Core) OnlineUsers() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range c.screens {
		for _, id := range s.OnlineUsers() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Core) RealtimeConnected() bool {
	return c.channel != nil && c.channel.Connected()
}

// AuthenticateByToken checks the local API key. With no key configured the
// API is open, which is only sensible on a loopback listener.
func (c *Core) AuthenticateByToken(token string) error {
	if c.authKey == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) != 1 {
		return fmt.Errorf("invalid api key")
	}
	return nil
}
