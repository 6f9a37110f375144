package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/placefeed/placefeed/internal/domain/card"
	"github.com/placefeed/placefeed/internal/domain/history"
	"github.com/placefeed/placefeed/internal/domain/popup"
	"github.com/placefeed/placefeed/internal/domain/user"
	"github.com/placefeed/placefeed/internal/port/outbound"
)

var (
	// ErrUnknownCard is returned when an operation names a card that is
	// not in the local collection.
	ErrUnknownCard = errors.New("unknown card")

	// ErrNotOwner is returned when deleting a card the user does not own.
	ErrNotOwner = errors.New("not the card owner")

	// ErrNoPendingDelete is returned when DeleteCard runs without a prior
	// confirmDelete dialog.
	ErrNoPendingDelete = errors.New("no deletion pending confirmation")
)

// Forms are validated before any round trip.
type cardForm struct {
	Name     string `validate:"required,min=2,max=30"`
	ImageURL string `validate:"required,url"`
}

type profileForm struct {
	Name  string `validate:"required,min=2,max=40"`
	About string `validate:"required,min=2,max=200"`
}

type avatarForm struct {
	URL string `validate:"required,url"`
}

// FeedService is the card collection store. Every mutation follows the
// same pattern: no optimistic local change, one round trip, and on
// success the server's authoritative response replaces the local value
// (server-computed like sets and server-assigned IDs always win).
//
// Mutations serialize through the service; Busy reports whether a round
// trip is outstanding so the view can disable inputs. A dialog closing
// does not cancel an in-flight mutation: the mutation completes and
// applies its effect to the collection regardless of dialog visibility.
type FeedService struct {
	client outbound.ResourceClient
	popups *popup.Orchestrator
	hist   history.Store // nil when local history is disabled
	logger *slog.Logger

	validate *validator.Validate
	busy     atomic.Bool

	mu      sync.Mutex
	profile user.Profile
	cards   card.Collection
}

// NewFeedService creates the card collection store. hist may be nil to
// disable local mutation history.
func NewFeedService(client outbound.ResourceClient, popups *popup.Orchestrator, hist history.Store, logger *slog.Logger) *FeedService {
	return &FeedService{
		client:   client,
		popups:   popups,
		hist:     hist,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Busy reports whether a round trip is outstanding.
func (s *FeedService) Busy() bool {
	return s.busy.Load()
}

// Profile returns the loaded profile. Zero value before LoadInitial.
func (s *FeedService) Profile() user.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Cards returns the feed in order.
func (s *FeedService) Cards() []card.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards.Cards()
}

// LoadInitial fetches the profile and the card feed concurrently and
// populates both, or neither: if either fetch fails the prior (empty)
// state is kept and the error returned.
func (s *FeedService) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	var (
		wg      sync.WaitGroup
		profile *user.Profile
		cards   []card.Card
		perr    error
		cerr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, perr = s.client.FetchProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		cards, cerr = s.client.FetchCards(ctx)
	}()
	wg.Wait()

	if perr != nil {
		s.logger.Error("initial profile fetch failed", "error", perr)
		return perr
	}
	if cerr != nil {
		s.logger.Error("initial card fetch failed", "error", cerr)
		return cerr
	}

	s.profile = *profile
	s.cards.Replace(cards)
	s.logger.Debug("initial load complete", "cards", len(cards), "user_id", profile.ID)
	return nil
}

// ToggleLike likes or unlikes a card. The direction is decided from the
// local copy of the like set; on success the server's returned card
// replaces the local one wholesale. On failure the local list is left
// unchanged, so local and remote state cannot diverge.
func (s *FeedService) ToggleLike(ctx context.Context, cardID string) (card.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	current, ok := s.cards.ByID(cardID)
	if !ok {
		return card.Card{}, ErrUnknownCard
	}

	var (
		updated *card.Card
		err     error
		op      history.Op
	)
	if current.IsLikedBy(s.profile.ID) {
		updated, err = s.client.UnlikeCard(ctx, cardID)
		op = history.OpCardUnliked
	} else {
		updated, err = s.client.LikeCard(ctx, cardID)
		op = history.OpCardLiked
	}
	if err != nil {
		s.logger.Warn("like toggle failed", "card_id", cardID, "error", err)
		return card.Card{}, err
	}

	s.cards.ReplaceByID(*updated)
	s.record(ctx, op, updated.ID, updated.Name)
	return *updated, nil
}

// AddCard submits a new card. On success the server's card (with its
// assigned ID) is prepended to the feed and the active dialog closes; on
// failure the dialog stays open so the user can retry or cancel.
func (s *FeedService) AddCard(ctx context.Context, name, imageURL string) (card.Card, error) {
	if err := s.validate.Struct(cardForm{Name: name, ImageURL: imageURL}); err != nil {
		return card.Card{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	created, err := s.client.CreateCard(ctx, name, imageURL)
	if err != nil {
		s.logger.Warn("add card failed", "name", name, "error", err)
		return card.Card{}, err
	}

	s.cards.Prepend(*created)
	s.popups.CloseAll()
	s.record(ctx, history.OpCardAdded, created.ID, created.Name)
	return *created, nil
}

// DeleteCard deletes the card carried by the active confirmDelete dialog.
// On success exactly that card is removed from the collection and all
// dialogs close; on failure the dialog stays open.
func (s *FeedService) DeleteCard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	active := s.popups.Active()
	if active.Kind != popup.KindConfirmDelete {
		return ErrNoPendingDelete
	}
	pending := active.Card
	if !pending.OwnedBy(s.profile.ID) {
		return ErrNotOwner
	}

	if err := s.client.DeleteCard(ctx, pending.ID); err != nil {
		s.logger.Warn("delete card failed", "card_id", pending.ID, "error", err)
		return err
	}

	s.cards.RemoveByID(pending.ID)
	s.popups.CloseAll()
	s.record(ctx, history.OpCardDeleted, pending.ID, pending.Name)
	return nil
}

// UpdateAvatar sets a new avatar URL. On success the server's response
// replaces the whole local profile and the active dialog closes; on
// failure the dialog stays open.
func (s *FeedService) UpdateAvatar(ctx context.Context, avatarURL string) (user.Profile, error) {
	if err := s.validate.Struct(avatarForm{URL: avatarURL}); err != nil {
		return user.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	updated, err := s.client.UpdateAvatar(ctx, avatarURL)
	if err != nil {
		s.logger.Warn("avatar update failed", "error", err)
		return user.Profile{}, err
	}

	s.profile = *updated
	s.popups.CloseAll()
	s.record(ctx, history.OpAvatarUpdated, updated.ID, updated.AvatarURL)
	return *updated, nil
}

// UpdateProfile sets the profile name and about line. On success the
// server's response replaces the whole local profile and the active
// dialog closes; on failure the dialog stays open.
func (s *FeedService) UpdateProfile(ctx context.Context, name, about string) (user.Profile, error) {
	if err := s.validate.Struct(profileForm{Name: name, About: about}); err != nil {
		return user.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	updated, err := s.client.UpdateProfile(ctx, name, about)
	if err != nil {
		s.logger.Warn("profile update failed", "error", err)
		return user.Profile{}, err
	}

	s.profile = *updated
	s.popups.CloseAll()
	s.record(ctx, history.OpProfileUpdated, updated.ID, updated.Name)
	return *updated, nil
}

// record appends a confirmed mutation to the local history, best effort.
func (s *FeedService) record(ctx context.Context, op history.Op, subject, detail string) {
	if s.hist == nil {
		return
	}
	rec := history.Record{
		ID:      uuid.NewString(),
		At:      time.Now().UTC(),
		Op:      op,
		Subject: subject,
		Detail:  detail,
	}
	if err := s.hist.Append(ctx, rec); err != nil {
		s.logger.Warn("failed to record mutation history", "op", string(op), "error", err)
	}
}
