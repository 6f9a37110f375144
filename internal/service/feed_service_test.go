package service

import (
	"context"
	"errors"
	"testing"

	"github.com/placefeed/placefeed/internal/domain/card"
	"github.com/placefeed/placefeed/internal/domain/history"
	"github.com/placefeed/placefeed/internal/domain/popup"
	"github.com/placefeed/placefeed/internal/domain/user"
)

var (
	testProfile = user.Profile{ID: "me", Name: "Jacques", About: "Explorer"}

	feedCards = []card.Card{
		{ID: "c1", Name: "Peak", OwnerID: "me", LikedBy: []string{"u1"}},
		{ID: "c2", Name: "Lake", OwnerID: "u1", LikedBy: []string{"me"}},
		{ID: "c3", Name: "Shore", OwnerID: "u2"},
	}
)

func newFeedFixture(t *testing.T, client *mockResourceClient) (*FeedService, *popup.Orchestrator, *mockHistoryStore) {
	t.Helper()
	if client.profile == nil {
		client.profile = &testProfile
	}
	if client.cards == nil {
		client.cards = feedCards
	}
	popups := popup.NewOrchestrator()
	hist := &mockHistoryStore{}
	svc := NewFeedService(client, popups, hist, testLogger())
	if err := svc.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial() error: %v", err)
	}
	return svc, popups, hist
}

func assertFeedOrder(t *testing.T, svc *FeedService, want ...string) {
	t.Helper()
	got := svc.Cards()
	if len(got) != len(want) {
		t.Fatalf("feed has %d cards, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestLoadInitialPopulatesBoth(t *testing.T) {
	svc, _, _ := newFeedFixture(t, &mockResourceClient{})

	if svc.Profile().ID != "me" {
		t.Errorf("profile ID = %q, want me", svc.Profile().ID)
	}
	assertFeedOrder(t, svc, "c1", "c2", "c3")
	if svc.Busy() {
		t.Error("Busy() = true after load completed")
	}
}

func TestLoadInitialAllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		client *mockResourceClient
	}{
		{name: "profile fetch fails", client: &mockResourceClient{profileErr: errors.New("500")}},
		{name: "card fetch fails", client: &mockResourceClient{cardsErr: errors.New("500")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.profile = &testProfile
			tt.client.cards = feedCards
			svc := NewFeedService(tt.client, popup.NewOrchestrator(), nil, testLogger())

			if err := svc.LoadInitial(context.Background()); err == nil {
				t.Fatal("LoadInitial() succeeded, want error")
			}
			if svc.Profile().ID != "" || len(svc.Cards()) != 0 {
				t.Error("partial state applied after failed load")
			}
		})
	}
}

func TestToggleLikeDirection(t *testing.T) {
	server := card.Card{ID: "c3", Name: "Shore", OwnerID: "u2", LikedBy: []string{"me", "u9"}}
	client := &mockResourceClient{likeResult: &server, unlikeResult: &server}
	svc, _, hist := newFeedFixture(t, client)

	// c3 is not in the local like set, so the toggle issues a like.
	got, err := svc.ToggleLike(context.Background(), "c3")
	if err != nil {
		t.Fatalf("ToggleLike(c3) error: %v", err)
	}
	if len(client.likeCalls) != 1 || len(client.unlikeCalls) != 0 {
		t.Fatalf("like calls = %v, unlike calls = %v; want one like", client.likeCalls, client.unlikeCalls)
	}

	// The server's like set wins wholesale, extra likers included.
	if len(got.LikedBy) != 2 {
		t.Errorf("returned card has %d likes, want 2 from server", len(got.LikedBy))
	}
	local, _ := cardByID(svc, "c3")
	if len(local.LikedBy) != 2 {
		t.Errorf("local card has %d likes, want server copy", len(local.LikedBy))
	}

	// c2 is already liked locally, so the toggle issues an unlike.
	client.unlikeResult = &card.Card{ID: "c2", Name: "Lake", OwnerID: "u1"}
	if _, err := svc.ToggleLike(context.Background(), "c2"); err != nil {
		t.Fatalf("ToggleLike(c2) error: %v", err)
	}
	if len(client.unlikeCalls) != 1 {
		t.Fatalf("unlike calls = %v, want one", client.unlikeCalls)
	}

	if len(hist.records) != 2 {
		t.Fatalf("history has %d records, want 2", len(hist.records))
	}
	if hist.records[0].Op != history.OpCardLiked || hist.records[1].Op != history.OpCardUnliked {
		t.Errorf("history ops = %s, %s; want liked then unliked", hist.records[0].Op, hist.records[1].Op)
	}
}

func TestToggleLikeFailureKeepsLocalState(t *testing.T) {
	client := &mockResourceClient{likeErr: errors.New("500")}
	svc, _, _ := newFeedFixture(t, client)

	if _, err := svc.ToggleLike(context.Background(), "c3"); err == nil {
		t.Fatal("ToggleLike() succeeded, want error")
	}

	local, _ := cardByID(svc, "c3")
	if len(local.LikedBy) != 0 {
		t.Error("local like set changed after failed round trip")
	}
	if svc.Busy() {
		t.Error("Busy() = true after failed round trip")
	}
}

func TestToggleLikeUnknownCard(t *testing.T) {
	svc, _, _ := newFeedFixture(t, &mockResourceClient{})

	if _, err := svc.ToggleLike(context.Background(), "zz"); !errors.Is(err, ErrUnknownCard) {
		t.Errorf("ToggleLike(zz) error = %v, want ErrUnknownCard", err)
	}
}

func TestAddCardSuccess(t *testing.T) {
	created := card.Card{ID: "srv-9", Name: "Valley", OwnerID: "me"}
	client := &mockResourceClient{createResult: &created}
	svc, popups, hist := newFeedFixture(t, client)
	popups.Open(popup.KindAddPlace)

	got, err := svc.AddCard(context.Background(), "Valley", "https://img.example.com/v.jpg")
	if err != nil {
		t.Fatalf("AddCard() error: %v", err)
	}
	if got.ID != "srv-9" {
		t.Errorf("returned card ID = %q, want the server-assigned srv-9", got.ID)
	}

	assertFeedOrder(t, svc, "srv-9", "c1", "c2", "c3")
	if popups.Active().Kind != popup.KindNone {
		t.Error("dialog still open after successful add")
	}
	if len(hist.records) != 1 || hist.records[0].Op != history.OpCardAdded {
		t.Errorf("history = %+v, want one cardAdded record", hist.records)
	}
}

func TestAddCardFailureLeavesDialogOpen(t *testing.T) {
	client := &mockResourceClient{createErr: errors.New("500")}
	svc, popups, _ := newFeedFixture(t, client)
	popups.Open(popup.KindAddPlace)

	if _, err := svc.AddCard(context.Background(), "Valley", "https://img.example.com/v.jpg"); err == nil {
		t.Fatal("AddCard() succeeded, want error")
	}

	if popups.Active().Kind != popup.KindAddPlace {
		t.Error("dialog closed after failed add")
	}
	assertFeedOrder(t, svc, "c1", "c2", "c3")
	if svc.Busy() {
		t.Error("Busy() = true after failed round trip")
	}
}

func TestAddCardValidation(t *testing.T) {
	tests := []struct {
		name     string
		cardName string
		imageURL string
	}{
		{name: "name too short", cardName: "V", imageURL: "https://img.example.com/v.jpg"},
		{name: "name too long", cardName: "0123456789012345678901234567890", imageURL: "https://img.example.com/v.jpg"},
		{name: "bad url", cardName: "Valley", imageURL: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newFeedFixture(t, &mockResourceClient{})

			if _, err := svc.AddCard(context.Background(), tt.cardName, tt.imageURL); err == nil {
				t.Fatal("AddCard() succeeded, want validation error")
			}
			assertFeedOrder(t, svc, "c1", "c2", "c3")
		})
	}
}

func TestDeleteCardSuccess(t *testing.T) {
	client := &mockResourceClient{}
	svc, popups, hist := newFeedFixture(t, client)
	pending, _ := cardByID(svc, "c1")
	popups.OpenWithCard(popup.KindConfirmDelete, &pending)

	if err := svc.DeleteCard(context.Background()); err != nil {
		t.Fatalf("DeleteCard() error: %v", err)
	}

	assertFeedOrder(t, svc, "c2", "c3")
	if popups.Active().Kind != popup.KindNone {
		t.Error("dialog still open after successful delete")
	}
	if len(client.deleteCalls) != 1 || client.deleteCalls[0] != "c1" {
		t.Errorf("delete calls = %v, want [c1]", client.deleteCalls)
	}
	if len(hist.records) != 1 || hist.records[0].Op != history.OpCardDeleted {
		t.Errorf("history = %+v, want one cardDeleted record", hist.records)
	}
}

func TestDeleteCardFailureLeavesDialogOpen(t *testing.T) {
	client := &mockResourceClient{deleteErr: errors.New("500")}
	svc, popups, _ := newFeedFixture(t, client)
	pending, _ := cardByID(svc, "c1")
	popups.OpenWithCard(popup.KindConfirmDelete, &pending)

	if err := svc.DeleteCard(context.Background()); err == nil {
		t.Fatal("DeleteCard() succeeded, want error")
	}

	assertFeedOrder(t, svc, "c1", "c2", "c3")
	if popups.Active().Kind != popup.KindConfirmDelete {
		t.Error("dialog closed after failed delete")
	}
}

func TestDeleteCardWithoutConfirmation(t *testing.T) {
	svc, _, _ := newFeedFixture(t, &mockResourceClient{})

	if err := svc.DeleteCard(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("DeleteCard() error = %v, want ErrNoPendingDelete", err)
	}
}

func TestDeleteCardNotOwner(t *testing.T) {
	client := &mockResourceClient{}
	svc, popups, _ := newFeedFixture(t, client)
	pending, _ := cardByID(svc, "c2")
	popups.OpenWithCard(popup.KindConfirmDelete, &pending)

	if err := svc.DeleteCard(context.Background()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("DeleteCard() error = %v, want ErrNotOwner", err)
	}
	if len(client.deleteCalls) != 0 {
		t.Errorf("delete calls = %v, want none for foreign card", client.deleteCalls)
	}
	assertFeedOrder(t, svc, "c1", "c2", "c3")
}

func TestUpdateProfileReplacesWholesale(t *testing.T) {
	server := user.Profile{ID: "me", Name: "Marie", About: "Scientist", AvatarURL: "https://img.example.com/server.jpg"}
	client := &mockResourceClient{updateProfileResult: &server}
	svc, popups, hist := newFeedFixture(t, client)
	popups.Open(popup.KindEditProfile)

	got, err := svc.UpdateProfile(context.Background(), "Marie", "Scientist")
	if err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}

	// The server response replaces the whole profile, avatar included.
	if got.AvatarURL != server.AvatarURL {
		t.Errorf("avatar = %q, want the server's copy", got.AvatarURL)
	}
	if svc.Profile() != server {
		t.Errorf("local profile = %+v, want %+v", svc.Profile(), server)
	}
	if popups.Active().Kind != popup.KindNone {
		t.Error("dialog still open after successful update")
	}
	if len(hist.records) != 1 || hist.records[0].Op != history.OpProfileUpdated {
		t.Errorf("history = %+v, want one profileUpdated record", hist.records)
	}
}

func TestUpdateAvatarFailureLeavesDialogOpen(t *testing.T) {
	client := &mockResourceClient{updateAvatarErr: errors.New("500")}
	svc, popups, _ := newFeedFixture(t, client)
	popups.Open(popup.KindEditAvatar)

	if _, err := svc.UpdateAvatar(context.Background(), "https://img.example.com/a.jpg"); err == nil {
		t.Fatal("UpdateAvatar() succeeded, want error")
	}

	if popups.Active().Kind != popup.KindEditAvatar {
		t.Error("dialog closed after failed update")
	}
	if svc.Profile() != testProfile {
		t.Error("local profile changed after failed round trip")
	}
}

func TestBusyDuringRoundTrip(t *testing.T) {
	created := card.Card{ID: "srv-1", Name: "Valley", OwnerID: "me"}
	client := &mockResourceClient{createResult: &created}
	svc, _, _ := newFeedFixture(t, client)

	var busyMidFlight bool
	client.hook = func() { busyMidFlight = svc.Busy() }

	if _, err := svc.AddCard(context.Background(), "Valley", "https://img.example.com/v.jpg"); err != nil {
		t.Fatalf("AddCard() error: %v", err)
	}
	if !busyMidFlight {
		t.Error("Busy() = false while a round trip was outstanding")
	}
	if svc.Busy() {
		t.Error("Busy() = true after the round trip completed")
	}
}

func cardByID(svc *FeedService, id string) (card.Card, bool) {
	for _, c := range svc.Cards() {
		if c.ID == id {
			return c, true
		}
	}
	return card.Card{}, false
}
