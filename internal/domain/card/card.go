// Package card defines the photo card model and the ordered collection
// the feed is rendered from.
package card

// Card is a single photo card in the shared feed.
// Likes are server-computed: the client never edits LikedBy locally,
// it only replaces a card wholesale with the server's response.
type Card struct {
	// ID is the server-assigned card identifier.
	ID string `json:"_id"`
	// Name is the card caption.
	Name string `json:"name"`
	// ImageURL is the photo location.
	ImageURL string `json:"link"`
	// OwnerID is the user that created the card.
	OwnerID string `json:"owner"`
	// LikedBy is the set of user IDs that liked the card, in server order.
	LikedBy []string `json:"likes"`
}

// IsLikedBy reports whether the given user is in the card's like set.
func (c *Card) IsLikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range c.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the given user created the card.
func (c *Card) OwnedBy(userID string) bool {
	return userID != "" && c.OwnerID == userID
}

// Collection is the in-memory ordered card list the feed shows.
// It is not safe for concurrent use; the feed service serializes access.
type Collection struct {
	cards []Card
}

// Replace swaps the whole collection for the given cards.
func (l *Collection) Replace(cards []Card) {
	l.cards = make([]Card, len(cards))
	copy(l.cards, cards)
}

// Cards returns a copy of the collection in feed order.
func (l *Collection) Cards() []Card {
	out := make([]Card, len(l.cards))
	copy(out, l.cards)
	return out
}

// Len returns the number of cards in the collection.
func (l *Collection) Len() int {
	return len(l.cards)
}

// ByID returns the card with the given ID.
func (l *Collection) ByID(id string) (Card, bool) {
	for _, c := range l.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Prepend places a card at the head of the collection, leaving the
// relative order of the rest unchanged.
func (l *Collection) Prepend(c Card) {
	l.cards = append([]Card{c}, l.cards...)
}

// ReplaceByID swaps the card with the matching ID for the given card,
// keeping its position. Returns false if no card matched.
func (l *Collection) ReplaceByID(c Card) bool {
	for i := range l.cards {
		if l.cards[i].ID == c.ID {
			l.cards[i] = c
			return true
		}
	}
	return false
}

// RemoveByID removes the card with the matching ID, preserving the
// relative order of the remaining cards. Returns false if no card matched.
func (l *Collection) RemoveByID(id string) bool {
	for i := range l.cards {
		if l.cards[i].ID == id {
			l.cards = append(l.cards[:i], l.cards[i+1:]...)
			return true
		}
	}
	return false
}
