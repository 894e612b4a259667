package domain

import "time"

// Comment is a review left by a user on an offer.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	AuthorID  string    `json:"authorId"`
	OfferID   string    `json:"offerId"`
	CreatedAt time.Time `json:"createdAt"`
}
