package handler

import "strings"

type createCommentRequest struct {
	Text   string `json:"text"   example:"Great location, friendly host."`
	Rating int    `json:"rating" example:"5"`
} // @name CreateCommentRequest

func (r *createCommentRequest) validate() error {
	var ch checker
	ch.check("text", strings.TrimSpace(r.Text), "required,min=5,max=1024")
	ch.check("rating", r.Rating, "gte=1,lte=5")
	return ch.result()
}
