package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/core/ports"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List handles GET /comments/:offerId, newest first.
//
// @Summary      List comments of an offer
// @Tags         comments
// @Produce      json
// @Param        offerId  path      string  true   "Offer id"
// @Param        limit    query     int     false  "Maximum number of comments, 1 to 50 (default 50)"
// @Success      200      {array}   domain.Comment
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /comments/{offerId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByOffer(c.Request().Context(), c.Param("offerId"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Create handles POST /comments/:offerId.
//
// @Summary      Comment on an offer
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        offerId  path      string                true  "Offer id"
// @Param        body     body      createCommentRequest  true  "Comment"
// @Success      201      {object}  domain.Comment
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /comments/{offerId} [post]
func (h *CommentHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.Request().Context(), ports.CreateCommentInput{
		Text:     req.Text,
		Rating:   req.Rating,
		AuthorID: id.SubjectID,
		OfferID:  c.Param("offerId"),
	})
	if err != nil {
		return err
	}
	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, comment)
}
