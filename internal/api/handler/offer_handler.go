package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/api/middleware"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

// OfferHandler handles HTTP requests for offers and favorites.
type OfferHandler struct {
	offers ports.OfferService
}

func NewOfferHandler(offers ports.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// List handles GET /offers.
//
// @Summary      List offers
// @Tags         offers
// @Produce      json
// @Param        city   query     string  false  "City filter"
// @Param        limit  query     int     false  "Maximum number of offers (default 60)"
// @Success      200    {array}   domain.Offer
// @Failure      400    {object}  response.ErrorBody
// @Router       /offers [get]
func (h *OfferHandler) List(c echo.Context) error {
	city, err := queryCity(c, false)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	offers, err := h.offers.List(c.Request().Context(), ports.ListOffersInput{
		City:     city,
		Limit:    limit,
		ViewerID: middleware.ViewerID(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// Premium handles GET /offers/premium.
//
// @Summary      Premium offers of a city
// @Tags         offers
// @Produce      json
// @Param        city  query     string  true  "City"
// @Success      200   {array}   domain.Offer
// @Failure      400   {object}  response.ErrorBody
// @Router       /offers/premium [get]
func (h *OfferHandler) Premium(c echo.Context) error {
	city, err := queryCity(c, true)
	if err != nil {
		return err
	}
	offers, err := h.offers.Premium(c.Request().Context(), city, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// Get handles GET /offers/:offerId.
//
// @Summary      Get an offer
// @Tags         offers
// @Produce      json
// @Param        offerId  path      string  true  "Offer id"
// @Success      200      {object}  domain.Offer
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /offers/{offerId} [get]
func (h *OfferHandler) Get(c echo.Context) error {
	offer, err := h.offers.Get(c.Request().Context(), c.Param("offerId"), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Create handles POST /offers. The author is the authenticated user.
//
// @Summary      Create an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferRequest  true  "Offer"
// @Success      201   {object}  domain.Offer
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Router       /offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req createOfferRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	offer, err := h.offers.Create(c.Request().Context(), req.toInput(id.SubjectID))
	if err != nil {
		return err
	}
	metrics.OffersCreatedTotal.WithLabelValues(string(offer.City)).Inc()
	return c.JSON(http.StatusCreated, offer)
}

// Update handles PATCH /offers/:offerId.
//
// @Summary      Update an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        offerId  path      string              true  "Offer id"
// @Param        body     body      updateOfferRequest  true  "Fields to change"
// @Success      200      {object}  domain.Offer
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      403      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /offers/{offerId} [patch]
func (h *OfferHandler) Update(c echo.Context) error {
	var req updateOfferRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	offer, err := h.offers.Update(c.Request().Context(), c.Param("offerId"), req.toPatch())
	if err != nil {
		return err
	}
	offer.IsFavorite = offer.FavoredBy(middleware.ViewerID(c))
	return c.JSON(http.StatusOK, offer)
}

// Delete handles DELETE /offers/:offerId together with its comments.
//
// @Summary      Delete an offer
// @Tags         offers
// @Security     BearerAuth
// @Param        offerId  path  string  true  "Offer id"
// @Success      204
// @Failure      401  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /offers/{offerId} [delete]
func (h *OfferHandler) Delete(c echo.Context) error {
	if err := h.offers.Delete(c.Request().Context(), c.Param("offerId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Favorites handles GET /favorites.
//
// @Summary      Favorite offers of the current user
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Offer
// @Failure      401  {object}  response.ErrorBody
// @Router       /favorites [get]
func (h *OfferHandler) Favorites(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	offers, err := h.offers.Favorites(c.Request().Context(), id.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// AddFavorite handles POST /favorites/:offerId.
//
// @Summary      Add an offer to favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        offerId  path      string  true  "Offer id"
// @Success      200      {object}  domain.Offer
// @Failure      401      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /favorites/{offerId} [post]
func (h *OfferHandler) AddFavorite(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	offer, err := h.offers.AddFavorite(c.Request().Context(), c.Param("offerId"), id.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// RemoveFavorite handles DELETE /favorites/:offerId.
//
// @Summary      Remove an offer from favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        offerId  path      string  true  "Offer id"
// @Success      200      {object}  domain.Offer
// @Failure      401      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /favorites/{offerId} [delete]
func (h *OfferHandler) RemoveFavorite(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	offer, err := h.offers.RemoveFavorite(c.Request().Context(), c.Param("offerId"), id.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

func queryCity(c echo.Context, required bool) (domain.City, error) {
	raw := c.QueryParam("city")
	if raw == "" {
		if required {
			return "", domain.NewError(domain.KindBadRequest, "City parameter is required")
		}
		return "", nil
	}
	var ch checker
	ch.check("city", raw, cityRule)
	if err := ch.result(); err != nil {
		return "", err
	}
	return domain.City(raw), nil
}
