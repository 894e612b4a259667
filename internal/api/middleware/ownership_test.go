package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const (
	offerID = "65f1c0ffee00000000000001"
	ownerA  = "65f1c0ffee0000000000000a"
	ownerB  = "65f1c0ffee0000000000000b"
)

func ownersOf(owners map[string]string) ports.OwnerLookup {
	return ports.OwnerLookupFunc(func(_ context.Context, id string) (string, error) {
		owner, ok := owners[id]
		if !ok {
			return "", domain.ErrOfferNotFound
		}
		return owner, nil
	})
}

// serveChain routes PATCH /offers/:offerId through the ownership chain.
func serveChain(t *testing.T, lookup ports.OwnerLookup, id *domain.Identity, path string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	called := false

	setIdentity := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id != nil {
				SetIdentity(c, *id)
			}
			return next(c)
		}
	}

	e.PATCH("/offers/:offerId", func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	},
		ValidateObjectID("offerId"),
		setIdentity,
		CheckEntityExists(lookup, "offerId", "Offer"),
		RequireOwner("update", "Offer", zerolog.Nop()),
	)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, nil))
	return rec, called
}

func TestOwnership_OwnerProceeds(t *testing.T) {
	id := domain.Identity{SubjectID: ownerA}
	rec, called := serveChain(t, ownersOf(map[string]string{offerID: ownerA}), &id, "/offers/"+offerID)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected owner to reach handler, got %d", rec.Code)
	}
}

func TestOwnership_OwnerIDIsNormalised(t *testing.T) {
	id := domain.Identity{SubjectID: " 65F1C0FFEE0000000000000A "}
	rec, called := serveChain(t, ownersOf(map[string]string{offerID: ownerA}), &id, "/offers/"+offerID)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected normalised ids to match, got %d", rec.Code)
	}
}

func TestOwnership_OtherSubjectForbidden(t *testing.T) {
	id := domain.Identity{SubjectID: ownerA}
	rec, called := serveChain(t, ownersOf(map[string]string{offerID: ownerB}), &id, "/offers/"+offerID)

	if called {
		t.Fatal("handler must not run for a non-owner")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["error"] != "Forbidden" || body["message"] != "You can only update your own offer" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOwnership_NoIdentity(t *testing.T) {
	rec, called := serveChain(t, ownersOf(map[string]string{offerID: ownerA}), nil, "/offers/"+offerID)

	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
	if body := decodeError(t, rec); body["message"] != "Authentication required" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOwnership_MissingResource(t *testing.T) {
	id := domain.Identity{SubjectID: ownerA}
	rec, called := serveChain(t, ownersOf(map[string]string{}), &id, "/offers/"+offerID)

	if called || rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["message"] != "Offer with id "+offerID+" not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestOwnership_InvalidObjectID(t *testing.T) {
	id := domain.Identity{SubjectID: ownerA}
	rec, called := serveChain(t, ownersOf(nil), &id, "/offers/not-an-id")

	if called || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["message"] != "not-an-id is invalid ObjectID" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCheckEntityExists_LookupFailurePropagates(t *testing.T) {
	boom := errors.New("mongo down")
	lookup := ports.OwnerLookupFunc(func(context.Context, string) (string, error) { return "", boom })

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("offerId")
	c.SetParamValues(offerID)

	err := CheckEntityExists(lookup, "offerId", "Offer")(func(echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to reach the error handler, got %v", err)
	}
}
