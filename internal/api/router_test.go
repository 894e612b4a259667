package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/api/handler"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
	"github.com/sixcities/rental-api/internal/core/service"
)

const (
	subjectA = "65f1c0ffee0000000000000a"
	subjectB = "65f1c0ffee0000000000000b"
	offerOfA = "65f1c0ffee000000000000a1"
	offerOfB = "65f1c0ffee000000000000b1"
)

type fakeOffers struct {
	ports.OfferService
	owners  map[string]string
	updated []string
}

func (f *fakeOffers) OwnerOf(_ context.Context, id string) (string, error) {
	owner, ok := f.owners[id]
	if !ok {
		return "", domain.ErrOfferNotFound
	}
	return owner, nil
}

func (f *fakeOffers) List(_ context.Context, in ports.ListOffersInput) ([]*domain.Offer, error) {
	return []*domain.Offer{{ID: offerOfA, IsFavorite: in.ViewerID != ""}}, nil
}

func (f *fakeOffers) Update(_ context.Context, id string, _ domain.OfferPatch) (*domain.Offer, error) {
	f.updated = append(f.updated, id)
	return &domain.Offer{ID: id, AuthorID: f.owners[id]}, nil
}

func (f *fakeOffers) Favorites(context.Context, string) ([]*domain.Offer, error) {
	return []*domain.Offer{}, nil
}

type memoryComments struct {
	ports.CommentRepository
	lastLimit int
}

func (m *memoryComments) FindByOfferID(_ context.Context, _ string, limit int) ([]*domain.Comment, error) {
	m.lastLimit = limit
	return []*domain.Comment{}, nil
}

type testServer struct {
	e      *echo.Echo
	tokens   *service.TokenService
	offers   *fakeOffers
	comments *memoryComments
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens, err := service.NewTokenService("router-secret", "24h", zerolog.Nop())
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	offers := &fakeOffers{owners: map[string]string{offerOfA: subjectA, offerOfB: subjectB}}
	comments := &memoryComments{}

	e := NewRouter(Dependencies{
		Offers:         offers,
		Comments:       service.NewCommentService(comments, nil, nil, zerolog.Nop()),
		UploadMaxBytes: 1024,
		Tokens:         tokens,
		OfferOwners:    offers,
		UserOwners:     ports.OwnerLookupFunc(func(_ context.Context, id string) (string, error) { return id, nil }),
		Health:         map[string]handler.Pinger{},
		Log:            zerolog.Nop(),
		Registerer:     prometheus.NewRegistry(),
	})
	return &testServer{e: e, tokens: tokens, offers: offers, comments: comments}
}

func (s *testServer) bearer(t *testing.T, subject string) string {
	t.Helper()
	tok, err := s.tokens.Issue(domain.Identity{SubjectID: subject, Email: subject + "@example.com", AccountType: domain.AccountRegular})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + tok
}

func (s *testServer) do(method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRouter_NoHeader_MandatoryVsOptional(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/favorites", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on mandatory route, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["error"] != "Unauthorized" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = s.do(http.MethodGet, "/offers", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected optional route to run anonymously, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"isFavorite":false`) {
		t.Fatalf("anonymous request must not carry an identity: %s", rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/offers", s.bearer(t, subjectA), "")
	if !strings.Contains(rec.Body.String(), `"isFavorite":true`) {
		t.Fatalf("authenticated request must carry an identity: %s", rec.Body.String())
	}
}

func TestRouter_BasicScheme(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/favorites", "Basic abc", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["message"] != "Invalid authorization header format" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_UpdateOthersOffer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPatch, "/offers/"+offerOfB, s.bearer(t, subjectA), `{"price":300}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["message"] != "You can only update your own offer" {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(s.offers.updated) != 0 {
		t.Fatal("handler must not run for a non-owner")
	}
}

func TestRouter_UpdateOwnOffer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPatch, "/offers/"+offerOfA, s.bearer(t, subjectA), `{"price":300}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(s.offers.updated) != 1 || s.offers.updated[0] != offerOfA {
		t.Fatalf("unexpected updates: %v", s.offers.updated)
	}
}

func TestRouter_DeleteChecksOrder(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodDelete, "/offers/not-an-id", s.bearer(t, subjectA), ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: expected 400, got %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/offers/"+offerOfA, "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/offers/65f1c0ffee000000000000ff", s.bearer(t, subjectA), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown offer: expected 404, got %d", rec.Code)
	}
}

func TestRouter_AvatarOfAnotherUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/users/"+subjectB+"/avatar", s.bearer(t, subjectA), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["message"] != "You can only change your own avatar" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_Infrastructure(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}

	rec := s.do(http.MethodGet, "/nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["error"] != "Not Found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_CommentsOfUnknownOffer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/comments/65f1c0ffee00000000000099", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := errorBody(t, rec); body["message"] != "Offer with id 65f1c0ffee00000000000099 not found" {
		t.Fatalf("unexpected body: %v", body)
	}
	if s.comments.lastLimit != 0 {
		t.Fatal("repository must not be queried for an unknown offer")
	}
}

func TestRouter_CommentsLimit(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/comments/"+offerOfA+"?limit=100", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["message"] != "Limit must be a number between 1 and 50" {
		t.Fatalf("unexpected body: %v", body)
	}
	if s.comments.lastLimit != 0 {
		t.Fatalf("repository queried with limit %d", s.comments.lastLimit)
	}

	rec = s.do(http.MethodGet, "/comments/"+offerOfA, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if s.comments.lastLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", s.comments.lastLimit)
	}
}

func TestRouter_AvatarBodyTooLarge(t *testing.T) {
	s := newTestServer(t)

	body := strings.Repeat("x", 1024+multipartOverhead+1)
	rec := s.do(http.MethodPost, "/users/"+subjectA+"/avatar", s.bearer(t, subjectA), body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if body := errorBody(t, rec); body["error"] != "Request Entity Too Large" {
		t.Fatalf("unexpected body: %v", body)
	}
}
