package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/api/middleware"
	"github.com/sixcities/rental-api/internal/api/response"
	"github.com/sixcities/rental-api/internal/core/domain"
)

var alice = domain.Identity{SubjectID: "65f1c0ffee0000000000000a", Email: "alice@example.com", AccountType: domain.AccountRegular}

type call struct {
	method string
	path   string
	body   io.Reader
	params map[string]string
	query  string
	id     *domain.Identity
}

// invoke runs h the way the router would, rendering returned errors the same
// way the central error handler does.
func invoke(t *testing.T, h echo.HandlerFunc, in call) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	target := in.path
	if in.query != "" {
		target += "?" + in.query
	}
	req := httptest.NewRequest(in.method, target, in.body)
	if in.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for k, v := range in.params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if in.id != nil {
		middleware.SetIdentity(c, *in.id)
	}

	if err := h(c); err != nil {
		status, body, _ := response.Resolve(err)
		_ = c.JSON(status, body)
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) map[string]any {
	t.Helper()
	expectStatus(t, rec, status)
	body := decode[map[string]any](t, rec)
	if body["error"] != code {
		t.Fatalf("expected error code %q, got %v", code, body)
	}
	return body
}

