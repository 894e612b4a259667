package handler

import (
	"strings"

	"github.com/sixcities/rental-api/internal/core/domain"
)

type registerRequest struct {
	Name     string `json:"name"     example:"Alice"`
	Email    string `json:"email"    example:"alice@example.com"`
	Password string `json:"password" example:"secret1"`
	Type     string `json:"type"     example:"regular" enums:"regular,pro"`
} // @name RegisterRequest

func (r *registerRequest) validate() error {
	var ch checker
	ch.check("name", strings.TrimSpace(r.Name), "required,min=1,max=15")
	ch.check("email", strings.TrimSpace(r.Email), "required,email")
	ch.check("password", r.Password, "required,min=6,max=12")
	if r.Type != "" && !domain.AccountType(r.Type).Valid() {
		ch.add("type", "type must be one of: regular pro")
	}
	return ch.result()
}

type loginRequest struct {
	Email    string `json:"email"    example:"alice@example.com"`
	Password string `json:"password" example:"secret1"`
} // @name LoginRequest

func (r *loginRequest) validate() error {
	var ch checker
	ch.check("email", strings.TrimSpace(r.Email), "required,email")
	ch.check("password", r.Password, "required")
	return ch.result()
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
} // @name LoginResponse
