package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	PasswordHash string     `json:"-"`
}
