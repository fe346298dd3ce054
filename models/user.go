package models

import "time"

type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

// User is a storefront account. SenhaHash is nil for accounts created through
// Google; GoogleID is nil for password-only accounts until the first Google
// login merges them.
type User struct {
	ID        string     `json:"id"`
	Nome      string     `json:"nome"`
	Sobrenome string     `json:"sobrenome"`
	Email     string     `json:"email"`
	SenhaHash *string    `json:"senha_hash"`
	GoogleID  *string    `json:"google_id,omitempty"`
	Idade     *int       `json:"idade"`
	Profissao *string    `json:"profissao"`
	Provider  Provider   `json:"provider"`
	CriadoEm  time.Time  `json:"criado_em"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Profile is the outward-facing view of a User, without the password hash.
type Profile struct {
	ID        string     `json:"id"`
	Nome      string     `json:"nome"`
	Sobrenome string     `json:"sobrenome"`
	Email     string     `json:"email"`
	GoogleID  *string    `json:"google_id,omitempty"`
	Idade     *int       `json:"idade"`
	Profissao *string    `json:"profissao"`
	Provider  Provider   `json:"provider"`
	CriadoEm  time.Time  `json:"criado_em"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Nome:      u.Nome,
		Sobrenome: u.Sobrenome,
		Email:     u.Email,
		GoogleID:  u.GoogleID,
		Idade:     u.Idade,
		Profissao: u.Profissao,
		Provider:  u.Provider,
		CriadoEm:  u.CriadoEm,
		UpdatedAt: u.UpdatedAt,
	}
}
