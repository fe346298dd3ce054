package dto

type RegisterDTO struct {
	Nome      string   `json:"nome"`
	Sobrenome string   `json:"sobrenome"`
	Email     string   `json:"email"`
	Senha     string   `json:"senha"`
	Idade     *FlexInt `json:"idade"`
	Profissao string   `json:"profissao"`
}

type LoginDTO struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// UpdateProfileDTO is a partial profile update. Nil preserves the stored
// value; a provided falsy idade/profissao clears the field.
type UpdateProfileDTO struct {
	Nome      *string  `json:"nome"`
	Sobrenome *string  `json:"sobrenome"`
	Idade     *FlexInt `json:"idade"`
	Profissao *string  `json:"profissao"`
}

type FavoriteDTO struct {
	ProdutoID string `json:"produto_id"`
}
