package models

type Role string // Роль участника сделки

const (
	Buyer    Role = "buyer"
	Supplier Role = "supplier"
	System   Role = "system"
)

// Party идентифицирует участника, выполняющего действие.
type Party struct {
	Role Role   `json:"role"`
	ID   string `json:"id"`
}
