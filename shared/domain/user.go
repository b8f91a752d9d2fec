package domain

// User is the read-only view of an account owned by the user module.
type User struct {
	Id    UserId `json:"id"`
	Email Email  `json:"email"`
	Name  string `json:"name"`
}
