package domain

type User struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Hash      string `db:"password_hash"`
	Role      string `db:"role"`
	Active    bool   `db:"active"`
	LastLogin string `db:"last_login"`
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
