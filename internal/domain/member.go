package domain

// Member represents a connection's participation meta.
// No transport or lifecycle logic here.
type Member struct {
	User *User
	// ClientToken is the cookie-session token of the browser behind the connection.
	ClientToken string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user *User, clientToken string) *Member {
	return &Member{User: user, ClientToken: clientToken}
}
