package internal

// Account is what login needs to know about a player.
type Account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PassHash string `json:"-"`
}

type LogEntry struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type filterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
