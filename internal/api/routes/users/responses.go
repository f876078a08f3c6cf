package users

// User is the serializable view of an account. The password hash is never
// part of a response.
type User struct {
	ID    int64  `json:"idUser"`
	Email string `json:"email"`
}

type SignupResponse struct {
	Success bool  `json:"success"`
	UserID  int64 `json:"idUser"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListUsersResponse struct {
	Success bool   `json:"success"`
	Data    []User `json:"data"`
}

type GetUserResponse struct {
	Success bool `json:"success"`
	Data    User `json:"data"`
}

// notFoundResponse reports an empty lookup. It rides an HTTP 200; clients
// key off the success field, not the status code.
type notFoundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
