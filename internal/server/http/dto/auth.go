package dto

// AuthRequest carries a staff passcode and optional role.
type AuthRequest struct {
	Passcode string `json:"passcode"`
	Role     string `json:"role"`
}

// AuthResponse is returned after a successful passcode check.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Role    string `json:"role"`
	Token   string `json:"token"`
}
