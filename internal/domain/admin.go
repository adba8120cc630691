package domain

type Admin struct {
	AdminID      string  `json:"_id" dynamodbav:"admin_id"`
	Email        string  `json:"email" dynamodbav:"email"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`
	Role         string  `json:"role" dynamodbav:"role"`
	OTPCode      *string `json:"-" dynamodbav:"otp_code"`
	OTPExpiresAt *int64  `json:"-" dynamodbav:"otp_expires_at"` // Unix milliseconds
}

// Principal returns the credential view used by the auth flow.
func (a *Admin) Principal() *Principal {
	return &Principal{
		ID:           a.AdminID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		OTPCode:      a.OTPCode,
		OTPExpiresAt: a.OTPExpiresAt,
	}
}
