package domain

// Defaults applied at registration when the optional fields are blank.
const (
	DefaultPosition = "Sub-Com"
	DefaultTitle    = "Member"
	DefaultPic      = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_960_720.png"
)

type Member struct {
	MemberID          string  `json:"_id" dynamodbav:"member_id"`
	Name              string  `json:"name" dynamodbav:"name"`
	Email             string  `json:"email" dynamodbav:"email"`
	PasswordHash      string  `json:"-" dynamodbav:"password_hash"`
	Mobile            string  `json:"mobile" dynamodbav:"mobile"`
	Course            string  `json:"course" dynamodbav:"course"`
	Year              string  `json:"year" dynamodbav:"year"`
	Role              string  `json:"role" dynamodbav:"role"`
	Position          string  `json:"position" dynamodbav:"position"`
	Title             string  `json:"title" dynamodbav:"title"`
	About             string  `json:"about" dynamodbav:"about"`
	Pic               string  `json:"pic" dynamodbav:"pic"`
	JoinedEventsCount int     `json:"joinedEventsCount" dynamodbav:"joined_events_count"`
	OTPCode           *string `json:"-" dynamodbav:"otp_code"`
	OTPExpiresAt      *int64  `json:"-" dynamodbav:"otp_expires_at"` // Unix milliseconds
}

// Principal returns the credential view used by the auth flow.
func (m *Member) Principal() *Principal {
	return &Principal{
		ID:           m.MemberID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		OTPCode:      m.OTPCode,
		OTPExpiresAt: m.OTPExpiresAt,
	}
}

type RegisterMemberRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Mobile   string `json:"mobile" validate:"required"`
	Course   string `json:"course" validate:"required"`
	Year     string `json:"year" validate:"required"`
	Role     string `json:"role"`
	Position string `json:"position"`
	Title    string `json:"title"`
	About    string `json:"about" validate:"required"`
	Pic      string `json:"pic"`
}

type UpdateMemberRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	Mobile   *string `json:"mobile"`
	Year     *string `json:"year"`
	About    *string `json:"about"`
	Pic      *string `json:"pic"`
}
