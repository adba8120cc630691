package domain

type Event struct {
	EventID  string `json:"_id" dynamodbav:"event_id"`
	Title    string `json:"title" dynamodbav:"title"`
	Category string `json:"category" dynamodbav:"category"`
	Details  string `json:"details" dynamodbav:"details"`
	Date     string `json:"date" dynamodbav:"date"`
	JoinBy   string `json:"joinby" dynamodbav:"joinby"`
	Pic      string `json:"pic" dynamodbav:"pic"`
}

// EventMembership records a member having joined an event.
// PK: event_id, SK: member_id.
type EventMembership struct {
	EventID    string `json:"eventId" dynamodbav:"event_id"`
	MemberID   string `json:"memberId" dynamodbav:"member_id"`
	JoinedDate string `json:"joinedDate" dynamodbav:"joined_date"`
}

type CreateEventRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
	Details  string `json:"details" validate:"required"`
	Date     string `json:"date" validate:"required"`
	JoinBy   string `json:"joinby" validate:"required"`
	Pic      string `json:"pic" validate:"required"`
}

type UpdateEventRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Details  *string `json:"details"`
	Date     *string `json:"date"`
	JoinBy   *string `json:"joinby"`
	Pic      *string `json:"pic"`
}
