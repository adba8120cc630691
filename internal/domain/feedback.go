package domain

type Feedback struct {
	FeedbackID string `json:"_id" dynamodbav:"feedback_id"`
	Topic      string `json:"topic" dynamodbav:"topic"`
	Feedback   string `json:"feedback" dynamodbav:"feedback"`
	Date       string `json:"date" dynamodbav:"date"`
}
