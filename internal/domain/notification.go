package domain

type Notification struct {
	NotificationID string `json:"_id" dynamodbav:"notification_id"`
	Title          string `json:"title" dynamodbav:"title"`
	Notification   string `json:"notification" dynamodbav:"notification"`
	Date           string `json:"date" dynamodbav:"date"`
}
