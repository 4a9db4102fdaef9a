package domain

// Notification is the payload handed to the notifications microservice after
// a statement is generated or refreshed. Delivery is best-effort: failures
// are logged and swallowed.
type Notification struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	IBAN      string `json:"iban"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Message   string `json:"message"`
}
