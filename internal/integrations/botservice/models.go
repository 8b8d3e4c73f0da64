package botservice

// ReplyRequest входящее сообщение, передаваемое оркестратору бота
type ReplyRequest struct {
	ConversationID string `json:"conversation_id"` // номер отправителя
	MessageID      string `json:"message_id"`
	From           string `json:"from"`
	ProfileName    string `json:"profile_name,omitempty"`
	Body           string `json:"body"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

// Reply ответ оркестратора
type Reply struct {
	Text    string         `json:"text"`
	Booking *BookingIntent `json:"booking,omitempty"`
}

// BookingIntent намерение забронировать, распознанное ботом
type BookingIntent struct {
	ActivityID    int64  `json:"activity_id,omitempty"`
	ActivitySlug  string `json:"activity_slug,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	Seats         int    `json:"seats"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ErrorResponse модель ошибки от оркестратора
type ErrorResponse struct {
	Message string `json:"message"`
}
