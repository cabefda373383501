package model

import "time"

// ScheduleItem is one entry of the event timeline.
type ScheduleItem struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Time          string    `json:"time"`
	Title         string    `json:"title"`
	TitleEN       string    `json:"title_en,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionEN string    `json:"description_en,omitempty"`
	Location      string    `json:"location,omitempty"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// MenuItem is one dish or drink of the event menu, grouped by course.
type MenuItem struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Course        string    `json:"course"`
	Name          string    `json:"name"`
	NameEN        string    `json:"name_en,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionEN string    `json:"description_en,omitempty"`
	Dietary       string    `json:"dietary,omitempty"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionKind selects how a survey question is answered.
type QuestionKind string

const (
	QuestionText   QuestionKind = "text"
	QuestionChoice QuestionKind = "choice"
	QuestionRating QuestionKind = "rating"
)

func (k QuestionKind) Valid() bool {
	return k == QuestionText || k == QuestionChoice || k == QuestionRating
}

// SurveyQuestion is one question of the guest survey.
type SurveyQuestion struct {
	ID         string       `json:"id"`
	EventID    string       `json:"event_id"`
	Question   string       `json:"question"`
	QuestionEN string       `json:"question_en,omitempty"`
	Kind       QuestionKind `json:"kind"`
	Options    []string     `json:"options,omitempty"`
	OrderIndex int          `json:"order_index"`
	CreatedAt  time.Time    `json:"created_at"`
}

// SurveyResponse is a guest's answer to one question.
type SurveyResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	QuestionID string    `json:"question_id"`
	GuestID    string    `json:"guest_id"`
	GuestName  string    `json:"guest_name,omitempty"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// Vendor is a wedding service partner shown on the guest page.
type Vendor struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Website     string    `json:"website,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Photo is the metadata of an image uploaded by a guest. The image bytes
// live in external object storage; StorageURL points at them.
type Photo struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	GuestID    string    `json:"guest_id,omitempty"`
	GuestName  string    `json:"guest_name,omitempty"`
	StorageURL string    `json:"storage_url"`
	Caption    string    `json:"caption,omitempty"`
	Overlay    bool      `json:"overlay"`
	CreatedAt  time.Time `json:"created_at"`
}
