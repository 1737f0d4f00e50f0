package models

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// FaqStatus is the publication state of an FAQ entry.
type FaqStatus string

const (
	StatusPublished FaqStatus = "Published"
	StatusReview    FaqStatus = "Review"
	StatusDraft     FaqStatus = "Draft"
)

// CanonicalLanguages is the fixed ordering used for per-FAQ language coverage.
var CanonicalLanguages = []string{"English", "Hindi", "Tamil", "Telugu", "Malayalam"}

// User is the identity returned by the mock auth service. The display name
// doubles as the storage namespace for all session-scoped data.
type User struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Message is a single chat turn. Messages are immutable once appended.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// ChatSession is one conversation thread. The title stays "New Chat" until
// the first user message retitles it.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// TranslationRecord is one completed translate operation. Exactly one of
// OriginalText and OriginalFileName is set, depending on the input source.
type TranslationRecord struct {
	ID               string `json:"id"`
	Timestamp        string `json:"timestamp"`
	OriginalText     string `json:"originalText,omitempty"`
	OriginalFileName string `json:"originalFileName,omitempty"`
	TranslatedText   string `json:"translatedText"`
	Instructions     string `json:"instructions"`
}

// Faq is one knowledge-base entry managed through the dashboard.
type Faq struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category"`
	Languages   []string  `json:"languages"`
	Status      FaqStatus `json:"status"`
	LastUpdated string    `json:"last_updated"`
	Editor      string    `json:"editor"`
}

// Category groups FAQs. The id is a slug derived from the name at creation;
// Faq.Category is a soft reference to it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// StatusCounts summarizes a FAQ list by publication state.
type StatusCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Review    int `json:"review"`
	Draft     int `json:"draft"`
}
