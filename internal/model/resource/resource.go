package resource

// Resource is a crisis or support contact shown next to the chat.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Description  string `json:"description"`
	Availability string `json:"availability"`
	Emergency    bool   `json:"emergency,omitempty"`
}

// Seed provides the crisis directory.
func Seed() []Resource {
	return []Resource{
		{
			ID:           "988-lifeline",
			Name:         "988 Suicide & Crisis Lifeline",
			Contact:      "Call or Text: 988",
			Description:  "24/7 free & confidential support for anyone in crisis",
			Availability: "24/7",
		},
		{
			ID:           "crisis-text-line",
			Name:         "Crisis Text Line",
			Contact:      "Text HOME to 741741",
			Description:  "Free 24/7 crisis counseling via text message",
			Availability: "24/7",
		},
		{
			ID:           "emergency",
			Name:         "Emergency Services",
			Contact:      "Call 911",
			Description:  "For immediate danger or medical emergencies",
			Availability: "24/7",
			Emergency:    true,
		},
		{
			ID:           "international",
			Name:         "International Hotlines",
			Contact:      "befrienders.org",
			Description:  "Find crisis support in your country worldwide",
			Availability: "Varies by location",
		},
	}
}
