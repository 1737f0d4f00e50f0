package dashboard

import "github.com/campus-assistant-go/internal/models"

// seedCategories is the default category set for a fresh installation.
func seedCategories() []models.Category {
	return []models.Category{
		{ID: "admissions", Name: "Admissions", Icon: "book-open"},
		{ID: "academics", Name: "Academics", Icon: "briefcase"},
		{ID: "campus-services", Name: "Campus Services", Icon: "building"},
		{ID: "policies", Name: "Policies", Icon: "shield"},
		{ID: "events", Name: "Events", Icon: "calendar"},
	}
}

// seedFaqs is the default knowledge base for a fresh installation.
func seedFaqs() []models.Faq {
	return []models.Faq{
		{
			ID:          "faq-1",
			Question:    "What are the application deadlines for undergraduate programs?",
			Answer:      "The application deadline for the Fall semester is June 30th. For the Spring semester, it is November 30th.",
			Category:    "admissions",
			Languages:   []string{"English", "Hindi", "Tamil", "Telugu"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-28T10:00:00Z",
			Editor:      "Alice Johnson",
		},
		{
			ID:          "faq-2",
			Question:    "How can I check my semester results?",
			Answer:      "Semester results are published on the student portal under the \"Examinations\" section. You will need your student ID to log in.",
			Category:    "academics",
			Languages:   []string{"English", "Hindi", "Malayalam"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-27T15:30:00Z",
			Editor:      "Bob Williams",
		},
		{
			ID:          "faq-3",
			Question:    "What are the library opening hours?",
			Answer:      "The main library is open from 8 AM to 11 PM on weekdays and 10 AM to 8 PM on weekends.",
			Category:    "campus-services",
			Languages:   []string{"English", "Hindi"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-29T09:15:00Z",
			Editor:      "Charlie Brown",
		},
		{
			ID:          "faq-4",
			Question:    "What is the university's attendance policy?",
			Answer:      "A minimum of 75% attendance is required in all courses to be eligible for the final examinations. Medical leave must be substantiated with a doctor's certificate.",
			Category:    "policies",
			Languages:   []string{"English", "Hindi"},
			Status:      models.StatusReview,
			LastUpdated: "2024-07-26T11:00:00Z",
			Editor:      "Diana Prince",
		},
		{
			ID:          "faq-5",
			Question:    "When is the annual tech fest, \"Innovate 2024\"?",
			Answer:      "The dates for Innovate 2024 are yet to be finalized. Please check the official events page for updates.",
			Category:    "events",
			Languages:   []string{"English"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-29T12:00:00Z",
			Editor:      "Eve Adams",
		},
		{
			ID:          "faq-6",
			Question:    "What is the fee structure for the B.Tech program?",
			Answer:      "The tuition fee for the B.Tech program is ₹1,50,000 per semester. Additional fees for examination, library, and labs amount to ₹15,000 per semester. The detailed fee structure is available on the university website.",
			Category:    "admissions",
			Languages:   []string{"English", "Hindi"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-30T11:00:00Z",
			Editor:      "Grace Hopper",
		},
		{
			ID:          "faq-7",
			Question:    "How can I apply for hostel accommodation?",
			Answer:      "Hostel applications are available on the student portal under the \"Accommodation\" tab. The deadline for application is July 15th. Rooms are allocated on a first-come, first-served basis.",
			Category:    "campus-services",
			Languages:   []string{"English", "Hindi", "Tamil"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-30T12:00:00Z",
			Editor:      "Grace Hopper",
		},
		{
			ID:          "faq-8",
			Question:    "What are the university transport options?",
			Answer:      "The university provides bus services from various points in the city. The bus routes and schedules are available on the university website. A transport fee of ₹10,000 per semester is applicable.",
			Category:    "campus-services",
			Languages:   []string{"English", "Hindi"},
			Status:      models.StatusPublished,
			LastUpdated: "2024-07-30T13:00:00Z",
			Editor:      "Grace Hopper",
		},
	}
}
