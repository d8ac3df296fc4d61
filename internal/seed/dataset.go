package seed

import "time"

// DemoPassword is shared by every seeded account.
const DemoPassword = "nomadpal-demo"

type userSeed struct {
	Name        string
	Username    string
	Email       string
	Avatar      string
	Location    string
	TrustRating float64
	Verified    bool
	MemberSince time.Time
	Badges      []string
	Specialties []string
	Languages   []string
	Bio         string
	MemberType  string
	Role        string
}

type replySeed struct {
	Author  string
	Content string
	Offset  time.Duration
	Helpful bool
}

type postSeed struct {
	Author   string
	Type     string
	Title    string
	Content  string
	Location string
	Tags     []string
	At       time.Time
	Replies  []replySeed
	Votes    map[string]string
}

type reviewSeed struct {
	Reviewer string
	Target   string
	Rating   int
	Comment  string
}

type serviceSeed struct {
	Provider    string
	Type        string
	Title       string
	Description string
	Price       float64
	Currency    string
	Duration    string
	Location    string
	Rating      float64
	Verified    bool
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var demoUsers = []userSeed{
	{
		Name:        "Sarah Mitchell",
		Username:    "sarah",
		Email:       "sarah@nomadpal.dev",
		Avatar:      "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
		Location:    "El Nido, Philippines",
		TrustRating: 4.9,
		Verified:    true,
		MemberSince: date("2023-03-15T00:00:00Z"),
		Badges:      []string{"Top Guide", "Safety Verified", "Quick Responder"},
		Specialties: []string{"Hiking", "Transportation", "Local Food"},
		Languages:   []string{"English", "Tagalog"},
		Bio:         "Island hopping and van rides around Palawan.",
		MemberType:  "guide",
		Role:        "user",
	},
	{
		Name:        "Made Wijaya",
		Username:    "made",
		Email:       "made@nomadpal.dev",
		Avatar:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
		Location:    "Bali, Indonesia",
		TrustRating: 4.8,
		Verified:    true,
		MemberSince: date("2022-11-20T00:00:00Z"),
		Badges:      []string{"Local Expert", "Verified Guide", "Community Leader"},
		Specialties: []string{"Cultural Tours", "Temple Visits", "Adventure Sports"},
		Languages:   []string{"English", "Indonesian"},
		Bio:         "Born in Ubud. Sunrise hikes and temple days.",
		MemberType:  "guide",
		Role:        "user",
	},
	{
		Name:        "Alex Kim",
		Username:    "alex",
		Email:       "alex@nomadpal.dev",
		Avatar:      "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
		Location:    "Chiang Mai, Thailand",
		TrustRating: 4.7,
		Verified:    true,
		MemberSince: date("2023-01-10T00:00:00Z"),
		Badges:      []string{"Budget Expert", "Solo Traveler", "Foodie"},
		Specialties: []string{"Budget Travel", "Street Food", "Temple Tours"},
		Languages:   []string{"English", "Korean"},
		Bio:         "Slow travel on a backpacker budget.",
		MemberType:  "traveler",
		Role:        "user",
	},
	{
		Name:        "Jonas Weber",
		Username:    "jonas",
		Email:       "jonas@nomadpal.dev",
		Location:    "Siem Reap, Cambodia",
		TrustRating: 5.0,
		MemberSince: date("2024-01-02T00:00:00Z"),
		Badges:      []string{},
		Specialties: []string{},
		Languages:   []string{"German", "English"},
		MemberType:  "traveler",
		Role:        "user",
	},
	{
		Name:        "NomadPal Admin",
		Username:    "admin",
		Email:       "admin@nomadpal.dev",
		Location:    "Unknown",
		TrustRating: 5.0,
		Verified:    true,
		MemberSince: date("2022-06-01T00:00:00Z"),
		Badges:      []string{},
		Specialties: []string{},
		Languages:   []string{},
		MemberType:  "traveler",
		Role:        "admin",
	},
}

var demoPosts = []postSeed{
	{
		Author:   "jonas",
		Type:     "question",
		Title:    "Looking for van ride to Port Barton tomorrow morning",
		Content:  "Hi everyone! I need to get to Port Barton tomorrow morning. Anyone know of reliable van services or want to share a ride? Looking to leave around 8-9 AM.",
		Location: "El Nido, Philippines",
		Tags:     []string{"transport", "port-barton", "van-share"},
		At:       date("2024-01-15T10:30:00Z"),
		Replies: []replySeed{{
			Author:  "sarah",
			Content: "I can help! There's a van leaving at 8:30 AM from the main square. Cost is 500 PHP. DM me if you want to join!",
			Offset:  30 * time.Minute,
			Helpful: true,
		}},
		Votes: map[string]string{"sarah": "up", "alex": "up", "made": "up"},
	},
	{
		Author:   "made",
		Type:     "offer",
		Title:    "Sunrise hike guide available - Mount Batur, Bali",
		Content:  "Experienced local guide offering sunrise hikes to Mount Batur. Includes pickup from Ubud, breakfast, and stunning views. 350K IDR per person.",
		Location: "Bali, Indonesia",
		Tags:     []string{"hiking", "mount-batur", "sunrise", "guide"},
		At:       date("2024-01-15T08:15:00Z"),
		Votes:    map[string]string{"alex": "up", "jonas": "up", "sarah": "down"},
	},
	{
		Author:   "alex",
		Type:     "request",
		Title:    "Need help with Cambodia-Vietnam border crossing",
		Content:  "Planning to cross from Siem Reap to Ho Chi Minh City next week. Anyone recently did this route? What documents do I need?",
		Location: "Siem Reap, Cambodia",
		Tags:     []string{"border-crossing", "visa", "cambodia", "vietnam"},
		At:       date("2024-01-15T06:45:00Z"),
		Replies: []replySeed{{
			Author:  "jonas",
			Content: "Just did this last week! You need a Vietnam e-visa (apply online), passport valid for 6+ months, and $25 USD for the border fee.",
			Offset:  35 * time.Minute,
			Helpful: true,
		}},
		Votes: map[string]string{"jonas": "up"},
	},
}

var demoReviews = []reviewSeed{
	{Reviewer: "jonas", Target: "sarah", Rating: 5, Comment: "Sorted my van to Port Barton in ten minutes."},
	{Reviewer: "alex", Target: "sarah", Rating: 5, Comment: "Knows every lagoon by name."},
	{Reviewer: "alex", Target: "made", Rating: 5, Comment: "Batur at sunrise was worth the 3 AM alarm."},
	{Reviewer: "sarah", Target: "made", Rating: 4, Comment: "Great guide, pickup ran a little late."},
	{Reviewer: "jonas", Target: "alex", Rating: 5, Comment: "Saved me a fortune on street food."},
}

var demoServices = []serviceSeed{
	{
		Provider:    "sarah",
		Type:        "tour",
		Title:       "El Nido Island Hopping Tour A",
		Description: "Visit Big Lagoon, Small Lagoon, Secret Lagoon, and 7 Commando Beach. Includes lunch and snorkeling gear.",
		Price:       1200,
		Currency:    "PHP",
		Duration:    "8 hours",
		Location:    "El Nido, Philippines",
		Rating:      4.8,
		Verified:    true,
	},
	{
		Provider:    "sarah",
		Type:        "driver",
		Title:       "Private Van Transfer to Port Barton",
		Description: "Reliable van service with air conditioning. Daily departures at 8:30 AM.",
		Price:       500,
		Currency:    "PHP",
		Duration:    "2 hours",
		Location:    "El Nido, Philippines",
		Rating:      4.9,
		Verified:    true,
	},
	{
		Provider:    "made",
		Type:        "guide",
		Title:       "Local Food Tour",
		Description: "Explore local markets and hidden food spots with a knowledgeable local guide.",
		Price:       800,
		Currency:    "PHP",
		Duration:    "3 hours",
		Location:    "El Nido, Philippines",
		Rating:      4.7,
		Verified:    true,
	},
	{
		Provider:    "made",
		Type:        "guide",
		Title:       "Mount Batur Sunrise Hike",
		Description: "Pickup from Ubud, breakfast at the summit.",
		Price:       350000,
		Currency:    "IDR",
		Duration:    "10 hours",
		Location:    "Bali, Indonesia",
		Rating:      4.8,
		Verified:    false,
	},
}
