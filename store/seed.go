package store

import (
	"context"
	"fmt"

	"missingpersons-be/models"
)

// Seed loads the demo cases when the store holds no cases yet. It returns
// the number of cases inserted.
func Seed(ctx context.Context, cs CaseStore) (int, error) {
	existing, err := cs.ListCases(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("seed: list cases: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	cases := DemoCases()
	for i := range cases {
		if err := cs.CreateCase(ctx, &cases[i]); err != nil {
			return i, fmt.Errorf("seed: create %q: %w", cases[i].Name, err)
		}
	}
	return len(cases), nil
}

// DemoCases returns a fresh copy of the demo dataset.
func DemoCases() []models.Case {
	return []models.Case{
		{
			Name: "John Doe", Age: models.IntPtr(25), Gender: models.Male,
			Description:  "Last seen wearing a blue jacket and jeans. Has a small scar on his left cheek.",
			LastSeenDate: "2023-10-15", LastSeenLocation: "Central Park, New York",
			Country: "United States", City: "New York", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/men/52.jpg",
			ReportDate: "2023-10-16", Region: models.NorthAmerica,
			Coordinates: models.Coordinates{Lat: 40.7812, Lng: -73.9665},
			Contact:     &models.Contact{Name: "Jane Doe", Phone: "+1-555-123-4567", Email: "jane.doe@example.com"},
		},
		{
			Name: "Maria Garcia", Age: models.IntPtr(17), Gender: models.Female,
			Description:  "Student missing after school. Was wearing school uniform - white shirt and navy skirt.",
			LastSeenDate: "2023-11-02", LastSeenLocation: "Main Street, Madrid, Spain",
			Country: "Spain", City: "Madrid", Status: models.Found,
			PhotoURL:   "https://randomuser.me/api/portraits/women/46.jpg",
			ReportDate: "2023-11-03", Region: models.Europe,
			Coordinates: models.Coordinates{Lat: 40.4168, Lng: -3.7038},
			FoundDate:   "2023-11-09", FoundLocation: "Madrid, Spain",
			Contact:     &models.Contact{Name: "Luis Garcia", Phone: "+34-555-987-6543", Email: "luis.garcia@example.com"},
		},
		{
			Name: "Amit Patel", Age: models.IntPtr(32), Gender: models.Male,
			Description:  "Software engineer, last seen leaving work. Was wearing business casual attire.",
			LastSeenDate: "2023-09-28", LastSeenLocation: "Tech Park, Bangalore, India",
			Country: "India", City: "Bangalore", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/men/72.jpg",
			ReportDate: "2023-09-29", Region: models.Asia,
			Coordinates: models.Coordinates{Lat: 12.9716, Lng: 77.5946},
			Contact:     &models.Contact{Name: "Priya Patel", Phone: "+91-555-234-5678", Email: "priya.patel@example.com"},
		},
		{
			Name: "Sophie Chen", Age: models.IntPtr(28), Gender: models.Female,
			Description:  "Tourist missing during vacation. Last seen at beach. Has a butterfly tattoo on right shoulder.",
			LastSeenDate: "2023-11-12", LastSeenLocation: "Bondi Beach, Sydney, Australia",
			Country: "Australia", City: "Sydney", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/women/79.jpg",
			ReportDate: "2023-11-13", Region: models.Oceania,
			Coordinates: models.Coordinates{Lat: -33.8915, Lng: 151.2767},
			Contact:     &models.Contact{Name: "Wei Chen", Phone: "+61-555-876-5432", Email: "wei.chen@example.com"},
		},
		{
			Name: "Mohammed Al-Farsi", Age: models.IntPtr(45), Gender: models.Male,
			Description:  "Business executive missing after meeting. Last seen in business suit carrying black briefcase.",
			LastSeenDate: "2023-10-05", LastSeenLocation: "Downtown, Dubai, UAE",
			Country: "UAE", City: "Dubai", Status: models.Found,
			PhotoURL:   "https://randomuser.me/api/portraits/men/19.jpg",
			ReportDate: "2023-10-06", Region: models.Asia,
			Coordinates: models.Coordinates{Lat: 25.2048, Lng: 55.2708},
			FoundDate:   "2023-10-20", FoundLocation: "Abu Dhabi, UAE",
			Contact:     &models.Contact{Name: "Fatima Al-Farsi", Phone: "+971-555-345-6789", Email: "fatima.alfarsi@example.com"},
		},
		{
			Name: "Isabella Martinez", Age: models.IntPtr(19), Gender: models.Female,
			Description:  "College student missing after party. Last seen wearing red dress and black heels.",
			LastSeenDate: "2023-11-07", LastSeenLocation: "University District, Mexico City, Mexico",
			Country: "Mexico", City: "Mexico City", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/women/28.jpg",
			ReportDate: "2023-11-08", Region: models.NorthAmerica,
			Coordinates: models.Coordinates{Lat: 19.4326, Lng: -99.1332},
			Contact:     &models.Contact{Name: "Carlos Martinez", Phone: "+52-555-456-7890", Email: "carlos.martinez@example.com"},
		},
		{
			Name: "Jamal Nkosi", Age: models.IntPtr(22), Gender: models.Male,
			Description:  "Athlete missing after training. Last seen in track suit and running shoes.",
			LastSeenDate: "2023-10-22", LastSeenLocation: "Sports Complex, Nairobi, Kenya",
			Country: "Kenya", City: "Nairobi", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/men/40.jpg",
			ReportDate: "2023-10-23", Region: models.Africa,
			Coordinates: models.Coordinates{Lat: -1.2864, Lng: 36.8172},
			Contact:     &models.Contact{Name: "Amara Nkosi", Phone: "+254-555-567-8901", Email: "amara.nkosi@example.com"},
		},
		{
			Name: "Emma Wilson", Age: models.IntPtr(67), Gender: models.Female,
			Description:  "Retired teacher with early-stage dementia. Last seen wearing a grey cardigan.",
			LastSeenDate: "2023-11-15", LastSeenLocation: "Hyde Park, London, United Kingdom",
			Country: "United Kingdom", City: "London", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/women/67.jpg",
			ReportDate: "2023-11-15", Region: models.Europe,
			Coordinates: models.Coordinates{Lat: 51.5073, Lng: -0.1657},
			Contact:     &models.Contact{Name: "David Wilson", Phone: "+44-555-678-9012", Email: "david.wilson@example.com"},
		},
		{
			Name: "Lucas Brown", Age: models.IntPtr(8), Gender: models.Male,
			Description:  "Child missing from playground. Last seen wearing blue t-shirt, jeans, and red sneakers.",
			LastSeenDate: "2023-11-18", LastSeenLocation: "City Park, Toronto, Canada",
			Country: "Canada", City: "Toronto", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/lego/3.jpg",
			ReportDate: "2023-11-18", Region: models.NorthAmerica,
			Coordinates: models.Coordinates{Lat: 43.6532, Lng: -79.3832},
			Contact:     &models.Contact{Name: "Sarah Brown", Phone: "+1-555-789-0123", Email: "sarah.brown@example.com"},
		},
		{
			Name: "Gabriel Santos", Age: models.IntPtr(35), Gender: models.Male,
			Description:  "Environmental activist missing during protest. Last seen wearing green jacket with organization logo.",
			LastSeenDate: "2023-10-10", LastSeenLocation: "Downtown, Rio de Janeiro, Brazil",
			Country: "Brazil", City: "Rio de Janeiro", Status: models.Missing,
			PhotoURL:   "https://randomuser.me/api/portraits/men/33.jpg",
			ReportDate: "2023-10-11", Region: models.SouthAmerica,
			Coordinates: models.Coordinates{Lat: -22.9068, Lng: -43.1729},
			Contact:     &models.Contact{Name: "Ana Santos", Phone: "+55-555-890-1234", Email: "ana.santos@example.com"},
		},
	}
}
