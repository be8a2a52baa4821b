package catalogRepo

import "slotbook/models"

// DefaultServices is the salon menu the catalog is seeded with. Order matters:
// phrase matching walks the catalog in this order.
func DefaultServices() []models.Service {
	entries := []struct {
		id       string
		name     string
		duration int
	}{
		{"cut-style", "Cut & Style", 60},
		{"silk-press", "Silk Press", 120},
		{"colour", "Colour", 90},
		{"highlights", "Highlights", 150},
		{"balayage", "Balayage", 180},
		{"braids", "Braids", 180},
		{"extensions", "Extensions", 150},
		{"treatments", "Treatments", 60},
		{"fade", "Fade", 45},
		{"clipper-cut", "Clipper Cut", 45},
		{"beard-grooming", "Beard Grooming", 30},
		{"colouring", "Colouring", 60},
		{"hot-towel-shave", "Hot Towel Shave", 45},
		{"line-up", "Line-Up", 30},
		{"boys-haircut", "Boys’ Haircut", 45},
		{"girls-haircut", "Girls’ Haircut", 45},
		{"protective-styles", "Protective Styles", 120},
		{"wash-blow-dry", "Wash & Blow Dry", 45},
		{"hair-spa", "Hair Spa", 60},
		{"bridal-styling", "Wedding / Bridal Styling", 180},
		{"special-event-styling", "Special Event Styling", 120},
	}

	services := make([]models.Service, 0, len(entries))
	for _, e := range entries {
		services = append(services, models.Service{ID: e.id, Name: e.name, Duration: e.duration, Active: true})
	}
	return services
}
