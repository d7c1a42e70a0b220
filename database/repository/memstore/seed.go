package memstore

import "salonbook/models"

// Seed loads a small demo salon for the memory storage driver.
func (s *Store) Seed() {
	s.AddClient(models.Client{ID: "client-1", FullName: "Olena Kovalenko", Email: "olena@example.com", Phone: "+380501112233"})
	s.AddClient(models.Client{ID: "client-2", FullName: "Iryna Shevchuk", Email: "iryna@example.com"})

	s.AddMaster(models.Master{ID: "master-1", FullName: "Daria Melnyk", Specialization: "Hair stylist", ExperienceYears: 7})
	s.AddMaster(models.Master{ID: "master-2", FullName: "Anna Bondar", Specialization: "Nail artist", ExperienceYears: 4})

	haircut := models.Service{ID: "svc-haircut", Name: "Haircut", Price: 450, DurationMinutes: 45}
	colouring := models.Service{ID: "svc-colour", Name: "Hair colouring", Price: 1200, DurationMinutes: 120}
	manicure := models.Service{ID: "svc-manicure", Name: "Manicure", Price: 350, DurationMinutes: 60}
	s.AddService(haircut)
	s.AddService(colouring)
	s.AddService(manicure)
	s.AddService(models.Service{
		ID:    "pkg-day-spa",
		Name:  "Day spa package",
		Items: []models.Service{haircut, manicure},
	})
}
