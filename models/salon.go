package models

// Client is a salon customer.
type Client struct {
	ID       string `bson:"id" json:"id"`
	FullName string `bson:"full_name" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Master is a salon specialist who performs services.
type Master struct {
	ID              string `bson:"id" json:"id"`
	FullName        string `bson:"full_name" json:"fullName"`
	Specialization  string `bson:"specialization" json:"specialization"`
	ExperienceYears int    `bson:"experience_years" json:"experienceYears"`
}

// MasterOption is the short form of a master used by booking forms.
type MasterOption struct {
	MasterID       string `json:"masterId"`
	FullName       string `json:"fullName"`
	Specialization string `json:"specialization"`
}

// Option returns the booking-form view of the master.
func (m Master) Option() MasterOption {
	return MasterOption{MasterID: m.ID, FullName: m.FullName, Specialization: m.Specialization}
}

// BookableItem is anything a client can book: a single service or a package.
type BookableItem interface {
	GetPrice() float64
	GetDurationMinutes() int
	GetName() string
}

// Service is a salon service. A service with Items is a package whose price
// and duration are the sums over its items.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Price           float64   `bson:"price" json:"price"`
	DurationMinutes int       `bson:"duration_minutes" json:"durationMinutes"`
	Items           []Service `bson:"items,omitempty" json:"items,omitempty"`
}

var _ BookableItem = Service{}

func (s Service) IsPackage() bool { return len(s.Items) > 0 }

func (s Service) GetPrice() float64 {
	if !s.IsPackage() {
		return s.Price
	}
	var total float64
	for _, item := range s.Items {
		total += item.GetPrice()
	}
	return total
}

func (s Service) GetDurationMinutes() int {
	if !s.IsPackage() {
		return s.DurationMinutes
	}
	total := 0
	for _, item := range s.Items {
		total += item.GetDurationMinutes()
	}
	return total
}

func (s Service) GetName() string { return s.Name }
