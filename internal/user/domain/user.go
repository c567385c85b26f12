package domain

// User is the stored identity record. PasswordHash never leaves the
// service layer; responses use the Public projection.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	EmailAddress string
	PasswordHash string
}

type Public struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

func (u User) Public() Public {
	return Public{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}

// Summary is the owner projection embedded in course responses.
type Summary struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

func (u User) Summary() Summary {
	return Summary{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}
