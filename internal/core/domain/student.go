package domain

// Student is the slice of the student record the billing engine needs.
// Student management itself lives outside this service.
type Student struct {
	StudentID          string `json:"studentID"`
	RegistrationNumber string `json:"registrationNumber"`
	FullName           string `json:"fullName"`
	IsActive           bool   `json:"isActive"`
}
