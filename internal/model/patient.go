package model

// EmergencyContact is the person to call for a registered patient.
type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// PatientRecord is the patient shown on the dashboard. At most one exists at a time.
type PatientRecord struct {
	PatientID        string           `json:"patient_id" validate:"required"`
	FirstName        string           `json:"first_name" validate:"required"`
	LastName         string           `json:"last_name" validate:"required"`
	DateOfBirth      string           `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender           string           `json:"gender"`
	BloodGroup       string           `json:"blood_group,omitempty"`
	Room             string           `json:"room_number"`
	Bed              string           `json:"bed_number,omitempty"`
	AdmissionDate    string           `json:"admission_date"`
	Diagnosis        string           `json:"diagnosis"`
	Allergies        string           `json:"allergies,omitempty"`
	InitialVitals    VitalsReading    `json:"vitals"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
}

// FullName joins first and last name.
func (p PatientRecord) FullName() string {
	return p.FirstName + " " + p.LastName
}
