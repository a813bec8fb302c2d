package models

import "time"

// OnboardingRecord is one employee onboarding submission. Dates are carried as
// YYYY-MM-DD strings; nil means NULL.
type OnboardingRecord struct {
	ID    int64  `json:"id"`
	EmpID string `json:"emp_id"`

	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	DOB           *string `json:"dob"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	ZipCode       string  `json:"zip_code"`

	Department   string  `json:"department"`
	JobRole      string  `json:"job_role"`
	JobStartDate *string `json:"job_start_date"`

	SSCInstitution   *string `json:"ssc_institution"`
	SSCYear          *int    `json:"ssc_year"`
	InterInstitution *string `json:"inter_institution"`
	InterYear        *int    `json:"inter_year"`
	Degree           *string `json:"degree"`
	Institution      *string `json:"institution"`
	GraduationYear   *int    `json:"graduation_year"`

	BankName      *string `json:"bank_name"`
	MobileNumber  *string `json:"mobile_number"`
	AccountNumber *string `json:"account_number"`
	IFSCNumber    *string `json:"ifsc_number"`

	PrevCompanyName     *string `json:"prev_company_name"`
	PrevJobRole         *string `json:"prev_job_role"`
	PrevEmploymentStart *string `json:"prev_employment_start"`
	PrevEmploymentEnd   *string `json:"prev_employment_end"`

	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactAddress      string `json:"emergency_contact_address"`

	ProfilePicName        *string `json:"profile_pic_name"`
	ProfilePicPath        *string `json:"profile_pic_path"`
	IDProofName           *string `json:"id_proof_name"`
	IDProofPath           *string `json:"id_proof_path"`
	SSCCertificateName    *string `json:"ssc_certificate_name"`
	SSCCertificatePath    *string `json:"ssc_certificate_path"`
	InterCertificateName  *string `json:"inter_certificate_name"`
	InterCertificatePath  *string `json:"inter_certificate_path"`
	DegreeCertificateName *string `json:"degree_certificate_name"`
	DegreeCertificatePath *string `json:"degree_certificate_path"`
	ExperienceLetterName  *string `json:"experience_letter_name"`
	ExperienceLetterPath  *string `json:"experience_letter_path"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoredFile is what a document slot references: the display name and the
// stash path.
type StoredFile struct {
	Name string
	Path string
}

func (r *OnboardingRecord) documentFields(slot Slot) (name, path **string) {
	switch slot {
	case SlotProfilePic:
		return &r.ProfilePicName, &r.ProfilePicPath
	case SlotIDProof:
		return &r.IDProofName, &r.IDProofPath
	case SlotSSCCertificate:
		return &r.SSCCertificateName, &r.SSCCertificatePath
	case SlotInterCertificate:
		return &r.InterCertificateName, &r.InterCertificatePath
	case SlotDegreeCertificate:
		return &r.DegreeCertificateName, &r.DegreeCertificatePath
	case SlotExperienceLetter:
		return &r.ExperienceLetterName, &r.ExperienceLetterPath
	}
	return nil, nil
}

// SetDocument records a stored file for the slot.
func (r *OnboardingRecord) SetDocument(slot Slot, f StoredFile) {
	name, path := r.documentFields(slot)
	if name == nil {
		return
	}
	n, p := f.Name, f.Path
	*name, *path = &n, &p
}

// Document returns the stored file for the slot; ok is false when the slot is empty.
func (r *OnboardingRecord) Document(slot Slot) (StoredFile, bool) {
	name, path := r.documentFields(slot)
	if name == nil || *path == nil || **path == "" {
		return StoredFile{}, false
	}
	f := StoredFile{Path: **path}
	if *name != nil {
		f.Name = **name
	}
	return f, true
}
