package models

// Slot names one of the six document upload fields of an onboarding record.
// The value is the multipart form key.
type Slot string

const (
	SlotProfilePic        Slot = "profilePic"
	SlotIDProof           Slot = "idProof"
	SlotSSCCertificate    Slot = "sscCertificate"
	SlotInterCertificate  Slot = "interCertificate"
	SlotDegreeCertificate Slot = "degreeCertificate"
	SlotExperienceLetter  Slot = "experienceLetter"
)

// Slots is the fixed upload order.
var Slots = []Slot{
	SlotProfilePic,
	SlotIDProof,
	SlotSSCCertificate,
	SlotInterCertificate,
	SlotDegreeCertificate,
	SlotExperienceLetter,
}

var slotColumns = map[Slot]string{
	SlotProfilePic:        "profile_pic",
	SlotIDProof:           "id_proof",
	SlotSSCCertificate:    "ssc_certificate",
	SlotInterCertificate:  "inter_certificate",
	SlotDegreeCertificate: "degree_certificate",
	SlotExperienceLetter:  "experience_letter",
}

func ParseSlot(raw string) (Slot, bool) {
	s := Slot(raw)
	_, ok := slotColumns[s]
	return s, ok
}

// Column is the column prefix; the table stores <column>_name and <column>_path.
func (s Slot) Column() string {
	return slotColumns[s]
}

// Inline reports whether the stored document is shown in the browser rather
// than downloaded.
func (s Slot) Inline() bool {
	return s == SlotProfilePic
}
