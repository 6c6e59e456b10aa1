package domain

import (
	"errors"
	"strings"
)

// MedicalService is a tag describing a service a provider offers.
type MedicalService string

const (
	GeneralCheckup          MedicalService = "GENERAL_CHECKUP"
	DentalCleaning          MedicalService = "DENTAL_CLEANING"
	CardiologyConsultation  MedicalService = "CARDIOLOGY_CONSULTATION"
	DermatologyConsultation MedicalService = "DERMATOLOGY_CONSULTATION"
)

var ErrUnknownMedicalService = errors.New("unknown medical service")

var serviceLabels = map[MedicalService]string{
	GeneralCheckup:          "General checkup",
	DentalCleaning:          "Dental cleaning",
	CardiologyConsultation:  "Cardiology consultation",
	DermatologyConsultation: "Dermatology consultation",
}

// MedicalServices returns every known service tag in declaration order.
func MedicalServices() []MedicalService {
	return []MedicalService{GeneralCheckup, DentalCleaning, CardiologyConsultation, DermatologyConsultation}
}

// Label returns the human readable name of the service.
func (m MedicalService) Label() string {
	return serviceLabels[m]
}

// IsValid reports whether m is a known service tag.
func (m MedicalService) IsValid() bool {
	_, ok := serviceLabels[m]
	return ok
}

// ParseMedicalService accepts either the tag ("GENERAL_CHECKUP") or its
// label ("General checkup"), case-insensitively.
func ParseMedicalService(s string) (MedicalService, error) {
	s = strings.TrimSpace(s)
	for _, m := range MedicalServices() {
		if strings.EqualFold(string(m), s) || strings.EqualFold(m.Label(), s) {
			return m, nil
		}
	}
	return "", ErrUnknownMedicalService
}
