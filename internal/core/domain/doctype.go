package domain

import (
	"slices"
	"strings"
)

// DocumentType is the closed set of document categories the platform understands.
type DocumentType string

const (
	DocTypeGovernmentID        DocumentType = "government_id"
	DocTypeValidID             DocumentType = "valid_id"
	DocTypeEducationCredential DocumentType = "education_credential"
	DocTypeMedicalCertificate  DocumentType = "medical_certificate"

	DocTypeSECRegistration DocumentType = "sec_registration"
	DocTypeDTIRegistration DocumentType = "dti_registration"
	DocTypeBIRCertificate  DocumentType = "bir_certificate"
	DocTypeMayorsPermit    DocumentType = "mayors_permit"
	DocTypeDMWLicense      DocumentType = "dmw_license"

	DocTypeOther   DocumentType = "other"
	DocTypeUnknown DocumentType = "unknown"
)

// DocTypeConfig describes how a document type is extracted and scored.
type DocTypeConfig struct {
	Label  string
	Fields []string
	Points int
	Prompt string
}

var docTypeConfigs = map[DocumentType]DocTypeConfig{
	DocTypeGovernmentID: {
		Label:  "government-issued ID (passport, driver's license, UMID, PhilSys)",
		Fields: []string{"full_name", "id_number", "date_of_birth", "expiry_date", "issuing_agency"},
		Points: 20,
		Prompt: "Read the holder's printed name exactly as shown. id_number is the card or passport number, not the MRZ line.",
	},
	DocTypeValidID: {
		Label:  "secondary valid ID (postal ID, voter's ID, company ID)",
		Fields: []string{"full_name", "id_number", "date_of_birth", "address"},
		Points: 15,
		Prompt: "Use the address printed on the card, not a barcode payload.",
	},
	DocTypeEducationCredential: {
		Label:  "education credential (diploma, transcript of records, certificate)",
		Fields: []string{"full_name", "institution", "degree", "date_graduated"},
		Points: 15,
		Prompt: "degree is the program or course completed. date_graduated is the conferment date.",
	},
	DocTypeMedicalCertificate: {
		Label:  "medical certificate",
		Fields: []string{"patient_name", "clinic_name", "physician_name", "exam_date", "fit_to_work"},
		Points: 10,
		Prompt: "fit_to_work is true, false, or null when the certificate does not state fitness.",
	},
	DocTypeSECRegistration: {
		Label:  "SEC certificate of incorporation",
		Fields: []string{"company_name", "registration_number", "date_issued"},
		Points: 25,
		Prompt: "registration_number is the SEC registration number.",
	},
	DocTypeDTIRegistration: {
		Label:  "DTI business name registration",
		Fields: []string{"business_name", "registration_number", "owner_name", "date_issued", "expiry_date"},
		Points: 25,
		Prompt: "registration_number is the business name number (BN).",
	},
	DocTypeBIRCertificate: {
		Label:  "BIR certificate of registration (Form 2303)",
		Fields: []string{"company_name", "tin_number", "registered_address", "date_issued"},
		Points: 25,
		Prompt: "tin_number keeps the branch code when present, e.g. 123-456-789-000.",
	},
	DocTypeMayorsPermit: {
		Label:  "mayor's or business permit",
		Fields: []string{"business_name", "permit_number", "date_issued", "expiry_date"},
		Points: 20,
		Prompt: "expiry_date is the validity end date of the permit.",
	},
	DocTypeDMWLicense: {
		Label:  "DMW/POEA recruitment agency license",
		Fields: []string{"agency_name", "license_number", "date_issued", "expiry_date"},
		Points: 30,
		Prompt: "license_number is the agency license number printed on the certificate.",
	},
}

var onboardingDocTypes = []DocumentType{
	DocTypeGovernmentID,
	DocTypeValidID,
	DocTypeEducationCredential,
	DocTypeMedicalCertificate,
	DocTypeSECRegistration,
	DocTypeDTIRegistration,
	DocTypeBIRCertificate,
	DocTypeMayorsPermit,
	DocTypeDMWLicense,
}

var businessDocTypes = []DocumentType{
	DocTypeSECRegistration,
	DocTypeDTIRegistration,
	DocTypeBIRCertificate,
	DocTypeMayorsPermit,
	DocTypeDMWLicense,
	DocTypeOther,
}

// LookupDocType returns a copy of the static config for t.
func LookupDocType(t DocumentType) (DocTypeConfig, bool) {
	cfg, ok := docTypeConfigs[t]
	if !ok {
		return DocTypeConfig{}, false
	}
	cfg.Fields = slices.Clone(cfg.Fields)
	return cfg, true
}

// OnboardingDocTypes lists the categories a classifier may return.
func OnboardingDocTypes() []DocumentType {
	return slices.Clone(onboardingDocTypes)
}

// BusinessDocTypes lists the categories accepted for agency verification.
func BusinessDocTypes() []DocumentType {
	return slices.Clone(businessDocTypes)
}

// ParseDocumentType maps free text onto the closed set, returning DocTypeUnknown
// for anything unrecognised.
func ParseDocumentType(raw string) DocumentType {
	t := DocumentType(strings.ToLower(strings.TrimSpace(raw)))
	if t == DocTypeOther {
		return t
	}
	if _, ok := docTypeConfigs[t]; ok {
		return t
	}
	return DocTypeUnknown
}
