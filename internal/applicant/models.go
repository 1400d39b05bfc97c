// Package applicant defines the normalized applicant record collected by the
// onboarding form. The record is immutable once submitted and owned by the
// case store; screening and decision services only read it.
package applicant

import (
	"time"

	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
)

// Category distinguishes natural persons from legal entities. Entity clients
// get additional checks (registry lookup, UBO screening).
type Category string

const (
	CategoryIndividual Category = "individual"
	CategoryEntity     Category = "entity"
)

// ParseCategory validates and parses a client category string.
//
// Usage: call at trust boundaries for external input.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryIndividual, CategoryEntity:
		return Category(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "client category must be individual or entity")
	}
}

// PEPStatus is the self-declared politically-exposed-person flag.
type PEPStatus string

const (
	PEPYes PEPStatus = "yes"
	PEPNo  PEPStatus = "no"
)

// Document describes one uploaded file. The core never reads file content;
// uploads happen out of band via pre-signed URLs and only the descriptor
// reaches the case record.
type Document struct {
	Category    string `json:"category"`
	StorageKey  string `json:"storage_key"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Record is the normalized applicant record. Created once by the submission
// step; never mutated afterwards.
type Record struct {
	CaseID              id.CaseID  `json:"case_id"`
	Email               string     `json:"email"`
	Category            Category   `json:"category"`
	FullLegalName       string     `json:"full_legal_name"`
	DateOfBirth         string     `json:"date_of_birth"` // incorporation date for entities, YYYY-MM-DD
	Address             string     `json:"address"`
	TaxResidencyCountry string     `json:"tax_residency_country"`
	TIN                 string     `json:"tin"`
	Mobile              string     `json:"mobile"`
	PEPStatus           PEPStatus  `json:"pep_status"`
	PEPDetails          string     `json:"pep_details,omitempty"`
	SubscriptionBand    string     `json:"subscription_band,omitempty"`
	Documents           []Document `json:"documents,omitempty"`
	SubmittedAt         time.Time  `json:"submitted_at"`

	// Individual-only fields.
	Nationality string `json:"nationality,omitempty"`

	// Entity-only fields.
	RegistrationNumber string `json:"registration_number,omitempty"`
	UBOListText        string `json:"ubo_list,omitempty"`
	SignatoryName      string `json:"signatory_name,omitempty"`
	SignatoryTitle     string `json:"signatory_title,omitempty"`
	LEI                string `json:"lei,omitempty"`
}

// IsEntity reports whether the applicant is a legal entity.
func (r *Record) IsEntity() bool { return r.Category == CategoryEntity }

// HasDocument reports whether a document with the given category tag was uploaded.
func (r *Record) HasDocument(category string) bool {
	for _, d := range r.Documents {
		if d.Category == category {
			return true
		}
	}
	return false
}
