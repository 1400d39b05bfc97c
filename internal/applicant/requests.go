package applicant

import (
	"time"

	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
	s "clearway/pkg/string"
	"clearway/pkg/validation"
)

// SubmitRequest is the JSON payload accepted by the submission endpoint.
// Field requirements depend on the client category; Validate enforces both
// the common shape and the category-specific rules.
type SubmitRequest struct {
	Email               string            `json:"email" validate:"required,email"`
	Category            string            `json:"category" validate:"required,oneof=individual entity"`
	FullLegalName       string            `json:"full_legal_name" validate:"required,notblank,max=200"`
	DateOfBirth         string            `json:"date_of_birth" validate:"required"`
	Address             string            `json:"address" validate:"required,notblank"`
	TaxResidencyCountry string            `json:"tax_residency_country" validate:"required,len=2"`
	TIN                 string            `json:"tin" validate:"required"`
	Mobile              string            `json:"mobile" validate:"required"`
	PEPStatus           string            `json:"pep_status" validate:"required,oneof=yes no"`
	PEPDetails          string            `json:"pep_details,omitempty"`
	SubscriptionBand    string            `json:"subscription_band,omitempty"`
	Nationality         string            `json:"nationality,omitempty"`
	RegistrationNumber  string            `json:"registration_number,omitempty"`
	UBOListText         string            `json:"ubo_list,omitempty"`
	SignatoryName       string            `json:"signatory_name,omitempty"`
	SignatoryTitle      string            `json:"signatory_title,omitempty"`
	LEI                 string            `json:"lei,omitempty"`
	Documents           []DocumentRequest `json:"documents,omitempty"`
}

// DocumentRequest is one uploaded-document descriptor in the submission payload.
type DocumentRequest struct {
	Category    string `json:"category" validate:"required,notblank"`
	StorageKey  string `json:"storage_key" validate:"required,notblank"`
	Filename    string `json:"filename" validate:"required,notblank"`
	Size        int64  `json:"size" validate:"min=0"`
	ContentType string `json:"content_type,omitempty"`
}

// Normalize trims surrounding whitespace from free-text fields.
func (r *SubmitRequest) Normalize() {
	s.TrimStrings(
		&r.Email, &r.Category, &r.FullLegalName, &r.DateOfBirth, &r.Address,
		&r.TaxResidencyCountry, &r.TIN, &r.Mobile, &r.PEPStatus, &r.PEPDetails,
		&r.Nationality, &r.RegistrationNumber, &r.SignatoryName,
		&r.SignatoryTitle, &r.LEI,
	)
}

// Validate enforces the request shape plus category-specific requirements.
func (r *SubmitRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	for i := range r.Documents {
		if err := validation.Validate(&r.Documents[i]); err != nil {
			return err
		}
	}

	switch Category(r.Category) {
	case CategoryIndividual:
		if r.Nationality == "" {
			return dErrors.New(dErrors.CodeValidation, "nationality is required for individual clients")
		}
	case CategoryEntity:
		if r.RegistrationNumber == "" {
			return dErrors.New(dErrors.CodeValidation, "registration_number is required for entity clients")
		}
		if r.SignatoryName == "" {
			return dErrors.New(dErrors.CodeValidation, "signatory_name is required for entity clients")
		}
	}
	return nil
}

// ToRecord converts a validated request into an immutable applicant record.
func (r *SubmitRequest) ToRecord(caseID id.CaseID, now time.Time) *Record {
	docs := make([]Document, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, Document{
			Category:    d.Category,
			StorageKey:  d.StorageKey,
			Filename:    d.Filename,
			Size:        d.Size,
			ContentType: d.ContentType,
		})
	}

	return &Record{
		CaseID:              caseID,
		Email:               r.Email,
		Category:            Category(r.Category),
		FullLegalName:       r.FullLegalName,
		DateOfBirth:         r.DateOfBirth,
		Address:             r.Address,
		TaxResidencyCountry: r.TaxResidencyCountry,
		TIN:                 r.TIN,
		Mobile:              r.Mobile,
		PEPStatus:           PEPStatus(r.PEPStatus),
		PEPDetails:          r.PEPDetails,
		SubscriptionBand:    r.SubscriptionBand,
		Documents:           docs,
		SubmittedAt:         now,
		Nationality:         r.Nationality,
		RegistrationNumber:  r.RegistrationNumber,
		UBOListText:         r.UBOListText,
		SignatoryName:       r.SignatoryName,
		SignatoryTitle:      r.SignatoryTitle,
		LEI:                 r.LEI,
	}
}
