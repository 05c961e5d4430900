package casestudies

import (
	"fmt"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/constants"
)

// ValidationError is a rejected payload: a completeness rule violated or a
// reference that does not exist. Index points at the offending list element
// for per-element rules, -1 otherwise.
type ValidationError struct {
	Msg   string
	Index int
}

func (e *ValidationError) Error() string { return e.Msg }

func violation(msg string) *ValidationError {
	return &ValidationError{Msg: msg, Index: -1}
}

func violationAt(index int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...), Index: index}
}

// ResolveStatus maps the requested status and the actor's role to the status
// that will be persisted, and reports whether the completeness gate applies.
// Publishing directly is reserved for elevated roles; everyone else is
// silently downgraded to pending approval. Anything unrecognized is a draft.
func ResolveStatus(requested, role string) (string, bool) {
	switch requested {
	case domain.StatusPublished:
		if constants.IsElevated(role) {
			return domain.StatusPublished, true
		}
		return domain.StatusPendingApproval, true
	case domain.StatusPendingApproval:
		return domain.StatusPendingApproval, true
	default:
		return domain.StatusDraft, false
	}
}

// AttachmentState is the merged attachment view the gate evaluates: files
// supplied with this request plus, on update, the ids already persisted.
type AttachmentState struct {
	HasMethodology bool
	HasDataset     bool
	HasLogo        bool
}

// ValidateForSubmission applies the completeness rules a case study must
// satisfy before entering pending approval or published. Rules run in order
// and the first violation aborts, so the caller reports exactly one problem
// at a time.
func ValidateForSubmission(in *Input, att AttachmentState) error {
	if in.Title == "" {
		return violation("Title is required")
	}
	if in.ShortDescription == "" {
		return violation("Short description is required")
	}
	if in.ProviderOrgID == nil {
		return violation("Provider organization is required")
	}

	if len(in.Addresses) == 0 {
		return violation("At least one address is required")
	}
	for i := range in.Addresses {
		if in.Addresses[i].AdminUnitL1 == "" {
			return violationAt(i, "Address at index %d must have a country", i)
		}
	}

	netImpact := 0
	for i := range in.Benefits {
		if in.Benefits[i].IsNetCarbonImpact {
			netImpact++
			if in.Benefits[i].TypeCode != domain.BenefitTypeEnvironmental {
				return violationAt(i, "The net carbon impact benefit must be of type '%s'", domain.BenefitTypeEnvironmental)
			}
		}
	}
	if netImpact != 1 {
		return violation("Exactly one benefit must be flagged as the net carbon impact")
	}

	for i := range in.Benefits {
		b := &in.Benefits[i]
		if b.Name == "" {
			return violationAt(i, "Benefit at index %d must have a name", i)
		}
		if b.UnitCode == "" {
			return violationAt(i, "Benefit at index %d must have a unit", i)
		}
		if b.TypeCode == "" {
			return violationAt(i, "Benefit at index %d must have a type", i)
		}
	}

	if in.FundingTypeCode != nil && *in.FundingTypeCode == domain.FundingTypePublic && in.FundingProgrammeURL == nil {
		return violation("A funding programme URL is required when the funding type is 'public'")
	}

	if !att.HasMethodology {
		return violation("A methodology document is required")
	}
	if !att.HasDataset {
		return violation("A dataset is required")
	}
	if !att.HasLogo {
		return violation("A logo is required")
	}

	return nil
}

// PruneIncomplete drops work-in-progress children a draft may carry in the
// payload but the schema cannot store: benefits without name, unit or type
// and addresses without a country. Never errors.
func PruneIncomplete(in *Input) {
	benefits := in.Benefits[:0]
	for _, b := range in.Benefits {
		if b.Name != "" && b.UnitCode != "" && b.TypeCode != "" {
			benefits = append(benefits, b)
		}
	}
	in.Benefits = benefits

	addresses := in.Addresses[:0]
	for _, a := range in.Addresses {
		if a.AdminUnitL1 != "" {
			addresses = append(addresses, a)
		}
	}
	in.Addresses = addresses
}

// ResolveReview validates a review outcome: published approves, declined
// rejects. Anything else is a validation error.
func ResolveReview(requested string) error {
	switch requested {
	case domain.StatusPublished, domain.StatusDeclined:
		return nil
	default:
		return violation("Review status must be 'published' or 'declined'")
	}
}
