package casestudies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/constants"
)

func ptr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func completeInput() *Input {
	return &Input{
		Title:            "District heating retrofit",
		ShortDescription: "Waste heat recovery for a city district",
		ProviderOrgID:    uintPtr(1),
		Benefits: []BenefitInput{
			{Name: "CO2 avoided", Value: 1200, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
		},
		Addresses: []AddressInput{
			{AdminUnitL1: "CRO", PostName: ptr("Zagreb")},
		},
	}
}

func fullAttachments() AttachmentState {
	return AttachmentState{HasMethodology: true, HasDataset: true, HasLogo: true}
}

func TestResolveStatus_PublishedElevated(t *testing.T) {
	status, gate := ResolveStatus(domain.StatusPublished, constants.Admin)
	assert.Equal(t, domain.StatusPublished, status)
	assert.True(t, gate)

	status, _ = ResolveStatus(domain.StatusPublished, constants.Custodian)
	assert.Equal(t, domain.StatusPublished, status)
}

func TestResolveStatus_PublishedDowngraded(t *testing.T) {
	status, gate := ResolveStatus(domain.StatusPublished, constants.DataOwner)
	assert.Equal(t, domain.StatusPendingApproval, status)
	assert.True(t, gate)
}

func TestResolveStatus_Pending(t *testing.T) {
	status, gate := ResolveStatus(domain.StatusPendingApproval, constants.DataOwner)
	assert.Equal(t, domain.StatusPendingApproval, status)
	assert.True(t, gate)
}

func TestResolveStatus_DefaultsToDraft(t *testing.T) {
	for _, requested := range []string{"", domain.StatusDraft, "declined", "garbage"} {
		status, gate := ResolveStatus(requested, constants.Admin)
		assert.Equal(t, domain.StatusDraft, status, "requested=%q", requested)
		assert.False(t, gate, "requested=%q", requested)
	}
}

func TestValidateForSubmission_Valid(t *testing.T) {
	err := ValidateForSubmission(completeInput(), fullAttachments())
	assert.NoError(t, err)
}

func TestValidateForSubmission_MissingTitle(t *testing.T) {
	in := completeInput()
	in.Title = ""
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Title is required", err.Error())
}

func TestValidateForSubmission_MissingShortDescription(t *testing.T) {
	in := completeInput()
	in.ShortDescription = ""
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Short description is required", err.Error())
}

func TestValidateForSubmission_MissingProvider(t *testing.T) {
	in := completeInput()
	in.ProviderOrgID = nil
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Provider organization is required", err.Error())
}

func TestValidateForSubmission_NoAddresses(t *testing.T) {
	in := completeInput()
	in.Addresses = nil
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "At least one address is required", err.Error())
}

func TestValidateForSubmission_AddressWithoutCountry(t *testing.T) {
	in := completeInput()
	in.Addresses = append(in.Addresses, AddressInput{PostName: ptr("Nowhere")})
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Address at index 1 must have a country", verr.Msg)
	assert.Equal(t, 1, verr.Index)
}

func TestValidateForSubmission_NoNetBenefit(t *testing.T) {
	in := completeInput()
	in.Benefits[0].IsNetCarbonImpact = false
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Exactly one benefit must be flagged as the net carbon impact", err.Error())
}

func TestValidateForSubmission_TwoNetBenefits(t *testing.T) {
	in := completeInput()
	in.Benefits = append(in.Benefits, BenefitInput{
		Name: "Energy saved", Value: 300, UnitCode: "mwh", TypeCode: "environmental", IsNetCarbonImpact: true,
	})
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Exactly one benefit must be flagged as the net carbon impact", err.Error())
}

func TestValidateForSubmission_NetBenefitWrongType(t *testing.T) {
	in := completeInput()
	in.Benefits[0].TypeCode = "economic"
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "The net carbon impact benefit must be of type 'environmental'", err.Error())
}

func TestValidateForSubmission_BenefitMissingFields(t *testing.T) {
	in := completeInput()
	in.Benefits = append(in.Benefits, BenefitInput{Value: 5, UnitCode: "mwh", TypeCode: "economic"})
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Benefit at index 1 must have a name", verr.Msg)
	assert.Equal(t, 1, verr.Index)

	in.Benefits[1].Name = "Savings"
	in.Benefits[1].UnitCode = ""
	err = ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Benefit at index 1 must have a unit", err.Error())

	in.Benefits[1].UnitCode = "mwh"
	in.Benefits[1].TypeCode = ""
	err = ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "Benefit at index 1 must have a type", err.Error())
}

func TestValidateForSubmission_PublicFundingNeedsURL(t *testing.T) {
	in := completeInput()
	in.FundingTypeCode = ptr("public")
	err := ValidateForSubmission(in, fullAttachments())
	require.Error(t, err)
	assert.Equal(t, "A funding programme URL is required when the funding type is 'public'", err.Error())

	in.FundingProgrammeURL = ptr("https://ec.europa.eu/programme")
	assert.NoError(t, ValidateForSubmission(in, fullAttachments()))
}

func TestValidateForSubmission_PrivateFundingNeedsNoURL(t *testing.T) {
	in := completeInput()
	in.FundingTypeCode = ptr("private")
	assert.NoError(t, ValidateForSubmission(in, fullAttachments()))
}

func TestValidateForSubmission_MissingAttachments(t *testing.T) {
	in := completeInput()

	err := ValidateForSubmission(in, AttachmentState{HasDataset: true, HasLogo: true})
	require.Error(t, err)
	assert.Equal(t, "A methodology document is required", err.Error())

	err = ValidateForSubmission(in, AttachmentState{HasMethodology: true, HasLogo: true})
	require.Error(t, err)
	assert.Equal(t, "A dataset is required", err.Error())

	err = ValidateForSubmission(in, AttachmentState{HasMethodology: true, HasDataset: true})
	require.Error(t, err)
	assert.Equal(t, "A logo is required", err.Error())
}

func TestPruneIncomplete(t *testing.T) {
	in := &Input{
		Benefits: []BenefitInput{
			{Name: "Complete", Value: 1, UnitCode: "tco2", TypeCode: "environmental"},
			{Name: "No unit", Value: 2, TypeCode: "environmental"},
			{Value: 3, UnitCode: "tco2", TypeCode: "environmental"},
		},
		Addresses: []AddressInput{
			{AdminUnitL1: "CRO"},
			{PostName: ptr("City without country")},
		},
	}

	PruneIncomplete(in)

	require.Len(t, in.Benefits, 1)
	assert.Equal(t, "Complete", in.Benefits[0].Name)
	require.Len(t, in.Addresses, 1)
	assert.Equal(t, "CRO", in.Addresses[0].AdminUnitL1)
}

func TestResolveReview(t *testing.T) {
	assert.NoError(t, ResolveReview(domain.StatusPublished))
	assert.NoError(t, ResolveReview(domain.StatusDeclined))

	err := ResolveReview(domain.StatusDraft)
	require.Error(t, err)
	assert.Equal(t, "Review status must be 'published' or 'declined'", err.Error())

	assert.Error(t, ResolveReview(""))
	assert.Error(t, ResolveReview("approved"))
}
