package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
)

const testRegistryYAML = `version: "test"
default_tolerance: 0.001
concepts:
  - concept_id: electroweak.sin2_theta_W_onshell
    aliases:
      - "sin2 theta W"
      - "weak mixing angle"
      - "on-shell weak mixing angle"
    tolerance: 0.0005
  - concept_id: higgs.vev_GeV
    aliases:
      - "Higgs vev"
    unit: GeV
  - concept_id: qcd.alpha_s
    aliases:
      - "strong coupling"
      - "coupling constant"
  - concept_id: qed.alpha_em
    aliases:
      - "fine structure constant"
      - "coupling constant"
`

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Parse([]byte(testRegistryYAML))
	require.NoError(t, err)
	return reg
}

func singleSectionRecord(text string) *record.SimulationRecord {
	return &record.SimulationRecord{
		ID:          "rec",
		SectionText: []record.SectionBlock{{Name: "body", Text: text}},
	}
}

func TestExtract_ParameterValuesAreExactIDMatches(t *testing.T) {
	rec := &record.SimulationRecord{
		ID: "rec",
		Parameters: []record.Parameter{{
			ID:    "electroweak.sin2_theta_W_onshell",
			Value: record.Float64Ptr(0.2312),
			Exp:   record.Float64Ptr(0.2289),
		}},
	}

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 2)

	assert.Equal(t, record.FieldParamValue, ext.Occurrences[0].SourceField)
	assert.Equal(t, 0.2312, ext.Occurrences[0].RawValue)
	assert.Equal(t, record.MatchExactID, ext.Occurrences[0].Match)
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", ext.Occurrences[0].ConceptID)

	assert.Equal(t, record.FieldParamExp, ext.Occurrences[1].SourceField)
	assert.Equal(t, 0.2289, ext.Occurrences[1].RawValue)
}

func TestExtract_AliasWithNumberInWindow(t *testing.T) {
	rec := singleSectionRecord("The weak mixing angle evaluates to 0.2312 here.")

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 1)

	occ := ext.Occurrences[0]
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", occ.ConceptID)
	assert.Equal(t, 0.2312, occ.RawValue)
	assert.Equal(t, record.MatchAliasText, occ.Match)
	assert.Equal(t, record.FieldSectionText, occ.SourceField)
	assert.Equal(t, "body", occ.SourceID)
	assert.Contains(t, occ.RawSpan, "weak mixing angle")
	assert.Contains(t, occ.RawSpan, "0.2312")
}

func TestExtract_NumberBeyondWindowIsDropped(t *testing.T) {
	rec := singleSectionRecord(
		"The weak mixing angle stays stable while other unrelated settings elsewhere in the pipeline yield 0.2312 today.")

	ext := New(testRegistry(t)).Extract(rec)
	assert.Empty(t, ext.Occurrences)
}

func TestExtract_WindowOption(t *testing.T) {
	// Gap of two tokens between mention and number.
	rec := singleSectionRecord("weak mixing angle was exactly 0.2312")

	ext := New(testRegistry(t), WithWindow(1)).Extract(rec)
	assert.Empty(t, ext.Occurrences)

	ext = New(testRegistry(t), WithWindow(2)).Extract(rec)
	assert.Len(t, ext.Occurrences, 1)
}

func TestExtract_LongestAliasWins(t *testing.T) {
	rec := singleSectionRecord("the on-shell weak mixing angle equals 0.2312")

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 1)
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", ext.Occurrences[0].ConceptID)
	assert.Contains(t, ext.Occurrences[0].RawSpan, "on-shell weak mixing angle")
	assert.Empty(t, ext.Issues, "a longer alias containing a shorter one is not ambiguous")
}

func TestExtract_AmbiguousAliasEmitsIssue(t *testing.T) {
	rec := singleSectionRecord("a coupling constant of 0.118 drives the running")

	ext := New(testRegistry(t)).Extract(rec)

	require.Len(t, ext.Occurrences, 1)
	occ := ext.Occurrences[0]
	assert.Equal(t, record.MatchAmbiguous, occ.Match)
	assert.Empty(t, occ.ConceptID)
	assert.Equal(t, []string{"qcd.alpha_s", "qed.alpha_em"}, occ.Candidates)

	require.Len(t, ext.Issues, 1)
	issue := ext.Issues[0]
	assert.Equal(t, record.IssueAmbiguousMatch, issue.Kind)
	assert.Equal(t, record.SeverityLow, issue.Severity)
	assert.Equal(t, "qcd.alpha_s,qed.alpha_em", issue.Detail["candidates"])
}

// An ambiguous mention is surfaced even when no number associates with it.
func TestExtract_AmbiguousMentionWithoutNumber(t *testing.T) {
	rec := singleSectionRecord("the coupling constant governs the interaction strength")

	ext := New(testRegistry(t)).Extract(rec)
	assert.Empty(t, ext.Occurrences)
	require.Len(t, ext.Issues, 1)
	assert.Equal(t, record.IssueAmbiguousMatch, ext.Issues[0].Kind)
}

func TestExtract_TieBreakPrefersPrecedingMention(t *testing.T) {
	// The number sits exactly one token from both mentions.
	rec := singleSectionRecord("weak mixing angle x 0.5 Higgs vev")

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 1)
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", ext.Occurrences[0].ConceptID)
}

func TestExtract_PercentInCertDescBecomesClaim(t *testing.T) {
	rec := &record.SimulationRecord{
		ID: "rec",
		Certificates: []record.Certificate{{
			ID:          "cert.agreement",
			Description: "Derived sin2 theta W agrees within 0.05% of the reference.",
			Status:      record.CertPass,
		}},
	}

	ext := New(testRegistry(t)).Extract(rec)

	assert.Empty(t, ext.Occurrences, "a percentage is a claim, not a value occurrence")
	require.Len(t, ext.Claims, 1)
	claim := ext.Claims[0]
	assert.Equal(t, "cert.agreement", claim.CertID)
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", claim.ConceptID)
	assert.Equal(t, 0.05, claim.ClaimedPercent)
	assert.InDelta(t, 0.0005, claim.Claimed, 1e-12)
}

// Claim attribution skips ambiguous mentions: when the mention nearest the
// percentage is ambiguous, an unambiguous mention further away but inside
// the window still receives the claim.
func TestExtract_ClaimPrefersUnambiguousMention(t *testing.T) {
	rec := &record.SimulationRecord{
		ID: "rec",
		Certificates: []record.Certificate{{
			ID:          "cert.agreement",
			Description: "sin2 theta W via coupling constant within 0.05% agreement.",
			Status:      record.CertPass,
		}},
	}

	ext := New(testRegistry(t)).Extract(rec)

	require.Len(t, ext.Claims, 1)
	assert.Equal(t, "electroweak.sin2_theta_W_onshell", ext.Claims[0].ConceptID)
	assert.Equal(t, 0.05, ext.Claims[0].ClaimedPercent)
	// The ambiguous mention itself is still surfaced.
	require.Len(t, ext.Issues, 1)
	assert.Equal(t, record.IssueAmbiguousMatch, ext.Issues[0].Kind)
}

// A claim whose only in-window mentions are ambiguous is dropped, never
// guessed.
func TestExtract_ClaimWithOnlyAmbiguousMentionDropped(t *testing.T) {
	rec := &record.SimulationRecord{
		ID: "rec",
		Certificates: []record.Certificate{{
			ID:          "cert.coupling",
			Description: "the coupling constant agrees within 0.05% here.",
			Status:      record.CertPass,
		}},
	}

	ext := New(testRegistry(t)).Extract(rec)
	assert.Empty(t, ext.Claims)
	require.Len(t, ext.Issues, 1)
	assert.Equal(t, record.IssueAmbiguousMatch, ext.Issues[0].Kind)
}

// Percentages outside certificate descriptions produce neither claims nor
// occurrences.
func TestExtract_PercentInSectionTextIsIgnored(t *testing.T) {
	rec := singleSectionRecord("the weak mixing angle moved by 0.05% overnight")

	ext := New(testRegistry(t)).Extract(rec)
	assert.Empty(t, ext.Occurrences)
	assert.Empty(t, ext.Claims)
}

func TestExtract_UnitAfterNumber(t *testing.T) {
	rec := singleSectionRecord("the Higgs vev of 246.7 GeV anchors the scale")

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 1)
	assert.Equal(t, "GeV", ext.Occurrences[0].Unit)

	rec = singleSectionRecord("the Higgs vev of 246.7 anchors the scale")
	ext = New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 1)
	assert.Empty(t, ext.Occurrences[0].Unit)
}

func TestExtract_ScanOrderIsDeterministic(t *testing.T) {
	rec := &record.SimulationRecord{
		ID: "rec",
		Formulas: []record.Formula{{
			ID:          "f1",
			Description: "weak mixing angle near 0.231 by construction",
		}},
		Parameters: []record.Parameter{{
			ID:    "higgs.vev_GeV",
			Value: record.Float64Ptr(246.22),
		}},
		SectionText: []record.SectionBlock{{
			Name: "s1",
			Text: "Higgs vev of 246.22 GeV",
		}},
	}

	ext := New(testRegistry(t)).Extract(rec)
	require.Len(t, ext.Occurrences, 3)
	assert.Equal(t, record.FieldFormulaDesc, ext.Occurrences[0].SourceField)
	assert.Equal(t, record.FieldParamValue, ext.Occurrences[1].SourceField)
	assert.Equal(t, record.FieldSectionText, ext.Occurrences[2].SourceField)
}
