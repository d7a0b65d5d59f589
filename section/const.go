package section

// Fixed field widths of the record grammar, in characters.
const (
	CountryWidth       = 2 // ISO-like country code
	YearWidth          = 4
	MonthWidth         = 2
	DayWidth           = 2
	ProfileTypeWidth   = 1
	VariableCountWidth = 2
	FlagWidth          = 1 // every QC, originator and iMeta flag

	CharEntryCountWidth = 1
	CharTypeWidth       = 1
	TextLengthWidth     = 2
	PICountWidth        = 2
)

// Character data entry types.
const (
	CharOriginatorCruise       = 1
	CharOriginatorStation      = 2
	CharPrincipalInvestigators = 3
)

// Secondary header codes referenced by the assembler and the simple encoder.
const (
	SecondaryProbeType         = 29
	SecondaryOriginatorFlagSet = 96
)

// VariableMetaProbeType is the variable metadata code carrying the instrument.
const VariableMetaProbeType = 5

const (
	maxFlag        = 9
	maxTextLength  = 99
	maxPICount     = 99
	maxCharEntries = 9
	maxVariables   = 99
)
