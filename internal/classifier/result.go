package classifier

// DocType names the kind of document a text was recognised as.
type DocType string

const (
	IndividualSheet      DocType = "individual_sheet"
	SimpleTable          DocType = "simple_table"
	ComplexTable         DocType = "complex_table"
	PrefectoralOrder     DocType = "prefectoral_order"
	AdministrativeLetter DocType = "administrative_letter"
	ProductCatalog       DocType = "product_catalog"
	Other                DocType = "other"
)

// DocTypes lists every document type in decision-list order, with Other last.
var DocTypes = []DocType{
	IndividualSheet,
	ProductCatalog,
	SimpleTable,
	ComplexTable,
	PrefectoralOrder,
	AdministrativeLetter,
	Other,
}

// IsTable reports whether t is one of the table variants.
func (t DocType) IsTable() bool {
	return t == SimpleTable || t == ComplexTable
}

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	for _, known := range DocTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Strategy is the extraction depth chosen for a document.
type Strategy string

const (
	ExtractAll     Strategy = "extract_all"
	ExtractPartial Strategy = "extract_partial"
	MetadataOnly   Strategy = "metadata_only"
)

// Description returns a short human-readable summary of the strategy.
func (s Strategy) Description() string {
	switch s {
	case ExtractAll:
		return "Full extraction of every field"
	case ExtractPartial:
		return "Partial extraction - see the original document for details"
	case MetadataOnly:
		return "Metadata only - document not relevant for extraction"
	default:
		return "Unknown strategy"
	}
}

// Result is the outcome of classifying one document. Complexity is
// informational, on a 0-100 scale.
type Result struct {
	Type              DocType  `json:"type"`
	Strategy          Strategy `json:"strategy"`
	Complexity        int      `json:"complexity"`
	EstimatedAidCount int      `json:"estimated_aid_count"`
	Confidence        float64  `json:"classifier_confidence"`
}

// Fallback is the result returned when no rule matches.
func Fallback() Result {
	return Result{
		Type:       Other,
		Strategy:   ExtractPartial,
		Complexity: 50,
	}
}
