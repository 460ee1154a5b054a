package constants

// Key fields every vendor config must resolve for each certificate entry.
const (
	FieldPlateNo    = "PLATE_NO"
	FieldHeatNo     = "HEAT_NO"
	FieldTestCertNo = "TEST_CERT_NO"
)

// NA is the sentinel for a key field that could not be resolved.
// NotAvailable is the variant emitted by the specialized table parser.
const (
	NA           = "NA"
	NotAvailable = "N/A"
)

// QualityOCRPoorFallback marks entries produced from static fallback
// values rather than pattern matches; such entries need manual review.
const QualityOCRPoorFallback = "OCR_POOR_FALLBACK_USED"

// Extraction modes a vendor config may declare.
const (
	ModeTable = "table"
	ModeText  = "text"
)

// Pattern match strategies.
const (
	MatchGlobal     = "global"
	MatchLineByLine = "line_by_line"
)

// KeyFields in canonical output order.
func KeyFields() []string {
	return []string{FieldPlateNo, FieldHeatNo, FieldTestCertNo}
}

// fieldAliases maps vendor-specific field names onto the canonical keys.
var fieldAliases = map[string]string{
	"PART_NO":        FieldPlateNo,
	"PRODUCT_NO":     FieldPlateNo,
	"CERTIFICATE_NO": FieldTestCertNo,
	"REPORT_NO":      FieldTestCertNo,
}

// NormalizeFieldName resolves vendor-specific aliases (PART_NO,
// CERTIFICATE_NO, ...) to the canonical key field names.
func NormalizeFieldName(name string) string {
	if canonical, ok := fieldAliases[name]; ok {
		return canonical
	}
	return name
}
