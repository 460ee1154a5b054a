package extract

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
)

// Entry is one structured certificate record: the three key fields plus
// provenance. Key fields are always concrete strings ("NA" if absent).
type Entry struct {
	PlateNo    string `json:"PLATE_NO"`
	HeatNo     string `json:"HEAT_NO"`
	TestCertNo string `json:"TEST_CERT_NO"`

	Hash      string    `json:"Hash"`
	Vendor    string    `json:"Vendor"`
	Filename  string    `json:"Filename"`
	Page      int       `json:"Page"` // 1-indexed
	SourcePDF string    `json:"Source PDF"`
	Created   time.Time `json:"Created"`
	OCRUsed   bool      `json:"OCR_Used"`

	CorrectionsApplied []string `json:"_corrections_applied,omitempty"`
	ExtractionQuality  string   `json:"extraction_quality,omitempty"`
}

// KeyField returns the value of one of the three canonical key fields.
func (e Entry) KeyField(name string) string {
	switch name {
	case constants.FieldPlateNo:
		return e.PlateNo
	case constants.FieldHeatNo:
		return e.HeatNo
	case constants.FieldTestCertNo:
		return e.TestCertNo
	}
	return ""
}

// SetKeyField assigns one of the three canonical key fields, resolving
// vendor aliases first. Unknown names are ignored.
func (e *Entry) SetKeyField(name, value string) {
	switch constants.NormalizeFieldName(name) {
	case constants.FieldPlateNo:
		e.PlateNo = value
	case constants.FieldHeatNo:
		e.HeatNo = value
	case constants.FieldTestCertNo:
		e.TestCertNo = value
	}
}

// ContentHash derives the dedup hash for an entry: md5 over the vendor
// id and the three key fields. Identical key-field combinations for
// one vendor collapse to one accepted entry per document.
func ContentHash(vendorID string, e Entry) string {
	key := vendorID + "|" + e.PlateNo + "|" + e.HeatNo + "|" + e.TestCertNo
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// CorrectionFunc is a pure post-extraction fixup applied to one entry
// before hashing and dedup.
type CorrectionFunc func(Entry) Entry
