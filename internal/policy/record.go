package policy

// Company identifies the insurer whose template a document matched
type Company string

const (
	CompanyAllianz     Company = "Allianz"
	CompanyKooperativa Company = "Kooperativa"
	CompanyGenerali    Company = "Generali"
	CompanyUnknown     Company = "Unknown"
)

// Field names of the canonical output schema. The CSV database, the
// archive and the XLSX export all use these names as column headers.
const (
	FieldCompany            = "Pojišťovna"
	FieldName               = "Jméno a příjmení"
	FieldBirthNumber        = "Rodné číslo"
	FieldBirthDate          = "Datum narození"
	FieldAddress            = "Adresa"
	FieldContractNumber     = "Číslo smlouvy"
	FieldLicensePlate       = "SPZ"
	FieldVehiclePrice       = "Cena vozidla"
	FieldMileage            = "Najeté km"
	FieldAnnualMileage      = "Roční nájezd"
	FieldPolicyStart        = "Počátek pojištění"
	FieldPrice              = "Cena"
	FieldLiabilityLimits    = "Krytí PR"
	FieldCollisionCoverage  = "Havarijní pojištění"
	FieldExtraCoverage      = "Další připojištění"
	FieldPhone              = "Telefon"
	FieldEmail              = "E-mail"
	FieldHolderPersonType   = "Pojistník - Typ osoby"
	FieldHolderVATPayer     = "Pojistník - Plátce DPH"
	FieldSameOperator       = "Shodný provozovatel"
	FieldSameOwner          = "Shodný vlastník"
	FieldOperatorName       = "Provozovatel - Název"
	FieldOperatorID         = "Provozovatel - IČO"
	FieldOperatorAddress    = "Provozovatel - Adresa"
	FieldOperatorPersonType = "Provozovatel - Typ osoby"
	FieldOperatorVATPayer   = "Provozovatel - Plátce DPH"
	FieldOwnerName          = "Vlastník - Název"
	FieldOwnerID            = "Vlastník - IČO"
	FieldOwnerAddress       = "Vlastník - Adresa"
	FieldOwnerPersonType    = "Vlastník - Typ osoby"
	FieldOwnerVATPayer      = "Vlastník - Plátce DPH"
	FieldSourceFile         = "Zdrojový soubor"
)

// Fields is the full canonical schema in output column order. Every
// CanonicalRecord spans exactly this key set regardless of which
// template produced it.
var Fields = []string{
	FieldCompany,
	FieldName,
	FieldBirthNumber,
	FieldBirthDate,
	FieldAddress,
	FieldContractNumber,
	FieldLicensePlate,
	FieldVehiclePrice,
	FieldMileage,
	FieldAnnualMileage,
	FieldPolicyStart,
	FieldPrice,
	FieldLiabilityLimits,
	FieldCollisionCoverage,
	FieldExtraCoverage,
	FieldPhone,
	FieldEmail,
	FieldHolderPersonType,
	FieldHolderVATPayer,
	FieldSameOperator,
	FieldSameOwner,
	FieldOperatorName,
	FieldOperatorID,
	FieldOperatorAddress,
	FieldOperatorPersonType,
	FieldOperatorVATPayer,
	FieldOwnerName,
	FieldOwnerID,
	FieldOwnerAddress,
	FieldOwnerPersonType,
	FieldOwnerVATPayer,
	FieldSourceFile,
}

// Extracted holds raw captured strings keyed by field name. A missing
// key means the field was not found in the document; that is a normal
// state, not an error.
type Extracted map[string]string

// CanonicalRecord is one fully normalized output row. Values holds an
// entry for every name in Fields; fields the template does not define
// are explicit empty strings.
type CanonicalRecord struct {
	Company    Company           `json:"company"`
	SourceFile string            `json:"source_file"`
	Values     map[string]string `json:"values"`
}

// Row returns the record's values in canonical column order.
func (r *CanonicalRecord) Row() []string {
	row := make([]string, len(Fields))
	for i, f := range Fields {
		row[i] = r.Values[f]
	}
	return row
}

// Status is the terminal decision for one document
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome is the result of running the pipeline over one document.
// Record is set only on success; Reason and Missing describe failures.
type Outcome struct {
	Status  Status
	Company Company
	Record  *CanonicalRecord
	Reason  string
	Missing []string
}
