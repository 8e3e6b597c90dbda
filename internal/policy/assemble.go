package policy

// Assemble merges normalized field values into a record spanning the
// full canonical schema. Fields the template never captured become
// explicit empty strings, so every record has the same column set.
func Assemble(company Company, rec Extracted, sourceFile string) *CanonicalRecord {
	values := make(map[string]string, len(Fields))
	for _, f := range Fields {
		values[f] = ""
	}
	for f, v := range rec {
		if _, known := values[f]; known {
			values[f] = v
		}
	}
	values[FieldCompany] = string(company)
	values[FieldSourceFile] = sourceFile
	return &CanonicalRecord{Company: company, SourceFile: sourceFile, Values: values}
}

// ValidationPolicy decides whether a record identifies its subject well
// enough to persist. Identity lists field combinations; a record passes
// when at least one combination is fully non-empty.
type ValidationPolicy struct {
	Identity [][]string
}

// DefaultValidationPolicy accepts a record identified by full name plus
// either a contract number or a birth number.
func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{Identity: [][]string{
		{FieldName, FieldContractNumber},
		{FieldName, FieldBirthNumber},
	}}
}

// Validate maps a record to its terminal outcome. On failure, Missing
// lists every empty field referenced by the identity combinations.
func (p ValidationPolicy) Validate(rec *CanonicalRecord) *Outcome {
	for _, combo := range p.Identity {
		if comboSatisfied(rec, combo) {
			return &Outcome{Status: StatusSuccess, Company: rec.Company, Record: rec}
		}
	}
	seen := make(map[string]struct{})
	var missing []string
	for _, combo := range p.Identity {
		for _, f := range combo {
			if rec.Values[f] != "" {
				continue
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			missing = append(missing, f)
		}
	}
	return &Outcome{
		Status:  StatusFailure,
		Company: rec.Company,
		Reason:  "missing required identity fields",
		Missing: missing,
	}
}

func comboSatisfied(rec *CanonicalRecord, combo []string) bool {
	for _, f := range combo {
		if rec.Values[f] == "" {
			return false
		}
	}
	return true
}
