package policy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const emailExpr = `[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`

// Section boundaries of the Generali quote layout. Labels repeat
// across sections, so captures are scoped to their section block.
const (
	generaliHolderBlock  = `(?is)POJISTNÍK\s*-\s*fyzická osoba\s*(.*?)\n(?:PRACOVNÍK|POJISTNÁ|TECHNICKÉ|POJIŠTĚNÍ|$)`
	generaliVehicleBlock = `(?is)3\.3\s+Údaje o vozidle\s*(.*?)\n(?:3\.4|POJIŠTĚNÍ|TECHNICKÉ|$)`
)

// DefaultRules returns the stock rule tables for all supported
// templates. Adding an insurer means adding a table here, not new code
// paths.
func DefaultRules() Rules {
	return Rules{
		CompanyAllianz:     allianzRules(),
		CompanyKooperativa: kooperativaRules(),
		CompanyGenerali:    generaliRules(),
	}
}

// allianzRules covers the Allianz quote layout. Values are mostly
// line-positioned relative to labels rather than label-prefixed.
func allianzRules() []FieldRule {
	return []FieldRule{
		{Field: FieldName, Required: true, Norm: NormIdentity, Capture: firstOf(
			lineBefore("Rodné číslo"),
			lineAfter("Klient (Vy):", 1),
		)},
		{Field: FieldBirthNumber, Required: true, Norm: NormIdentity,
			Capture: pattern(`Rodné číslo:\s*(\d{6}/?\d{3,4})`, 1)},
		{Field: FieldBirthDate, Norm: NormDate,
			Capture: fromField(FieldBirthNumber, birthDateFromNumber)},
		{Field: FieldAddress, Norm: NormIdentity,
			Capture: firstNonEmptyWithin("trvalý pobyt", 2)},
		{Field: FieldLicensePlate, Norm: NormIdentity,
			Capture: pattern(`([A-Z0-9]{5,8}), č\.`, 1)},
		{Field: FieldContractNumber, Required: true, Norm: NormIdentity,
			Capture: pattern(`Nabídka pojistitele č\.\s*([A-Z0-9-]+)`, 1)},
		{Field: FieldPolicyStart, Norm: NormDate,
			Capture: pattern(`KČ ROČNĚ\s+(\d{1,2}\.\s*\d{1,2}\.\s*\d{4})`, 1)},
		{Field: FieldAnnualMileage, Norm: NormIdentity,
			Capture: pattern(`Roční nájezd:\s*(Do\s*[\d\s]+km)`, 1)},
		{Field: FieldPhone, Norm: NormPhone,
			Capture: pattern(`Mobilní telefon:\s*([+0-9 ]+)`, 1)},
		{Field: FieldEmail, Norm: NormIdentity, Capture: firstOf(
			regexNearLine("kontaktní adresa", emailExpr, 5),
			pattern(emailExpr, 0),
		)},
		{Field: FieldLiabilityLimits, Norm: NormIdentity,
			Capture: joinGroups(`(?i)Limit.*?(\d{2,3})\s*/\s*(\d{2,3})`, "/")},
		{Field: FieldSameOperator, Norm: NormBool,
			Capture: presence("provozovatel je shodný")},
		{Field: FieldSameOwner, Norm: NormBool,
			Capture: presence("vlastník vozidla je shodný")},
		{Field: FieldExtraCoverage, Norm: NormIdentity,
			Capture: bundleSelect(allianzBundles())},
		{Field: FieldCollisionCoverage, Norm: NormBool,
			Capture: anySuffixed([]string{
				"přírodní události", "poškození zvířetem", "havárie", "gap", "skla", "krádež",
			}, " ano")},
		{Field: FieldVehiclePrice, Norm: NormMoney,
			Capture: pattern(`(?i)Cena vozidla\s*[:\-]?\s*([\d\s]+)\s*Kč`, 1)},
		{Field: FieldMileage, Norm: NormMoney,
			Capture: pattern(`(?i)Najeté km\s*[:\-]?\s*([\d\s]+)`, 1)},
		{Field: FieldPrice, Norm: NormMoney,
			Capture: regexNearLine("vaše pojistné", `([0-9]{1,3}(?:[ \x{00A0}]?[0-9]{3}))\s*Kč`, 3)},
	}
}

// allianzBundles maps the add-on coverage bundles to the coverage rows
// that imply them. Order matters: the richest bundle is checked first.
func allianzBundles() []Bundle {
	return []Bundle{
		{Name: "Sjednaný balíček Max", Keywords: []string{
			"havárie ano", "doplatek na nové (gap) ano", "gap ano"}},
		{Name: "Sjednaný balíček Extra", Keywords: []string{
			"krádež ano", "skla ano", "vandalismus ano"}},
		{Name: "Sjednaný balíček Plus", Keywords: []string{
			"přírodní události ano", "požár a výbuch ano", "poškození zvířetem ano"}},
		{Name: "Sjednaný balíček Komfort", Keywords: []string{
			"povinné ručení ano", "právní poradenství ano", "asistence ano",
			"rozšířená asistence ano", "úrazové pojištění ano"}},
	}
}

// kooperativaRules covers the Kooperativa layout, which is almost
// entirely label-prefixed.
func kooperativaRules() []FieldRule {
	return []FieldRule{
		{Field: FieldName, Required: true, Norm: NormIdentity,
			Capture: pattern(`Titul, jméno, příjmení\s+([^\n]*)`, 1)},
		{Field: FieldBirthNumber, Required: true, Norm: NormIdentity,
			Capture: pattern(`Rodné číslo\s+(\d{9,10})`, 1)},
		{Field: FieldBirthDate, Norm: NormDate,
			Capture: fromField(FieldBirthNumber, birthDateFromNumber)},
		{Field: FieldAddress, Norm: NormIdentity,
			Capture: pattern(`Adresa bydliště\s+([^\n]*)`, 1)},
		{Field: FieldContractNumber, Required: true, Norm: NormIdentity,
			Capture: pattern(`\b(\d{10})\b`, 1)},
		{Field: FieldLicensePlate, Norm: NormIdentity,
			Capture: pattern(`Registrační značka\s+([^\n]*)`, 1)},
		{Field: FieldVehiclePrice, Norm: NormMoney,
			Capture: pattern(`Pojistná částka\s+([\d\s]+)`, 1)},
		{Field: FieldMileage, Norm: NormMoney,
			Capture: pattern(`Stav počítadla \(km\)\s+([\d\s]+)`, 1)},
		{Field: FieldPolicyStart, Norm: NormDate,
			Capture: pattern(`Počátek pojištění\s+(\d{1,2}\.\s*\d{1,2}\.\s*\d{4})`, 1)},
		{Field: FieldPrice, Norm: NormMoney,
			Capture: pattern(`Celkové roční pojistné\s+([\d\s]+)`, 1)},
		{Field: FieldLiabilityLimits, Norm: NormIdentity,
			Capture: firstTwoMatches(`(\d{2,3})\s*mil\.\s*Kč`, "/")},
		{Field: FieldSameOperator, Norm: NormBool,
			Capture: presenceRe(`(?i)Provozovatel\s+Shodný\s+s\s+pojistníkem`)},
		{Field: FieldSameOwner, Norm: NormBool,
			Capture: presenceRe(`(?i)Vlastník\s+Shodný\s+s\s+pojistníkem`)},
		{Field: FieldPhone, Norm: NormPhone,
			Capture: pattern(`Mobil\s+([+0-9 ]+)`, 1)},
		{Field: FieldEmail, Norm: NormIdentity,
			Capture: pattern(emailExpr, 0)},
		{Field: FieldHolderPersonType, Norm: NormIdentity,
			Capture: pattern(`Typ osoby\s+([^\n]+)`, 1)},
		{Field: FieldExtraCoverage, Norm: NormIdentity,
			Capture: blockLines(`(?s)Doplňková pojištění(.*?)(?:Roční pojistné|$)`, "pojištění", ", ")},
		{Field: FieldCollisionCoverage, Norm: NormBool,
			Capture: presenceRe(`Havarijní pojištění`)},
	}
}

// generaliRules covers the Generali / Česká podnikatelská layout, a
// numbered-section document with `label: value` pairs inside blocks.
func generaliRules() []FieldRule {
	return []FieldRule{
		{Field: FieldName, Required: true, Norm: NormIdentity,
			Capture: blockField(generaliHolderBlock, "Titul, jméno, příjmení, titul za jménem")},
		{Field: FieldBirthNumber, Required: true, Norm: NormIdentity,
			Capture: blockField(generaliHolderBlock, "Rodné číslo")},
		{Field: FieldBirthDate, Norm: NormDate,
			Capture: fromField(FieldBirthNumber, birthDateFromNumber)},
		{Field: FieldPhone, Norm: NormPhone,
			Capture: blockField(generaliHolderBlock, "Telefon")},
		{Field: FieldEmail, Norm: NormIdentity,
			Capture: blockField(generaliHolderBlock, "E-mail")},
		{Field: FieldAddress, Norm: NormIdentity,
			Capture: blockField(generaliHolderBlock, "Trvalá adresa")},
		{Field: FieldHolderPersonType, Norm: NormIdentity,
			Capture: blockPresent(generaliHolderBlock, "fyzická osoba")},
		{Field: FieldContractNumber, Required: true, Norm: NormIdentity,
			Capture: pattern(`Pojistná smlouva číslo\s*:\s*(\d+)`, 1)},
		{Field: FieldLicensePlate, Norm: NormIdentity,
			Capture: blockField(generaliVehicleBlock, "Registrační značka")},
		{Field: FieldPolicyStart, Norm: NormDate,
			Capture: pattern(`(?i)počátkem pojištění\s+(\d{1,2}\.\s*\d{1,2}\.\s*\d{4})`, 1)},
		{Field: FieldLiabilityLimits, Norm: NormIdentity,
			Capture: joinGroups(`(?is)Limit pojistného plnění.*?(\d{2,3})\s*[\d\s]*Kč.*?škody na majetku.*?(\d{2,3})\s*[\d\s]*Kč`, "/")},
		{Field: FieldPrice, Norm: NormMoney, Capture: firstOf(
			pattern(`(?i)Celkem roční pojistné.*?([0-9\s]{4,7})\s*Kč`, 1),
			pattern(`(?i)Výše jednotlivé splátky.*?([0-9\s]{4,7})\s*Kč`, 1),
			pattern(`(?i)Částka\s*([0-9\s]{4,7})\s*Kč`, 1),
		)},
		{Field: FieldExtraCoverage, Norm: NormIdentity,
			Capture: pattern(`(?i)4\.2\s+Doplňková pojištění\s+(.*)`, 1)},
		{Field: FieldCollisionCoverage, Norm: NormBool,
			Capture: anyPresent([]string{
				"havarijní pojištění", "poškození zvířetem", "přírodní události",
				"havárie", "skla", "krádež", "vandalismus", "gap",
			})},
		{Field: FieldVehiclePrice, Norm: NormMoney,
			Capture: pattern(`(?i)cena vozidla\s*[:\-]?\s*([0-9\s]{4,10})`, 1)},
		{Field: FieldMileage, Norm: NormMoney,
			Capture: pattern(`(?i)Najeté kilometry\s*[:\-]?\s*([0-9\s]{1,10})`, 1)},
		{Field: FieldAnnualMileage, Norm: NormMoney,
			Capture: pattern(`(?i)Roční nájezd\s*[:\-]?\s*([0-9\s]{1,10})`, 1)},
		{Field: FieldHolderVATPayer, Norm: NormBool,
			Capture: presenceOnly(`(?i)Plátce DPH\s*[:\-]?\s*ano`)},
		{Field: FieldSameOperator, Norm: NormBool,
			Capture: presenceRe(`(?i)3\.2\s+Držitel\s+\(provozovatel\)\s+vozidla\s+je\s+shodný\s+s\s+pojistníkem`)},
		{Field: FieldOwnerName, Norm: NormIdentity,
			Capture: pattern(`3\.1\s+Vlastník vozidla:\s*(.+)`, 1)},
		{Field: FieldSameOwner, Norm: NormBool, Capture: constant("NE")},
	}
}

var birthNumberShape = regexp.MustCompile(`^\d{6}`)

// birthDateFromNumber derives the birth date from a Czech birth number
// (rodné číslo). Years 50-99 fall into the 1900s; the month part
// carries +50 for women. The result feeds the date normalizer.
func birthDateFromNumber(rc string) (string, bool) {
	digits := strings.ReplaceAll(rc, "/", "")
	if !birthNumberShape.MatchString(digits) {
		return "", false
	}
	year, _ := strconv.Atoi(digits[:2])
	if year >= 50 {
		year += 1900
	} else {
		year += 2000
	}
	month, _ := strconv.Atoi(digits[2:4])
	if month > 50 {
		month -= 50
	}
	return fmt.Sprintf("%s.%02d.%d", digits[4:6], month, year), true
}
