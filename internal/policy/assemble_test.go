package policy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assemble", func() {
	var rec *CanonicalRecord

	BeforeEach(func() {
		rec = Assemble(CompanyAllianz, Extracted{
			FieldName:  "Jan Novák",
			FieldPhone: "123456789",
		}, "quote.pdf")
	})

	It("should span the full schema", func() {
		Expect(rec.Values).To(HaveLen(len(Fields)))
		for _, f := range Fields {
			Expect(rec.Values).To(HaveKey(f))
		}
	})

	It("should keep the normalized values", func() {
		Expect(rec.Values[FieldName]).To(Equal("Jan Novák"))
		Expect(rec.Values[FieldPhone]).To(Equal("123456789"))
	})

	It("should fill unset fields with explicit empty strings", func() {
		Expect(rec.Values[FieldOwnerName]).To(Equal(""))
		Expect(rec.Values[FieldLicensePlate]).To(Equal(""))
	})

	It("should stamp the company and source file", func() {
		Expect(rec.Values[FieldCompany]).To(Equal("Allianz"))
		Expect(rec.Values[FieldSourceFile]).To(Equal("quote.pdf"))
	})

	It("should emit rows in fixed column order", func() {
		row := rec.Row()
		Expect(row).To(HaveLen(len(Fields)))
		Expect(row[0]).To(Equal("Allianz"))
		Expect(row[len(row)-1]).To(Equal("quote.pdf"))
	})

	It("should ignore values outside the schema", func() {
		other := Assemble(CompanyAllianz, Extracted{"Neznámé pole": "x"}, "quote.pdf")
		Expect(other.Values).To(HaveLen(len(Fields)))
		Expect(other.Values).NotTo(HaveKey("Neznámé pole"))
	})
})

var _ = Describe("ValidationPolicy", func() {
	var (
		policy  ValidationPolicy
		rec     *CanonicalRecord
		outcome *Outcome
	)

	BeforeEach(func() {
		policy = DefaultValidationPolicy()
	})

	JustBeforeEach(func() {
		outcome = policy.Validate(rec)
	})

	When("name and contract number are present", func() {
		BeforeEach(func() {
			rec = Assemble(CompanyAllianz, Extracted{
				FieldName:           "Jan Novák",
				FieldContractNumber: "123456789",
			}, "quote.pdf")
		})

		It("should succeed", func() {
			Expect(outcome.Status).To(Equal(StatusSuccess))
			Expect(outcome.Record).To(Equal(rec))
		})
	})

	When("name and birth number are present instead", func() {
		BeforeEach(func() {
			rec = Assemble(CompanyKooperativa, Extracted{
				FieldName:        "Petr Svoboda",
				FieldBirthNumber: "8505121234",
			}, "quote.pdf")
		})

		It("should succeed through the alternate combination", func() {
			Expect(outcome.Status).To(Equal(StatusSuccess))
		})
	})

	When("only the name is present", func() {
		BeforeEach(func() {
			rec = Assemble(CompanyGenerali, Extracted{
				FieldName: "Marie Dvořáková",
			}, "quote.pdf")
		})

		It("should fail", func() {
			Expect(outcome.Status).To(Equal(StatusFailure))
			Expect(outcome.Reason).To(Equal("missing required identity fields"))
		})

		It("should list the unmet fields", func() {
			Expect(outcome.Missing).To(ConsistOf(FieldContractNumber, FieldBirthNumber))
		})
	})

	When("a custom policy is supplied", func() {
		BeforeEach(func() {
			policy = ValidationPolicy{Identity: [][]string{{FieldLicensePlate}}}
			rec = Assemble(CompanyAllianz, Extracted{
				FieldLicensePlate: "1AB2345",
			}, "quote.pdf")
		})

		It("should apply the supplied combinations", func() {
			Expect(outcome.Status).To(Equal(StatusSuccess))
		})
	})
})
