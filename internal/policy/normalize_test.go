package policy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalizers", func() {
	Describe("NormalizePhone", func() {
		It("should strip formatting and the country prefix", func() {
			v, ok := NormalizePhone("+420 123 456 789")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("123456789"))
		})

		It("should strip the long-form country prefix", func() {
			v, ok := NormalizePhone("00420 777 888 999")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("777888999"))
		})

		It("should reject values with the wrong digit count", func() {
			_, ok := NormalizePhone("12345")
			Expect(ok).To(BeFalse())
		})

		It("should be idempotent", func() {
			v, ok := NormalizePhone("123456789")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("123456789"))
		})
	})

	Describe("NormalizeDate", func() {
		It("should parse dotted dates with spaces", func() {
			v, ok := NormalizeDate("1. 1. 2024")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("2024-01-01"))
		})

		It("should parse zero-padded dotted dates", func() {
			v, ok := NormalizeDate("02.03.2023")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("2023-03-02"))
		})

		It("should parse slash-separated dates", func() {
			v, ok := NormalizeDate("31/12/2023")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("2023-12-31"))
		})

		It("should parse dash-separated dates", func() {
			v, ok := NormalizeDate("5-6-2022")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("2022-06-05"))
		})

		It("should be idempotent on the canonical form", func() {
			v, ok := NormalizeDate("2024-01-01")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("2024-01-01"))
		})

		It("should reject unparsable input", func() {
			_, ok := NormalizeDate("brzy")
			Expect(ok).To(BeFalse())
		})

		It("should reject impossible dates", func() {
			_, ok := NormalizeDate("32.13.2024")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("NormalizeBool", func() {
		It("should map domain synonyms to ANO", func() {
			for _, raw := range []string{"ano", "ANO", "Yes", "true"} {
				v, ok := NormalizeBool(raw)
				Expect(ok).To(BeTrue(), "input %q", raw)
				Expect(v).To(Equal("ANO"))
			}
		})

		It("should map domain synonyms to NE", func() {
			for _, raw := range []string{"ne", "NE", "No", "false"} {
				v, ok := NormalizeBool(raw)
				Expect(ok).To(BeTrue(), "input %q", raw)
				Expect(v).To(Equal("NE"))
			}
		})

		It("should reject values outside the synonym set", func() {
			_, ok := NormalizeBool("možná")
			Expect(ok).To(BeFalse())
		})

		It("should be idempotent", func() {
			v, ok := NormalizeBool("ANO")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("ANO"))
		})
	})

	Describe("NormalizeMoney", func() {
		It("should strip currency marks and thousands separators", func() {
			v, ok := NormalizeMoney("350 000 Kč")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("350000"))
		})

		It("should accept the comma decimal separator", func() {
			v, ok := NormalizeMoney("25,99")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("25.99"))
		})

		It("should strip non-breaking spaces", func() {
			v, ok := NormalizeMoney("12\u00A0500\u00A0Kč")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("12500"))
		})

		It("should reject non-numeric input", func() {
			_, ok := NormalizeMoney("zdarma")
			Expect(ok).To(BeFalse())
		})

		It("should be idempotent", func() {
			v, ok := NormalizeMoney("12500")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("12500"))
		})
	})

	Describe("NormalizeIdentity", func() {
		It("should trim surrounding whitespace", func() {
			v, ok := NormalizeIdentity("  Jan Novák  ")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("Jan Novák"))
		})

		It("should treat blank input as absent", func() {
			_, ok := NormalizeIdentity("   ")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("NormalizeRecord", func() {
		var (
			rules []FieldRule
			rec   Extracted
			out   Extracted
		)

		BeforeEach(func() {
			rules = DefaultRules()[CompanyAllianz]
			rec = Extracted{
				FieldName:        " Jan Novák ",
				FieldPhone:       "+420 123 456 789",
				FieldPolicyStart: "1. 1. 2024",
				FieldPrice:       "12 500",
			}
		})

		JustBeforeEach(func() {
			out = NormalizeRecord(rules, rec, "test.pdf")
		})

		It("should normalize each field by its family", func() {
			Expect(out[FieldName]).To(Equal("Jan Novák"))
			Expect(out[FieldPhone]).To(Equal("123456789"))
			Expect(out[FieldPolicyStart]).To(Equal("2024-01-01"))
			Expect(out[FieldPrice]).To(Equal("12500"))
		})

		When("one value is malformed", func() {
			BeforeEach(func() {
				rec[FieldPhone] = "12345"
			})

			It("should drop only the malformed field", func() {
				Expect(out).NotTo(HaveKey(FieldPhone))
				Expect(out[FieldName]).To(Equal("Jan Novák"))
				Expect(out[FieldPolicyStart]).To(Equal("2024-01-01"))
			})
		})
	})
})
