package policy

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("ExportRecordsXLSX", func() {
	var (
		db      *mockDB
		service *Service
		data    []byte
		err     error
	)

	BeforeEach(func() {
		db = newMockDB()
		service = NewServiceWithDeps(
			&mockExtractor{},
			NewClassifier(DefaultProbes()),
			DefaultRules(),
			DefaultValidationPolicy(),
			&mockSink{},
			db,
			&mockRelocator{},
			&mockIDGenerator{},
			&mockTimeSource{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		)
	})

	JustBeforeEach(func() {
		data, err = service.ExportRecordsXLSX()
		Expect(err).NotTo(HaveOccurred())
	})

	When("records are archived", func() {
		BeforeEach(func() {
			older := Assemble(CompanyKooperativa, Extracted{FieldName: "Petr Svoboda"}, "older.pdf")
			newer := Assemble(CompanyAllianz, Extracted{FieldName: "Jan Novák"}, "newer.pdf")
			Expect(db.SaveRecord(&ArchivedRecord{
				ID: "b", SourceFile: newer.SourceFile, Company: newer.Company,
				Values: newer.Values, CreatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
			})).To(Succeed())
			Expect(db.SaveRecord(&ArchivedRecord{
				ID: "a", SourceFile: older.SourceFile, Company: older.Company,
				Values: older.Values, CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			})).To(Succeed())
		})

		It("should produce a workbook with a single sheet", func() {
			wb, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer wb.Close()

			Expect(wb.GetSheetList()).To(Equal([]string{"Records"}))
		})

		It("should write the canonical header and one row per record, oldest first", func() {
			wb, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer wb.Close()

			rows, rowsErr := wb.GetRows("Records")
			Expect(rowsErr).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0]).To(Equal(Fields))
			Expect(rows[1][0]).To(Equal("Kooperativa"))
			Expect(rows[2][0]).To(Equal("Allianz"))
		})
	})

	When("the archive is empty", func() {
		It("should still produce a readable workbook with only the header", func() {
			wb, openErr := excelize.OpenReader(bytes.NewReader(data))
			Expect(openErr).NotTo(HaveOccurred())
			defer wb.Close()

			rows, rowsErr := wb.GetRows("Records")
			Expect(rowsErr).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(Equal(Fields))
		})
	})
})
