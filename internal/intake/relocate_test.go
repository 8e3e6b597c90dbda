package intake

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Mover", func() {
	var (
		watchDir     string
		processedDir string
		errorDir     string
		mover        *Mover
	)

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		watchDir = filepath.Join(root, "watch")
		processedDir = filepath.Join(root, "processed")
		errorDir = filepath.Join(root, "errors")
		Expect(os.MkdirAll(watchDir, 0755)).To(Succeed())

		var err error
		mover, err = NewMover(processedDir, errorDir)
		Expect(err).NotTo(HaveOccurred())
	})

	write := func(name string) string {
		path := filepath.Join(watchDir, name)
		Expect(os.WriteFile(path, []byte("%PDF-1.4"), 0644)).To(Succeed())
		return path
	}

	It("should create both destination directories", func() {
		Expect(processedDir).To(BeADirectory())
		Expect(errorDir).To(BeADirectory())
	})

	When("moving a processed file", func() {
		var src string

		BeforeEach(func() {
			src = write("ok.pdf")
			Expect(mover.ToProcessed(src)).To(Succeed())
		})

		It("should place it under the processed directory", func() {
			Expect(filepath.Join(processedDir, "ok.pdf")).To(BeARegularFile())
		})

		It("should remove it from the watch directory", func() {
			Expect(src).NotTo(BeAnExistingFile())
		})
	})

	When("moving a failed file", func() {
		BeforeEach(func() {
			Expect(mover.ToError(write("bad.pdf"))).To(Succeed())
		})

		It("should place it under the error directory", func() {
			Expect(filepath.Join(errorDir, "bad.pdf")).To(BeARegularFile())
		})
	})

	When("the source file does not exist", func() {
		It("should return an error", func() {
			err := mover.ToProcessed(filepath.Join(watchDir, "missing.pdf"))
			Expect(err).To(HaveOccurred())
		})
	})
})
