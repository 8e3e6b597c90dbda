package intake

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StartWatcher", func() {
	var (
		dir    string
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	write := func(name string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte("%PDF-1.4"), 0644)).To(Succeed())
		return path
	}

	When("no directory is configured", func() {
		It("should return an error", func() {
			_, err := StartWatcher(ctx, WatchConfig{})
			Expect(err).To(HaveOccurred())
		})
	})

	When("a PDF appears in the directory", func() {
		It("should emit its path", func() {
			ch, err := StartWatcher(ctx, WatchConfig{Dir: dir})
			Expect(err).NotTo(HaveOccurred())

			path := write("new.pdf")
			Eventually(ch, 5*time.Second).Should(Receive(Equal(path)))
		})
	})

	When("a non-PDF appears in the directory", func() {
		It("should stay silent", func() {
			ch, err := StartWatcher(ctx, WatchConfig{Dir: dir})
			Expect(err).NotTo(HaveOccurred())

			write("notes.txt")
			Consistently(ch, 500*time.Millisecond).ShouldNot(Receive())
		})
	})

	When("files are already present at startup", func() {
		It("should emit them during the initial scan", func() {
			existing := write("backlog.pdf")
			write("skipped.txt")

			ch, err := StartWatcher(ctx, WatchConfig{Dir: dir, InitialScan: true})
			Expect(err).NotTo(HaveOccurred())

			Eventually(ch, 5*time.Second).Should(Receive(Equal(existing)))
		})
	})

	When("the context is cancelled", func() {
		It("should close the channel", func() {
			ch, err := StartWatcher(ctx, WatchConfig{Dir: dir})
			Expect(err).NotTo(HaveOccurred())

			cancel()
			Eventually(ch, 5*time.Second).Should(BeClosed())
		})
	})
})
