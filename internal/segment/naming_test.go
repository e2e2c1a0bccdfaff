package segment_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nori-kv/wal/internal/segment"
)

var _ = Describe("FileName", func() {
	It("zero-pads the segment id to six digits", func() {
		Expect(segment.FileName(0)).To(Equal("000000.wal"))
		Expect(segment.FileName(42)).To(Equal("000042.wal"))
		Expect(segment.FileName(123456)).To(Equal("123456.wal"))
	})
})

var _ = Describe("GetSegments", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "segment-naming-*")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("returns nil for a directory that does not exist", func() {
		ids, err := segment.GetSegments(filepath.Join(dir, "missing"))
		Expect(err).ToNot(HaveOccurred())
		Expect(ids).To(BeEmpty())
	})

	It("lists only well-formed segment names, sorted ascending", func() {
		for _, name := range []string{"000002.wal", "000000.wal", "000001.wal", "notasegment.txt", "0001.wal"} {
			Expect(os.WriteFile(filepath.Join(dir, name), nil, 0o644)).To(Succeed())
		}
		ids, err := segment.GetSegments(dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(ids).To(Equal([]uint64{0, 1, 2}))
	})
})
