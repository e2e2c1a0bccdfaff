package wal_test

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nori-kv/wal/pkg/wal"
)

var _ = Describe("Wal", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "pkg-wal-*")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("should open, append records and read them back after a reopen", func() {
		w, info, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		Expect(info.SegmentsScanned).To(Equal(0))

		entries := []wal.Record{
			{Key: []byte("foo"), Value: []byte("1")},
			{Key: []byte("bar"), Value: []byte("2")},
			{Key: []byte("foo"), Tombstone: true},
		}
		for _, rec := range entries {
			_, err := w.Append(rec)
			Expect(err).ToNot(HaveOccurred())
		}
		Expect(w.Sync()).To(Succeed())
		Expect(w.Close()).To(Succeed())

		w2, info2, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		defer w2.Close()
		Expect(info2.ValidRecords).To(Equal(uint64(3)))

		reader, err := w2.ReadFrom(wal.Position{})
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()

		var count int
		for reader.Next() {
			v := reader.Value()
			Expect(v.Key).To(Equal(entries[count].Key))
			count++
		}
		Expect(reader.Err()).To(Or(BeNil(), MatchError(io.EOF)))
		Expect(count).To(Equal(3))
	})

	It("rejects compressed appends unless AllowCompression is set", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		defer w.Close()

		_, err = w.Append(wal.Record{Key: []byte("k"), Value: []byte("v"), Compression: wal.CompressionZstd})
		Expect(err).To(MatchError(wal.ErrCompressionUnsupported))
	})

	It("transparently compresses and decompresses when AllowCompression is set", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir, AllowCompression: true})
		Expect(err).ToNot(HaveOccurred())

		value := []byte("some reasonably compressible value some reasonably compressible value")
		_, err = w.Append(wal.Record{Key: []byte("k"), Value: value, Compression: wal.CompressionZstd})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Sync()).To(Succeed())
		Expect(w.Close()).To(Succeed())

		w2, _, err := wal.Open(wal.Config{Dir: dir, AllowCompression: true})
		Expect(err).ToNot(HaveOccurred())
		defer w2.Close()

		reader, err := w2.ReadFrom(wal.Position{})
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()
		Expect(reader.Next()).To(BeTrue())
		Expect(reader.Value().Value).To(Equal(value))
	})

	It("supports AppendBatch under a single lock acquisition", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		defer w.Close()

		positions, err := w.AppendBatch([]wal.Record{
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte("b"), Value: []byte("2")},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(positions).To(HaveLen(2))
		Expect(positions[0].Less(positions[1])).To(BeTrue())
	})

	It("GCBelow frees sealed segments entirely below the watermark", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir, MaxSegmentSize: 4096})
		Expect(err).ToNot(HaveOccurred())
		defer w.Close()

		var lastPos wal.Position
		for lastPos.SegmentID < 1 {
			lastPos, err = w.Append(wal.Record{Key: []byte("k"), Value: make([]byte, 1024)})
			Expect(err).ToNot(HaveOccurred())
		}

		freed, err := w.GCBelow(wal.Position{SegmentID: 1, Offset: 0})
		Expect(err).ToNot(HaveOccurred())
		Expect(freed).To(BeNumerically(">", 0))
	})

	It("Flush succeeds and is idempotent alongside Sync", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		defer w.Close()

		_, err = w.Append(wal.Record{Key: []byte("k"), Value: []byte("v")})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Flush()).To(Succeed())
		Expect(w.Sync()).To(Succeed())
	})

	It("rejects further Append calls once closed", func() {
		w, _, err := wal.Open(wal.Config{Dir: dir})
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		_, err = w.Append(wal.Record{Key: []byte("k")})
		Expect(err).To(MatchError(wal.ErrClosed))
	})

	It("OpenWithMeter behaves like Open with Config.Meter set", func() {
		registry := prometheus.NewRegistry()
		meter, err := wal.NewPrometheusMeter(registry)
		Expect(err).ToNot(HaveOccurred())

		w, _, err := wal.OpenWithMeter(dir, meter)
		Expect(err).ToNot(HaveOccurred())
		defer w.Close()

		_, err = w.Append(wal.Record{Key: []byte("k"), Value: []byte("v")})
		Expect(err).ToNot(HaveOccurred())
	})
})
