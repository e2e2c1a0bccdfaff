package codec_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nori-kv/wal/internal/codec"
)

var _ = Describe("Uvarint", func() {
	DescribeTable("round-tripping values",
		func(v uint64) {
			var buf bytes.Buffer
			scratch := make([]byte, binary.MaxVarintLen64)
			n, err := codec.WriteUvarint(&buf, scratch, v)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(buf.Len()))

			got, consumed, err := codec.ReadUvarint(&buf, scratch)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(v))
			Expect(consumed).To(Equal(n))
		},
		Entry("zero", uint64(0)),
		Entry("one byte", uint64(127)),
		Entry("two bytes", uint64(128)),
		Entry("large", uint64(1<<40)),
		Entry("max uint64", uint64(math.MaxUint64)),
	)

	It("returns io.ErrUnexpectedEOF when the stream ends mid-varint", func() {
		scratch := make([]byte, binary.MaxVarintLen64)
		_, err := codec.WriteUvarint(bytes.NewBuffer(nil), scratch, 1<<40)
		Expect(err).ToNot(HaveOccurred())

		var buf bytes.Buffer
		_, err = codec.WriteUvarint(&buf, scratch, 1<<40)
		Expect(err).ToNot(HaveOccurred())

		truncated := bytes.NewReader(buf.Bytes()[:1])
		_, _, err = codec.ReadUvarint(truncated, scratch)
		Expect(err).To(MatchError(io.ErrUnexpectedEOF))
	})
})
