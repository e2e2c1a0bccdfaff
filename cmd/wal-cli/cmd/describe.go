package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nori-kv/wal/pkg/wal"
)

// describeCmd represents the describe command.
var describeCmd = &cobra.Command{
	Use:          "describe",
	Short:        "Provides detailed information about the write-ahead log.",
	Long:         `Provides detailed information about the write-ahead log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := wal.GetSegments(directory)
		if err != nil {
			return err
		}
		if len(segments) == 0 {
			return fmt.Errorf("no segment found in %q", directory)
		}
		fmt.Printf("Segments: %d\n", len(segments))
		fmt.Printf("First segment: %06d\n", segments[0])
		fmt.Printf("Last segment:  %06d\n", segments[len(segments)-1])
		fmt.Println()

		w, info, err := wal.Open(wal.Config{Dir: directory})
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Printf(
			"Recovery: %d segment(s) scanned, %d valid record(s), %d byte(s) truncated, corruption detected: %t\n\n",
			info.SegmentsScanned, info.ValidRecords, info.BytesTruncated, info.CorruptionDetected,
		)

		reader, err := w.ReadFrom(wal.Position{})
		if err != nil {
			return err
		}
		defer reader.Close()

		var count uint64
		var lastPos wal.Position
		for reader.Next() {
			count++
			lastPos = reader.Position()
		}
		if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		fmt.Printf("Records:          %d\n", count)
		fmt.Printf("Last position:    segment=%06d offset=%d\n", lastPos.SegmentID, lastPos.Offset)
		current := w.CurrentPosition()
		fmt.Printf("Current position: segment=%06d offset=%d\n", current.SegmentID, current.Offset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
