package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nori-kv/wal/pkg/wal"
)

var (
	appendKey       string
	appendValue     string
	appendTombstone bool
	appendTTL       time.Duration
)

// appendCmd represents the append command.
var appendCmd = &cobra.Command{
	Use:          "append",
	Short:        "Appends a single record to the write-ahead log.",
	Long:         `Appends a single record to the write-ahead log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := wal.Open(wal.Config{Dir: directory})
		if err != nil {
			return err
		}
		defer w.Close()

		rec := wal.Record{
			Key:       []byte(appendKey),
			Value:     []byte(appendValue),
			Tombstone: appendTombstone,
		}
		if appendTTL > 0 {
			rec.HasTTL = true
			rec.TTL = appendTTL
		}

		pos, err := w.Append(rec)
		if err != nil {
			return err
		}
		if err := w.Sync(); err != nil {
			return err
		}
		fmt.Printf("Appended at segment=%06d offset=%d\n", pos.SegmentID, pos.Offset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(appendCmd)

	appendCmd.Flags().StringVarP(&appendKey, "key", "k", "", "The record key.")
	appendCmd.Flags().StringVarP(&appendValue, "value", "v", "", "The record value.")
	appendCmd.Flags().BoolVar(&appendTombstone, "tombstone", false, "Append a tombstone for key instead of a value.")
	appendCmd.Flags().DurationVar(&appendTTL, "ttl", 0, "Optional time-to-live for the record.")

	_ = appendCmd.MarkFlagRequired("key")
}
