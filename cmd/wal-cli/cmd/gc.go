package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nori-kv/wal/pkg/wal"
)

var (
	gcSegment uint64
	gcOffset  uint64
)

// gcCmd represents the gc command.
var gcCmd = &cobra.Command{
	Use:          "gc",
	Short:        "Deletes segments entirely below a watermark position.",
	Long:         `Deletes segments entirely below a watermark position.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := wal.Open(wal.Config{Dir: directory})
		if err != nil {
			return err
		}
		defer w.Close()

		freed, err := w.GCBelow(wal.Position{SegmentID: gcSegment, Offset: gcOffset})
		if err != nil {
			return err
		}
		fmt.Printf("Freed %d byte(s).\n", freed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)

	gcCmd.Flags().Uint64Var(&gcSegment, "segment", 0, "The segment id of the watermark.")
	gcCmd.Flags().Uint64Var(&gcOffset, "offset", 0, "The byte offset of the watermark within its segment.")
}
