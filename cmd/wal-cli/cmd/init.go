package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nori-kv/wal/pkg/wal"
)

var initMaxSegmentSize int64

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Initializes a new write-ahead log.",
	Long:         `Initializes a new write-ahead log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := wal.GetSegments(directory)
		if err != nil {
			return err
		}
		if len(segments) != 0 {
			return fmt.Errorf("WAL already initialized at %q", directory)
		}

		w, _, err := wal.Open(wal.Config{
			Dir:            directory,
			MaxSegmentSize: initMaxSegmentSize,
		})
		if err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		fmt.Printf("WAL initialized at %q.\n", directory)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Int64VarP(
		&initMaxSegmentSize,
		"max-segment-size",
		"s",
		wal.DefaultMaxSegmentSize,
		"The maximum size in bytes a segment grows to before rotation.",
	)
}
