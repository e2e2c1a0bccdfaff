package cmd

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nori-kv/wal/pkg/wal"
)

var metricsServeAddr string

// metricsServeCmd represents the metrics-serve command.
var metricsServeCmd = &cobra.Command{
	Use:          "metrics-serve",
	Short:        "Opens the write-ahead log and serves its metrics over HTTP until interrupted.",
	Long:         `Opens the write-ahead log and serves its metrics over HTTP until interrupted.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := prometheus.NewRegistry()
		meter, err := wal.NewPrometheusMeter(registry)
		if err != nil {
			return err
		}

		w, _, err := wal.Open(wal.Config{Dir: directory, Meter: meter})
		if err != nil {
			return err
		}
		defer w.Close()

		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		fmt.Printf("Serving metrics for %q on %s/metrics\n", directory, metricsServeAddr)
		return http.ListenAndServe(metricsServeAddr, nil)
	},
}

func init() {
	rootCmd.AddCommand(metricsServeCmd)

	metricsServeCmd.Flags().StringVar(&metricsServeAddr, "addr", ":9090", "The address to serve metrics on.")
}
