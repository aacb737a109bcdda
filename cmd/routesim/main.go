package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/adiboy6/routing/pkg/config"
	"github.com/adiboy6/routing/pkg/dvengine"
	"github.com/adiboy6/routing/pkg/log"
	"github.com/adiboy6/routing/pkg/metrics"
	"github.com/adiboy6/routing/pkg/simharness"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "routesim",
	Short: "Distance-vector routing protocol simulator",
	Long: `routesim drives a distance-vector routing protocol engine over a
virtual-clock network harness: it loads a topology, applies the
configured policy, runs the simulation to a time horizon, and prints
each router's converged routing table.`,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var runCmd = &cobra.Command{
	Use:   "run TOPOLOGY_FILE",
	Short: "Run a topology to convergence and print final routing tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Float64("ttl", 0, "ROUTE_TTL in seconds (default 15)")
	runCmd.Flags().Float64("inf", 0, "INFINITY latency (default 16)")
	runCmd.Flags().Float64("period", 0, "PERIODIC_INTERVAL in seconds (default 5)")
	runCmd.Flags().Bool("sh", false, "enable SPLIT_HORIZON")
	runCmd.Flags().Bool("pr", false, "enable POISON_REVERSE")
	runCmd.Flags().Bool("p", true, "enable POISON_EXPIRED")
	runCmd.Flags().Bool("link-up", true, "enable SEND_ON_LINK_UP")
	runCmd.Flags().Bool("link-down", true, "enable POISON_ON_LINK_DOWN")
	runCmd.Flags().Bool("unsync", false, "enable RANDOMIZE_TIMERS")
	runCmd.Flags().Bool("nohairpin", false, "enable DROP_HAIRPINS")
	runCmd.Flags().Duration("horizon", 0, "virtual-time horizon to run to (default: 10x periodic interval)")
	runCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics at this address while running")
}

func runRun(cmd *cobra.Command, args []string) error {
	topoPath := args[0]

	registry := config.NewRegistry()
	for _, realFlag := range []string{"ttl", "inf", "period"} {
		if cmd.Flags().Changed(realFlag) {
			v, _ := cmd.Flags().GetFloat64(realFlag)
			if err := registry.Set(realFlag, fmt.Sprintf("%g", v)); err != nil {
				return err
			}
		}
	}
	for _, boolFlag := range []string{"sh", "pr", "p", "link-up", "link-down", "unsync", "nohairpin"} {
		if cmd.Flags().Changed(boolFlag) {
			v, _ := cmd.Flags().GetBool(boolFlag)
			if err := registry.Set(boolFlag, fmt.Sprintf("%v", v)); err != nil {
				return err
			}
		}
	}

	policy, err := registry.Build()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
			}
		}()
		fmt.Printf("metrics listening on http://%s/metrics\n", metricsAddr)
	}

	topo, err := simharness.LoadTopologyFile(topoPath)
	if err != nil {
		return err
	}

	built, err := simharness.Build(topo, policy)
	if err != nil {
		return fmt.Errorf("building topology: %w", err)
	}

	horizon, _ := cmd.Flags().GetDuration("horizon")
	if horizon == 0 {
		horizon = time.Duration(policy.PeriodicInterval * 10 * float64(time.Second))
	}
	built.Network.RunToQuiescence(horizon)

	now := built.Loop.Clock().Now().Seconds()
	for _, name := range sortedRouterNames(built.Routers) {
		r := built.Routers[name]
		fmt.Println(r.Table().String(now))
		fmt.Println()
	}
	return nil
}

func sortedRouterNames(routers map[string]*dvengine.Router) []string {
	names := make([]string, 0, len(routers))
	for name := range routers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
