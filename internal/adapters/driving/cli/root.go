// Package cli implements the Switchboard command line interface.
// Commands are thin adapters: they parse flags, call the driving
// services, and render the results. Service wiring happens in the
// composition root, which injects the services via Configure.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

var verboseFlag bool

// Injected services. Commands check for nil and fail with a clear
// message when a service was not configured.
var (
	assistantService driving.AssistantService
	knowledgeService driving.KnowledgeService
	sessionService   driving.SessionService
	metricsStore     driven.MetricsStore
	specialists      []domain.SpecialistConfig
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "A multi-agent assistant that routes questions to specialists",
	Long: `Switchboard routes your questions to specialist agents, each backed
by its own knowledge base. Ambiguous questions fan out to several
specialists and the answers are synthesised into one.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"print routing and retrieval details to stderr")
}

// Services carries the wired driving ports into the CLI.
type Services struct {
	Assistant   driving.AssistantService
	Knowledge   driving.KnowledgeService
	Sessions    driving.SessionService
	Metrics     driven.MetricsStore
	Specialists []domain.SpecialistConfig
}

// Configure injects the services the commands depend on. Call once
// from the composition root before Execute.
func Configure(s Services) {
	assistantService = s.Assistant
	knowledgeService = s.Knowledge
	sessionService = s.Sessions
	metricsStore = s.Metrics
	specialists = s.Specialists
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
