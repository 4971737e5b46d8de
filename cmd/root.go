package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dkorittki/httprof/pkg/databackend"
	"github.com/dkorittki/httprof/pkg/filedatabackend"
	"github.com/dkorittki/httprof/pkg/profiler"
	"github.com/dkorittki/httprof/pkg/profiler/config"
	"github.com/dkorittki/httprof/pkg/report"
	"github.com/dkorittki/httprof/pkg/target"
)

var (
	cfgFile     string
	resultFile  string
	count       int
	verbose     bool
	profilerCfg *config.ProfilerConfig

	logger = zerolog.New(
		zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC1123,
		}).With().Timestamp().Logger()
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "httprof [flags] URL",
	Short: "Profile website latency",
	Long: `Httprof profiles HTTP and HTTPS endpoints over raw sockets.

It performs a configurable number of independent request/response
cycles against one URL and reports aggregate latency, payload size
and outcome statistics. Every cycle resolves the hostname fresh,
opens its own connection and closes it afterwards, so repeated
requests may land on different hosts behind the same name.`,
	Args:          cobra.ExactArgs(1),
	PreRunE:       preRunRoot,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and sets the process exit code.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&count, "profile", "p", 1,
		"number of requests to make (values below 1 are treated as 1)")
	rootCmd.Flags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.httprof.yaml)")
	rootCmd.Flags().StringVar(&resultFile, "result", "",
		"path to a file in which raw per-request results are stored")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

func preRunRoot(cmd *cobra.Command, args []string) error {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return initConfig()
}

// initConfig reads in the optional config file. A missing default
// config file is fine; an explicitly given one must exist.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("cannot read config file: %w", err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".httprof")

		if err := viper.ReadInConfig(); err == nil {
			logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
		}
	}

	cfg, err := config.NewProfilerConfig(viper.Sub("profiler"))
	if err != nil {
		return fmt.Errorf("invalid profiler config: %w", err)
	}

	profilerCfg = cfg
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	tgt, err := target.Parse(args[0])
	if err != nil {
		return err
	}

	p := profiler.New(tgt, count, profilerCfg)

	logger.Debug().
		Str("target", tgt.String()).
		Int("count", p.Count()).
		Msg("starting run")

	outcomes := p.Run(context.Background())

	if resultFile != "" {
		if err := storeResults(tgt, outcomes); err != nil {
			logger.Warn().Err(err).Msg("problem occurred while storing raw results")
		}
	}

	longest, hasLongest := p.LongestBody()
	r := report.Aggregate(outcomes, longest, hasLongest)
	r.Render(os.Stdout)

	return nil
}

func storeResults(tgt *target.Target, outcomes []profiler.Outcome) error {
	logger.Info().Str("file", resultFile).Msg("using file to store raw results")

	b, err := filedatabackend.New(resultFile)
	if err != nil {
		return err
	}
	defer b.Close()

	for _, o := range outcomes {
		result := &databackend.Result{
			URL:            tgt.String(),
			HTTPStatusCode: o.Status,
			BodySize:       o.BodySize,
			Elapsed:        o.Elapsed,
		}
		if o.Failure != nil {
			result.FailurePhase = string(o.Failure.Phase)
			result.FailureDetail = o.Failure.Detail
		}

		if err := b.Store(result); err != nil {
			return err
		}
	}

	return nil
}
