package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/replanhq/replan/internal/profile"
	"github.com/replanhq/replan/plugin/timeparse"
	"github.com/replanhq/replan/server/queryengine"
	"github.com/replanhq/replan/server/service/reschedule"
	"github.com/replanhq/replan/server/timezone"
	"github.com/replanhq/replan/store"
	"github.com/replanhq/replan/store/db"
)

const version = "0.1.0"

var instanceProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:     "replan",
	Short:   "replan resolves natural-language time expressions and plans order reschedules",
	Version: version,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile = &profile.Profile{
			Mode:                 viper.GetString("mode"),
			Data:                 viper.GetString("data"),
			Driver:               viper.GetString("driver"),
			DSN:                  viper.GetString("dsn"),
			OrdersCSV:            viper.GetString("orders-csv"),
			Timezone:             viper.GetString("timezone"),
			FiscalYearStartMonth: viper.GetInt("fiscal-year-start-month"),
			YearRollover:         viper.GetBool("year-rollover"),
			Version:              version,
		}
		return instanceProfile.Validate()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("data", ".", "data directory")
	flags.String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	flags.String("dsn", "", "database source name (aka. DSN)")
	flags.String("orders-csv", "", "planned orders CSV to import on startup")
	flags.String("timezone", "UTC", "IANA timezone the planning calendar runs in")
	flags.Int("fiscal-year-start-month", int(time.April), "first month of the fiscal year (1-12)")
	flags.Bool("year-rollover", true, "roll yearless past dates into the next year")

	for _, name := range []string{
		"mode", "data", "driver", "dsn",
		"orders-csv", "timezone", "fiscal-year-start-month", "year-rollover",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("replan")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// runtime bundles the wired collaborators a command works with.
type runtime struct {
	store    *store.Store
	service  reschedule.Service
	location *time.Location
	logger   *slog.Logger
}

// today returns the current calendar date in the configured timezone.
func (r *runtime) today() time.Time {
	return timezone.Today(r.location)
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	logLevel := slog.LevelInfo
	if instanceProfile.IsDev() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	location, err := timezone.ParseTimezone(instanceProfile.Timezone)
	if err != nil {
		return nil, err
	}

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	st := store.New(driver, instanceProfile)
	if err := st.Migrate(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, err
	}

	if instanceProfile.OrdersCSV != "" {
		imported, err := st.ImportOrdersCSVFile(cmd.Context(), instanceProfile.OrdersCSV)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		logger.Info("imported planned orders",
			slog.String("file", instanceProfile.OrdersCSV),
			slog.Int("count", imported))
	}

	resolverConfig := timeparse.DefaultConfig()
	resolverConfig.FiscalYearStartMonth = time.Month(instanceProfile.FiscalYearStartMonth)
	resolverConfig.YearRollover = instanceProfile.YearRollover
	resolver := timeparse.NewServiceWithConfig(resolverConfig)

	engine := queryengine.NewEngine(resolver)
	// The planning calendar runs in the configured timezone; every service
	// call anchors on that calendar's current date.
	svc := reschedule.NewServiceWithClock(st, engine, logger, func() time.Time {
		return timezone.Today(location)
	})

	return &runtime{
		store:    st,
		service:  svc,
		location: location,
		logger:   logger,
	}, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close store", slog.String("error", err.Error()))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
