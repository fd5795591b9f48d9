package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/internal/version"
	"github.com/hrygo/thermosense/server"
	"github.com/hrygo/thermosense/store"
	"github.com/hrygo/thermosense/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "thermosense",
	Short: "A service that infers per-device tolerance for scheduled temperature offsets",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:               viper.GetString("mode"),
			Addr:               viper.GetString("addr"),
			Port:               viper.GetInt("port"),
			Data:               viper.GetString("data"),
			Driver:             viper.GetString("driver"),
			DSN:                viper.GetString("dsn"),
			Version:            version.Version,
			PrecomputeInterval: viper.GetDuration("precompute-interval"),
			Workers:            viper.GetInt("workers"),
			LookbackDays:       viper.GetInt("lookback-days"),
			HalfLifeDays:       viper.GetInt("half-life-days"),
		}
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		level := slog.LevelInfo
		if instanceProfile.IsDev() {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		driver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		st := store.New(driver, instanceProfile)
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s, err := server.NewServer(instanceProfile, st)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		go func() {
			if err := s.Start(ctx); err != nil {
				slog.Error("server error", "error", err)
				stop()
			}
		}()

		<-ctx.Done()
		s.Shutdown(context.Background())
		return nil
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres or memory)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().Duration("precompute-interval", time.Hour, "how often preferences are recomputed")
	rootCmd.PersistentFlags().Int("workers", 8, "per-device inference fan-out limit")
	rootCmd.PersistentFlags().Int("lookback-days", 14, "telemetry lookback window in days")
	rootCmd.PersistentFlags().Int("half-life-days", 7, "override-rate decay half-life in days")

	for _, flag := range []string{
		"mode", "addr", "port", "data", "driver", "dsn",
		"precompute-interval", "workers", "lookback-days", "half-life-days",
	} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("thermosense")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
