package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long running background workers such as the absence sweeper.`,
}

var sweeperWorkerCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Start the absence sweeper",
	Long:  `Run the absence sweep on its cron schedule until interrupted. Use this when the server runs with attendance.run_sweeper=false.`,
	Run: func(cmd *cobra.Command, args []string) {
		startSweeperWorker()
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one absence sweep now",
	Long:  `Mark every active employee without an attendance row for the date as Absent.`,
	RunE:  runSweep,
}

var sweepDate string

func startSweeperWorker() {
	app, err := initializeApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := app.Logger

	app.Scheduler.Start()
	lg.Info("absence sweeper is running. Press Ctrl+C to stop.",
		"schedule", app.Config.Attendance.AbsenceSweepSchedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down absence sweeper", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app.Shutdown(ctx)
	if err := app.SQLX.Close(); err != nil {
		lg.Error("Database close error", "error", err)
	}
	lg.Info("absence sweeper shutdown complete")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	app, err := initializeApplication()
	if err != nil {
		return err
	}
	defer app.SQLX.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := sweepOnce(ctx, app, sweepDate)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sweep %s: %d candidates, %d marked absent, %d skipped, %d failed\n",
		result.Date, result.Candidates, result.Marked, result.Skipped, result.Failed)
	return nil
}

// sweepOnce sweeps date, or today when blank, and drains the log subscriber.
func sweepOnce(ctx context.Context, app *Application, date string) (attendance.SweepResult, error) {
	var (
		result attendance.SweepResult
		err    error
	)
	if date == "" {
		result, err = app.Scheduler.Tick(ctx)
	} else {
		result, err = app.Sweeper.Sweep(ctx, date)
	}
	if err != nil {
		return result, err
	}

	if err := app.EventBus.Wait(ctx); err != nil {
		app.Logger.Warn("attendance log handlers did not finish", "error", err)
	}
	return result, nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepDate, "date", "", "date to sweep (YYYY-MM-DD), defaults to today")

	workerCmd.AddCommand(sweeperWorkerCmd)

	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(sweepCmd)
}
