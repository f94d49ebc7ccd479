package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"tlharvest/pkg/auth"
	"tlharvest/pkg/config"
	errs "tlharvest/pkg/errors"
	"tlharvest/pkg/harvester"
	"tlharvest/pkg/logger"
	"tlharvest/pkg/twitter"
	"tlharvest/pkg/ui"
	"tlharvest/pkg/ui/tui"
	"tlharvest/pkg/userids"
)

var (
	userIDs      []int64
	usersFile    string
	since        string
	until        string
	geoOnly      bool
	prefix       string
	outputDir    string
	rowsPerFile  int
	digits       int
	naming       string
	compress     bool
	rateLimit    time.Duration
	retryDelay   time.Duration
	noWindowStop bool
	account      string
	useTUI       bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest the timelines of a list of users",
	Long: `Harvest the timelines of a list of users into JSON-lines files.

Users are processed one after another. For each user the timeline is paged
from the newest post backwards; posts created inside [--since, --until) are
written, optionally only when they carry coordinates or a place. Paging for a
user stops on an empty page (a reached_limit record is written) or once the
posts are older than --since.

A failed request skips the user and doubles the pause before the next one.
Ctrl+C closes the current output file and stops the run.`,
	Example: `  # Geotagged posts of two users during one week
  tlharvest harvest --user 25073877 --user 15446531 \
    --since 2017-09-01 --until 2017-09-08 --geo-only

  # Users from a CSV with a user_id column, zipped output
  tlharvest harvest --users-file users.csv --since 2017-01-01 \
    --until 2017-07-01 --compress --output ./data

  # Keep paging past the window start (stop only on an empty page)
  tlharvest harvest --users-file users.txt --since 2017-01-01 \
    --until 2017-02-01 --no-window-stop`,
	Args: cobra.NoArgs,
	Run:  runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	addHarvestFlags(rootCmd)
	addHarvestFlags(harvestCmd)
}

func addHarvestFlags(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVarP(&userIDs, "user", "u", nil, "user id to harvest (repeatable)")
	cmd.Flags().StringVarP(&usersFile, "users-file", "f", "", "file with user ids (CSV with a user_id column, or one id per line)")
	cmd.Flags().StringVar(&since, "since", "", "window start, inclusive (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&until, "until", "", "window end, exclusive (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&geoOnly, "geo-only", false, "keep only posts with coordinates or a place")
	cmd.Flags().StringVar(&prefix, "prefix", "", "output file name prefix")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().IntVar(&rowsPerFile, "rows-per-file", 0, "records per output file")
	cmd.Flags().IntVar(&digits, "digits", 0, "zero padding of the file sequence number")
	cmd.Flags().StringVar(&naming, "naming", "", "output file naming: sequence or timestamp")
	cmd.Flags().BoolVar(&compress, "compress", false, "zip each output file once it is full")
	cmd.Flags().DurationVar(&rateLimit, "rate-limit", 0, "pause after every page")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", 0, "initial delay after a failed request (halved, then doubled per failure)")
	cmd.Flags().BoolVar(&noWindowStop, "no-window-stop", false, "do not stop paging a user once posts predate --since")
	cmd.Flags().StringVarP(&account, "account", "a", "", "stored account to use (default: environment, then most recent)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show a live dashboard instead of progress lines (logs go to the log file only)")
}

// harvestFlags collects only the flags the user set, so config file and
// environment values are not overridden by flag defaults
func harvestFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("user") {
		flags["user-ids"] = userIDs
	}
	if changed("users-file") {
		flags["users-file"] = usersFile
	}
	if changed("since") {
		flags["since"] = since
	}
	if changed("until") {
		flags["until"] = until
	}
	if changed("geo-only") {
		flags["geo-only"] = geoOnly
	}
	if changed("prefix") {
		flags["prefix"] = prefix
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("rows-per-file") {
		flags["rows-per-file"] = rowsPerFile
	}
	if changed("digits") {
		flags["digits"] = digits
	}
	if changed("naming") {
		flags["naming"] = naming
	}
	if changed("compress") {
		flags["compress"] = compress
	}
	if changed("rate-limit") {
		flags["rate-limit"] = rateLimit
	}
	if changed("retry-delay") {
		flags["retry-delay"] = retryDelay
	}
	if changed("no-window-stop") {
		flags["stop-on-window"] = !noWindowStop
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runHarvest(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, harvestFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if useTUI {
		cfg.Logging.DisableConsole = true
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("tlharvest starting")

	creds, source, err := resolveCredentials(cfg)
	if err != nil {
		log.WithError(err).Error("No API credentials")
		ui.PrintError("No API credentials", err.Error())
		auth.WriteKeyGuide(os.Stderr)
		os.Exit(1)
	}

	ids, err := resolveUserIDs(cfg)
	if err != nil {
		log.WithError(err).Error("No users to harvest")
		ui.PrintError("No users to harvest", err.Error())
		os.Exit(1)
	}

	rc, err := cfg.RunConfig(ids)
	if err != nil {
		ui.PrintError("Invalid run configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Credentials", source)
	ui.PrintInfo("Users", fmt.Sprintf("%d", len(rc.UserIDs)))
	ui.PrintInfo("Window", fmt.Sprintf("%s .. %s", rc.Since.Format(time.RFC3339), rc.Until.Format(time.RFC3339)))
	ui.PrintInfo("Output", rc.Directory)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the console is muted under the dashboard, so warnings and errors of
	// the run go to its log panel as well
	var dash *tui.TUI
	runLog := log
	if useTUI {
		dash = tui.New(rc.UserIDs, stop)
		runLog = logger.Forward(log, "warn", dash.LogEntry)
	}

	client := twitter.NewClient(twitter.NewHTTPClient(creds, cfg.Twitter.Timeout), cfg.Twitter.BaseURL, runLog)
	controller, err := harvester.NewFromRunConfig(rc, client, runLog)
	if err != nil {
		log.WithError(err).Error("Failed to initialize harvester")
		ui.PrintError("Failed to initialize harvester", err.Error())
		stop()
		os.Exit(1)
	}

	progress := ui.NewProgressDisplay(len(rc.UserIDs))
	controller.OnUser = func(done, total int, res harvester.UserResult, err error) {
		progress.UserDone(done, res.UserID, res.Pages, res.Written, string(res.Stop), err)
	}

	var report harvester.Report
	if useTUI {
		report, err = runWithDashboard(ctx, dash, controller, log)
	} else {
		report, err = controller.Run(ctx)
	}
	progress.Complete(report.Files, report.Interrupted)

	switch {
	case errors.Is(err, errs.ErrInterrupted):
		ui.PrintWarning("Interrupted, output closed", fmt.Sprintf("%d records written", report.Written))
	case err != nil:
		log.WithError(err).Error("Harvest failed")
		ui.PrintError("Harvest failed", err.Error())
		stop()
		os.Exit(1)
	default:
		if len(report.Failed) > 0 {
			ui.PrintWarning("Users with errors", fmt.Sprintf("%v", report.Failed))
		}
		if report.Dropped > 0 {
			ui.PrintWarning("Records dropped", fmt.Sprintf("%d could not be serialized", report.Dropped))
		}
		ui.PrintInfo("Rate limit", fmt.Sprintf("%d page waits, %s paced", report.PageWaits, report.Paced.Round(time.Second)))
		ui.PrintSuccess(fmt.Sprintf("Harvest completed in %s", report.Duration.Round(time.Second)))
	}
}

// runWithDashboard runs the controller in the background while the
// dashboard owns the terminal. Progress lines are muted until it exits.
func runWithDashboard(ctx context.Context, dash *tui.TUI, controller *harvester.Controller, log logger.Logger) (harvester.Report, error) {
	onUser := controller.OnUser
	controller.OnUser = func(done, total int, res harvester.UserResult, err error) {
		onUser(done, total, res, err)
		dash.UserDone(done, res.UserID, res.Pages, res.Written, string(res.Stop), err)
	}

	wasQuiet := ui.IsQuietMode()
	ui.SetQuiet(true)
	defer ui.SetQuiet(wasQuiet)

	var (
		report harvester.Report
		runErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		report, runErr = controller.Run(ctx)
		dash.Finish(report.Files, report.Interrupted, runErr)
	}()

	if err := dash.Run(); err != nil {
		log.WithError(err).Warn("Dashboard stopped, harvest continues without it")
	}
	<-finished
	return report, runErr
}

// resolveCredentials prefers secrets from the config file or environment,
// then a named stored account, then the default stored account
func resolveCredentials(cfg *config.Config) (twitter.Credentials, string, error) {
	if account == "" && cfg.HasCredentials() {
		return twitter.Credentials{
			ConsumerKey:    cfg.Twitter.ConsumerKey,
			ConsumerSecret: cfg.Twitter.ConsumerSecret,
			AccessToken:    cfg.Twitter.AccessToken,
			AccessSecret:   cfg.Twitter.AccessSecret,
		}, "configuration", nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return twitter.Credentials{}, "", err
	}

	var acc *auth.Account
	if account != "" {
		acc, err = manager.Retrieve(account)
	} else {
		acc, err = manager.RetrieveDefault()
	}
	if err != nil {
		return twitter.Credentials{}, "", err
	}
	return acc.Credentials(), "account " + acc.Name, nil
}

// resolveUserIDs returns the configured ids followed by the ids of the users
// file, in order
func resolveUserIDs(cfg *config.Config) ([]int64, error) {
	ids := append([]int64(nil), cfg.Harvest.UserIDs...)
	if cfg.Harvest.UsersFile != "" {
		fromFile, err := userids.LoadFile(cfg.Harvest.UsersFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return nil, userids.ErrNoUsers
	}
	return ids, nil
}
