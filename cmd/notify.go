package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/finsight/finsight/internal/notify"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type notifyRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
}

var (
	flagNotifyAddr         string
	flagNotifyInterval     time.Duration
	flagNotifyLead         int
	flagNotifySensitivity  float64
	flagNotifyDetach       bool
	flagNotifyPIDFile      string
	flagNotifyLogFile      string
	flagNotifyEventsBuffer int
	flagNotifyChild        bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the reminder daemon with HTTP/SSE endpoints",
	RunE:  runNotify,
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runNotifyStatus,
}

var notifyStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runNotifyStop,
}

func init() {
	notifyCmd.PersistentFlags().StringVar(&flagNotifyAddr, "addr", "", "HTTP listen address (default: config listen_addr)")
	notifyCmd.PersistentFlags().DurationVar(&flagNotifyInterval, "interval", 0, "Polling interval (default: config poll_interval)")
	notifyCmd.PersistentFlags().StringVar(&flagNotifyPIDFile, "pid-file", "", "PID file path (default: <data-dir>/notifyd.pid)")
	notifyCmd.PersistentFlags().StringVar(&flagNotifyLogFile, "log-file", "", "Log file path for detached mode (default: <data-dir>/notifyd.log)")
	notifyCmd.PersistentFlags().IntVar(&flagNotifyEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	notifyCmd.Flags().IntVar(&flagNotifyLead, "lead", 0, "Days of lead time for reminders (default: config lead_days)")
	notifyCmd.Flags().Float64Var(&flagNotifySensitivity, "sensitivity", 0.5, "Anomaly detection sensitivity in [0, 1]")
	notifyCmd.Flags().BoolVar(&flagNotifyDetach, "detach", false, "Run daemon as a background process")
	notifyCmd.Flags().BoolVar(&flagNotifyChild, "child", false, "Internal: mark detached child process")
	_ = notifyCmd.Flags().MarkHidden("child")

	notifyCmd.AddCommand(notifyStatusCmd)
	notifyCmd.AddCommand(notifyStopCmd)
	rootCmd.AddCommand(notifyCmd)
}

func notifyPIDFile() string {
	if flagNotifyPIDFile != "" {
		return flagNotifyPIDFile
	}
	return filepath.Join(dataDir(), "notifyd.pid")
}

func notifyLogFile() string {
	if flagNotifyLogFile != "" {
		return flagNotifyLogFile
	}
	return filepath.Join(dataDir(), "notifyd.log")
}

func notifyAddr() string {
	if flagNotifyAddr != "" {
		return flagNotifyAddr
	}
	return loadCfg().Notify.ListenAddr
}

func notifyInterval() time.Duration {
	if flagNotifyInterval > 0 {
		return flagNotifyInterval
	}
	return loadCfg().Notify.PollDuration()
}

func notifyLead() int {
	if flagNotifyLead > 0 {
		return flagNotifyLead
	}
	return loadCfg().Notify.LeadDays
}

func runNotify(_ *cobra.Command, _ []string) error {
	if flagNotifyDetach && flagNotifyChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagNotifyDetach {
		return startNotifyDetached()
	}

	return runNotifyForeground()
}

func startNotifyDetached() error {
	pidFile := notifyPIDFile()
	logFile := notifyLogFile()

	if err := ensureDaemonNotRunning(pidFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started reminder daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidFile)
	fmt.Printf("  API: http://%s/v1/status\n", notifyAddr())
	fmt.Printf("  Log: %s\n", logFile)
	return nil
}

func runNotifyForeground() error {
	pidFile := notifyPIDFile()

	if err := ensureDaemonNotRunning(pidFile); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(pidFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	addr := notifyAddr()
	interval := notifyInterval()
	dir := dataDir()

	state := notifyRuntimeState{
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now(),
		DataDir:   dir,
	}
	_ = writeState(statePath(pidFile), state)
	defer func() { _ = os.Remove(statePath(pidFile)) }()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if flagNotifyChild {
		// Detached children log to the redirected file as JSON lines.
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	svc := notify.New(notify.Config{
		DataDir:      dir,
		LeadDays:     notifyLead(),
		Sensitivity:  flagNotifySensitivity,
		Interval:     interval,
		Addr:         addr,
		EventsBuffer: flagNotifyEventsBuffer,
		Logger:       logger,
	})

	fmt.Printf("  finsight reminder daemon listening on http://%s\n", addr)
	fmt.Printf("  Polling every %s from %s\n", interval, dir)
	fmt.Printf("  Stop with: finsight notify stop --pid-file %s\n", pidFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runNotifyStatus(_ *cobra.Command, _ []string) error {
	pidFile := notifyPIDFile()

	pid, err := readPID(pidFile)
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	alive := processAlive(pid)
	if !alive {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := notifyAddr()
	if st, err := readState(statePath(pidFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st notify.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Upcoming: %d payment(s), %.2f total\n", st.Summary.UpcomingCount, st.Summary.UpcomingTotal)
	fmt.Printf("  Anomalies: %d\n", st.Summary.AnomalyCount)
	fmt.Printf("  Month spend: %.2f\n", st.Summary.MonthSpend)
	if st.Summary.ChargesPosted > 0 {
		fmt.Printf("  Charges posted last poll: %d\n", st.Summary.ChargesPosted)
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runNotifyStop(_ *cobra.Command, _ []string) error {
	pidFile := notifyPIDFile()

	pid, err := readPID(pidFile)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			_ = os.Remove(statePath(pidFile))
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureDaemonNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st notifyRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (notifyRuntimeState, error) {
	var st notifyRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
