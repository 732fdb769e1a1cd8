package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kazu728/reauthfi/internal/config"
	"github.com/kazu728/reauthfi/internal/logging"
	"github.com/kazu728/reauthfi/internal/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the JSON debug log written when logging.enabled is true.

Examples:
  # Show the last 50 entries
  reauthfi logs

  # Only warnings and errors from the last hour
  reauthfi logs --level warn --since 1h

  # Follow the log while reauthfi runs in another terminal
  reauthfi logs -f

  # Search messages and fields
  reauthfi logs --grep "gateway|wifi"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time  time.Time      `json:"time"`
	Level string         `json:"level"`
	Msg   string         `json:"msg"`
	Phase string         `json:"phase,omitempty"`
	Extra map[string]any `json:"-"`
}

// UnmarshalJSON captures fields other than the known ones in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "phase"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter selects which entries are shown.
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

func newLogFilter(level, since, grep string) (logFilter, error) {
	f := logFilter{minLevel: -1}

	if level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(level))
	}

	if since != "" {
		d, err := time.ParseDuration(since)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-d)
	}

	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}
	if f.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}

// logFormatter renders entries with the console palette.
type logFormatter struct {
	p styles.Palette
}

func (lf logFormatter) levelStyle(level string) string {
	upper := strings.ToUpper(level)
	tag := "[" + upper + "]"
	switch upper {
	case logging.LevelDebug:
		return lf.p.Muted.Render(tag)
	case logging.LevelInfo:
		return lf.p.Header.Render(tag)
	case logging.LevelWarn:
		return lf.p.Warning.Render(tag)
	case logging.LevelError:
		return lf.p.Failure.Render(tag)
	default:
		return tag
	}
}

// format renders one entry; extra fields are sorted by key.
func (lf logFormatter) format(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(lf.p.Muted.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(lf.levelStyle(entry.Level))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Phase != "" {
		sb.WriteString(" ")
		sb.WriteString(lf.p.Bullet.Render("phase=" + entry.Phase))
	}

	for _, key := range slices.Sorted(maps.Keys(entry.Extra)) {
		sb.WriteString(" ")
		sb.WriteString(lf.p.Bullet.Render(key + "="))
		sb.WriteString(fmt.Sprintf("%v", entry.Extra[key]))
	}

	return sb.String()
}

// render parses one line. Lines that are not JSON pass through unchanged.
func (lf logFormatter) render(line string, f logFilter) (string, bool) {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !f.passes(&entry) {
		return "", false
	}
	return lf.format(&entry), true
}

func runLogs(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logPath := cfg.Logging.ResolveFile()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No log file at %s\n", logPath)
		if !cfg.Logging.Enabled {
			fmt.Fprintln(out, "Enable it with: reauthfi config set logging.enabled true")
		}
		return nil
	}

	filter, err := newLogFilter(logsLevel, logsSince, logsGrep)
	if err != nil {
		return err
	}
	lf := logFormatter{p: styles.New(out, cfg.UI.Color)}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return followLogs(ctx, out, logPath, lf, filter)
	}
	return displayLogs(out, logPath, logsTail, lf, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(out io.Writer, logPath string, tail int, lf logFormatter, f logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if rendered, ok := lf.render(line, f); ok {
			entries = append(entries, rendered)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}

	return nil
}

// followLogs implements tail -f behavior until ctx is canceled.
func followLogs(ctx context.Context, out io.Writer, logPath string, lf logFormatter, f logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", logPath)

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rendered, ok := lf.render(line, f); ok {
			fmt.Fprintln(out, rendered)
		}
	}
}
