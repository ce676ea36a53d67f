package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/V4T54L/logviewer/internal/adapter/repository/filesystem"
	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/logquery"
	"github.com/V4T54L/logviewer/internal/pkg/logger"
	"github.com/V4T54L/logviewer/internal/usecase"
)

type filterFlags struct {
	search        string
	exclude       string
	levels        []string
	excludeLevels []string
	from          string
	fromTime      string
	to            string
	toTime        string
	sort          string
	column        string
	columnDir     string
	limit         int
}

func newFilterCmd(v *viper.Viper) *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "filter [files...]",
		Short: "Filter and sort log files",
		Long: `Read one or more log files (or glob patterns), filter the entries and
print them. Compressed .gz and .zst files are read transparently.

Examples:
  logq filter app.log --search 'disk "out of space" -tmp'
  logq filter "logs/**/*.log" --levels ERR,FATAL --from 2024-01-15
  logq filter app.log --column message --column-dir asc --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, v, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.search, "search", "s", "", "inclusion query")
	fl.StringVarP(&f.exclude, "exclude", "x", "", "exclusion query")
	fl.StringSliceVarP(&f.levels, "levels", "l", nil, "levels to keep ("+levelNames()+")")
	fl.StringSliceVar(&f.excludeLevels, "exclude-levels", nil, "levels to drop")
	fl.StringVar(&f.from, "from", "", "start date (2006-01-02)")
	fl.StringVar(&f.fromTime, "from-time", "", "start time of day (15:04[:05])")
	fl.StringVar(&f.to, "to", "", "end date, inclusive to the end of the day")
	fl.StringVar(&f.toTime, "to-time", "", "end time of day")
	fl.StringVar(&f.sort, "sort", "desc", "timestamp order: asc, desc")
	fl.StringVar(&f.column, "column", "", "column sort applied after filtering: timestamp, level, message")
	fl.StringVar(&f.columnDir, "column-dir", "desc", "column sort direction: asc, desc")
	fl.IntVarP(&f.limit, "limit", "n", 0, "print at most n entries (0 prints all)")

	return cmd
}

func runFilter(cmd *cobra.Command, v *viper.Viper, args []string, f filterFlags) error {
	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), v.GetString("log-level"), "text")

	opts, err := f.options(loc)
	if err != nil {
		return err
	}
	cs, err := f.columnSort()
	if err != nil {
		return err
	}
	renderer, err := newRenderer(v.GetString("output"), cmd.OutOrStdout(), len(args) > 1 || hasGlob(args))
	if err != nil {
		return err
	}

	groups, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	files, err := filesystem.NewLogFileRepository(v.GetStringSlice("patterns"), log)
	if err != nil {
		return err
	}
	uc := usecase.NewFilterLogsUseCase(nil, files, logquery.NewLineParser(loc), f.limit, nil, log)

	var all []domain.LogEntry
	for _, g := range groups {
		entries, _, err := uc.ReadEntries(cmd.Context(), domain.LogFolder{Name: g.dir, Path: g.dir}, g.names)
		if err != nil {
			return err
		}
		all = append(all, entries...)
	}

	result := uc.Apply(all, opts, cs)
	for _, e := range result.Entries {
		if err := renderer.Render(e); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d matching entries shown (%d read)\n", result.DisplayedCount, result.TotalCount, len(all))
	return nil
}

func (f filterFlags) options(loc *time.Location) (domain.FilterOptions, error) {
	opts := domain.NewFilterOptions()
	opts.SearchText = f.search
	opts.ExclusionText = f.exclude

	var err error
	if opts.Levels, err = parseLevelFlags(f.levels); err != nil {
		return opts, err
	}
	if opts.ExcludedLevels, err = parseLevelFlags(f.excludeLevels); err != nil {
		return opts, err
	}

	if opts.StartDate, err = dateFlag("from", f.from, loc); err != nil {
		return opts, err
	}
	if opts.EndDate, err = dateFlag("to", f.to, loc); err != nil {
		return opts, err
	}
	if opts.StartTime, err = timeFlag("from-time", f.fromTime); err != nil {
		return opts, err
	}
	if opts.EndTime, err = timeFlag("to-time", f.toTime); err != nil {
		return opts, err
	}

	if opts.SortDirection, err = parseDirection(f.sort); err != nil {
		return opts, err
	}
	return opts, nil
}

func (f filterFlags) columnSort() (domain.ColumnSort, error) {
	var cs domain.ColumnSort
	switch strings.ToLower(f.column) {
	case "":
		return cs, nil
	case "timestamp", "time":
		cs.Field = domain.SortFieldTimestamp
	case "level":
		cs.Field = domain.SortFieldLevel
	case "message":
		cs.Field = domain.SortFieldMessage
	default:
		return cs, fmt.Errorf("unknown column %q", f.column)
	}

	dir, err := parseDirection(f.columnDir)
	if err != nil {
		return cs, err
	}
	cs.Direction = dir
	return cs, nil
}

func parseDirection(s string) (domain.SortDirection, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return domain.SortAscending, nil
	case "desc", "descending", "":
		return domain.SortDescending, nil
	}
	return domain.SortDescending, fmt.Errorf("unknown sort direction %q", s)
}

func parseLevelFlags(names []string) ([]domain.Level, error) {
	var levels []domain.Level
	for _, n := range names {
		l, ok := domain.ParseLevel(strings.TrimSpace(n))
		if !ok {
			return nil, fmt.Errorf("unknown level %q (known levels: %s)", n, levelNames())
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func levelNames() string {
	levels := domain.Levels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ",")
}

func dateFlag(name, s string, loc *time.Location) (*time.Time, error) {
	d := logquery.ParseDate(s, loc)
	if d == nil && strings.TrimSpace(s) != "" {
		return nil, fmt.Errorf("invalid --%s date %q", name, s)
	}
	return d, nil
}

func timeFlag(name, s string) (*time.Duration, error) {
	d := logquery.ParseTimeOfDay(s)
	if d == nil && strings.TrimSpace(s) != "" {
		return nil, fmt.Errorf("invalid --%s time %q", name, s)
	}
	return d, nil
}

type fileGroup struct {
	dir   string
	names []string
}

// expandArgs resolves globs and groups files by directory, keeping the order
// in which directories first appear.
func expandArgs(args []string) ([]fileGroup, error) {
	var groups []fileGroup
	index := map[string]int{}
	seen := map[string]bool{}

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true

		dir, name := filepath.Split(path)
		if dir == "" {
			dir = "."
		}
		i, ok := index[dir]
		if !ok {
			i = len(groups)
			index[dir] = i
			groups = append(groups, fileGroup{dir: dir})
		}
		groups[i].names = append(groups[i].names, name)
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return groups, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func hasGlob(args []string) bool {
	for _, a := range args {
		if hasMeta(a) {
			return true
		}
	}
	return false
}
