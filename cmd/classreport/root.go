package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"classreport/internal/config"
	"classreport/internal/dataset"
	"classreport/internal/logging"
	"classreport/internal/record"
)

// app is the state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	cfg config.Config

	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "classreport",
		Short: "Confusion-matrix reports for classification test results",
		Long: `classreport aggregates classification records (expected vs actual class)
into confusion matrices with per-class precision and recall, broken down by
primary category and filterable by use case, scenario, vertical and factor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.Version = version

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default: $CLASSREPORT_CONFIG or ./classreport.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	root.AddCommand(
		newReportCmd(a),
		newExportCmd(a),
		newOptionsCmd(a),
		newRecordsCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

var errNoData = errors.New("no records: pass --data or set data_path")

// dataPath picks the flag value over the configured path.
func (a *app) dataPath(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.DataPath
}

// openStore returns a store preloaded from path. An empty path yields an
// empty store unless required is set.
func (a *app) openStore(path string, required bool) (*record.Store, error) {
	store := record.NewStore(a.cfg.Validator())
	if path == "" {
		if required {
			return nil, errNoData
		}
		return store, nil
	}
	records, err := dataset.Load(path, store.Validator())
	if err != nil {
		return nil, err
	}
	if err := store.Replace(records); err != nil {
		return nil, err
	}
	logging.New("cli").Debug("records loaded", "path", path, "count", len(records))
	return store, nil
}

// filterFlags are the dimension filters shared by report and export.
type filterFlags struct {
	values map[record.Dimension]*string
	status string
}

func addFilterFlags(cmd *cobra.Command) *filterFlags {
	ff := &filterFlags{values: make(map[record.Dimension]*string)}
	names := map[record.Dimension]string{
		record.UseCase:           "use-case",
		record.Scenario:          "scenario",
		record.Vertical:          "vertical",
		record.Factor:            "factor",
		record.FactorValue:       "factor-value",
		record.PrimaryCategory:   "primary-category",
		record.SecondaryCategory: "secondary-category",
	}
	for _, d := range record.Dimensions {
		v := new(string)
		ff.values[d] = v
		cmd.Flags().StringVar(v, names[d], "", fmt.Sprintf("Only records whose %s equals this value", d))
	}
	cmd.Flags().StringVar(&ff.status, "status", "", "Only records with this status (pass or fail)")
	return ff
}

func (ff *filterFlags) criteria() (*record.Criteria, error) {
	c := record.NewCriteria()
	for d, v := range ff.values {
		c.Where(d, *v)
	}
	s, err := record.ParseStatus(ff.status)
	if err != nil {
		return nil, err
	}
	return c.WithStatus(s), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "classreport %s\n", version)
		},
	}
}

func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
