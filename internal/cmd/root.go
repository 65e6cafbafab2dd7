package cmd

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-stepparams/internal/config"
	"github.com/askiada/go-stepparams/internal/logging"
	"github.com/askiada/go-stepparams/pkg/pipeline"
)

type app struct {
	fs     afero.Fs
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the stepparams command tree working on fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{
		fs: fs,
		v:  config.NewViper(),
	}

	rootCmd := &cobra.Command{
		Use:   "stepparams",
		Short: "Read and update the parameters of a pipeline step",
		Long: `stepparams reads the pipeline description document and gives access to the
parameters of the step currently executing. The step is identified by
ORCHEST_STEP_UUID, or by the file it executes (ORCHEST_STEP_FILE_PATH).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file")
	flags.StringP("pipeline-path", "p", "", "pipeline description document (env ORCHEST_PIPELINE_PATH)")
	flags.String("step-uuid", "", "UUID of the current step (env ORCHEST_STEP_UUID)")
	flags.String("step-file-path", "", "file executed by the current step (env ORCHEST_STEP_FILE_PATH)")
	flags.String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR (env ORCHEST_LOG_LEVEL)")

	_ = a.v.BindPFlag(config.KeyPipelinePath, flags.Lookup("pipeline-path"))
	_ = a.v.BindPFlag(config.KeyStepUUID, flags.Lookup("step-uuid"))
	_ = a.v.BindPFlag(config.KeyStepFilePath, flags.Lookup("step-file-path"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newGetCommand(a),
		newUpdateCommand(a),
		newGraphCommand(a),
	)

	return rootCmd
}

// Execute runs the command line tool against the OS filesystem.
func Execute() error {
	return NewRootCommand(afero.NewOsFs()).Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	a.cfg, err = config.Load(a.v, configFile)
	if err != nil {
		return err
	}

	a.logger = logging.New(cmd.ErrOrStderr(), a.cfg.LogLevel)
	a.logger.Debug("configuration loaded",
		slog.String("pipeline_path", a.cfg.PipelinePath),
		slog.String("step_uuid", a.cfg.StepUUID),
		slog.String("step_file_path", a.cfg.StepFilePath),
	)

	return nil
}

func (a *app) client() *pipeline.Client {
	return pipeline.New(a.cfg.PipelinePath, a.cfg.ExecContext(),
		pipeline.WithFs(a.fs),
		pipeline.WithLogger(a.logger),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
