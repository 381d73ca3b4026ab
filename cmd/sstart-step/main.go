package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	step "github.com/sstart-io/sstart-step"
	"github.com/sstart-io/sstart-step/binary"
	"github.com/sstart-io/sstart-step/envparse"
)

const (
	toolName = "sstart"

	// DefaultVersion is the release installed when the step doesn't pin one.
	DefaultVersion = "0.0.2"

	// releaseURL is the template the release archive is fetched from.
	// Artifacts follow the Os_Arch naming convention, e.g.
	// sstart_Darwin_amd64.tar.gz under the v-prefixed release tag.
	releaseURL = "https://github.com/sstart-io/sstart/releases/download/{{.Version}}/{{.Name}}_{{.Os}}_{{.Arch}}.tar.gz"

	// runSubcommand is the single fixed subcommand the tool is invoked with.
	// It reads the configuration file from the working directory implicitly
	// and authenticates against providers using the ambient environment.
	runSubcommand = "run"
)

const helpDescription = `Usage:

   sstart-step [options...]

Description:
   Runs the sstart secrets integration inside a CI pipeline.

   The step downloads the sstart release binary for the current platform,
   writes the supplied configuration to ` + step.ConfigFileName + ` in the working
   directory, runs ′sstart run′ and hands every resolved NAME=value pair to
   the hosting CI so subsequent steps see them as environment variables.

   Provider credentials are not handled here; sstart reads them from the
   ambient environment of the pipeline.

Example:
   $ SSTART_CONFIG="$(cat sstart.yml)" sstart-step --version-tag 0.0.2`

func main() {
	app := cli.NewApp()
	app.Name = "sstart-step"
	app.Usage = "Resolve secrets with sstart and export them to the pipeline"
	app.Description = helpDescription
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "Configuration content passed verbatim to sstart",
			EnvVar: "SSTART_CONFIG",
		},
		cli.StringFlag{
			Name:   "version-tag",
			Usage:  "sstart release version to install",
			EnvVar: "SSTART_VERSION",
			Value:  DefaultVersion,
		},
		cli.StringFlag{
			Name:   "install-dir",
			Usage:  "Directory the sstart binary is installed into",
			EnvVar: "SSTART_INSTALL_DIR",
			Value:  "./bin",
		},
		cli.StringFlag{
			Name:   "export-file",
			Usage:  "File the resolved variables are appended to as NAME=value lines; stdout when empty",
			EnvVar: "SSTART_EXPORT_FILE",
		},
		cli.DurationFlag{
			Name:   "run-timeout",
			Usage:  "How long the sstart subprocess may run before being killed; 0 disables the limit",
			EnvVar: "SSTART_RUN_TIMEOUT",
			Value:  10 * time.Minute,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		color.Red("sstart-step: %s", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	config := c.String("config")
	if strings.TrimSpace(config) == "" {
		return fmt.Errorf("config must be set")
	}

	version := c.String("version-tag")

	tool, err := binary.New(
		toolName,
		version,
		releaseURL,
		binary.WithInstallDir(c.String("install-dir")),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout := c.Duration("run-timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var result *step.Result

	pipeline := step.NewPipeline(
		tool.Ensure,
		func(context.Context) error {
			step.LogStep(fmt.Sprintf("writing %s", step.ConfigFileName))
			return step.MaterializeConfig(".", config)
		},
		func(ctx context.Context) error {
			res, err := step.Run(ctx, toolName, step.WithArgs(runSubcommand))
			if err != nil {
				return err
			}
			result = res
			return nil
		},
	)

	if err := pipeline.Execute(ctx); err != nil {
		return err
	}

	if envparse.Empty(result.Stdout) {
		step.LogWarn("sstart produced no output; no variables exported")
		return nil
	}

	vars := envparse.Parse(result.Stdout)

	if err := export(c.String("export-file"), vars); err != nil {
		return err
	}

	step.LogStep(fmt.Sprintf("exported %d variables", len(vars)))
	return nil
}

// export hands the resolved variables to the hosting CI layer, either through
// the configured env file or on stdout.
func export(path string, vars []envparse.Var) error {
	if path == "" {
		return step.WriteExports(os.Stdout, vars)
	}
	return step.AppendExports(path, vars)
}
