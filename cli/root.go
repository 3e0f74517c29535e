// Package cli implements the pivot command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"q.log/pivot/config"
	"q.log/pivot/logging"
	"q.log/pivot/metrics"
)

// Messages printed when a problem has no optimum.
var (
	ErrLPInfeasible  = errors.New("Linear program is INFEASIBLE!")
	ErrLPUnbounded   = errors.New("Linear program is UNBOUNDED!")
	ErrILPInfeasible = errors.New("ILP is INFEASIBLE!")
	ErrILPUnbounded  = errors.New("ILP is UNBOUNDED!")
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v         *viper.Viper
	cfg       config.Config
	log       logr.Logger
	collector *metrics.Collector
}

// NewRootCommand builds the command tree. Output goes to the writers set on
// the returned command.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "pivot",
		Short:         "Dictionary simplex, Gomory cutting-plane and interior point solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	if err := config.BindFlags(root.PersistentFlags(), a.v); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.simplexCommand(),
		a.ilpCommand(),
		a.interiorCommand(),
		a.convertCommand(),
	)
	return root
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logOut, cfg.Verbosity(), cfg.Development)
	a.collector = metrics.New()
	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg.MetricsOut == "" {
		return nil
	}
	f, err := os.Create(a.cfg.MetricsOut)
	if err != nil {
		return pkgerrors.Wrap(err, "metrics")
	}
	if err := a.collector.Write(f); err != nil {
		f.Close()
		return pkgerrors.Wrap(err, "metrics")
	}
	return f.Close()
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}
