package cli

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"q.log/pivot/crosscheck"
	"q.log/pivot/dictionary"
	"q.log/pivot/ilp"
	"q.log/pivot/instance"
	"q.log/pivot/interior"
	"q.log/pivot/report"
	"q.log/pivot/simplex"
)

// method is one way of solving a loaded instance together with the
// independent solver its result is checked against.
type method struct {
	solve     func(in *instance.Instance) (*report.Report, error)
	reference func(d *dictionary.Dictionary) (*crosscheck.Result, error)
}

func (a *app) simplexCommand() *cobra.Command {
	return a.solveCommand("simplex", "Solve a linear program with the two-phase dictionary simplex",
		method{solve: a.solveSimplex, reference: crosscheck.GLPK})
}

func (a *app) ilpCommand() *cobra.Command {
	return a.solveCommand("ilp", "Solve an integer program with Gomory cutting planes",
		method{solve: a.solveILP, reference: crosscheck.GLPKInteger})
}

func (a *app) interiorCommand() *cobra.Command {
	return a.solveCommand("interior", "Solve a linear program with the central path interior point method",
		method{solve: a.solveInterior, reference: crosscheck.Gonum})
}

func (a *app) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert FILE",
		Short: "Print the starting dictionary of a problem file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := instance.NewReader(args[0]).Read()
			if err != nil {
				return err
			}
			return instance.WriteDictionary(cmd.OutOrStdout(), in.Dictionary)
		},
	}
}

func (a *app) solveCommand(use, short string, m method) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if merr := a.writeMetrics(); err == nil {
					err = merr
				}
			}()

			in, err := instance.NewReader(args[0]).Read()
			if err != nil {
				return err
			}

			//the solvers modify the dictionary, the reference reads it first
			var ref *crosscheck.Result
			var refErr error
			if a.cfg.Crosscheck {
				ref, refErr = m.reference(in.Dictionary)
				if refErr != nil && !errors.Is(refErr, crosscheck.ErrInfeasible) && !errors.Is(refErr, crosscheck.ErrUnbounded) {
					return refErr
				}
			}

			start := time.Now()
			r, err := m.solve(in)
			if err != nil {
				return err
			}
			r.Elapsed = report.Duration(time.Since(start))

			if a.cfg.Crosscheck {
				if refErr != nil {
					return pkgerrors.Wrapf(crosscheck.ErrMismatch, "reference found no optimum: %v", refErr)
				}
				refObjective := in.Objective(ref.Objective)
				r.Reference = &refObjective
				if err := crosscheck.Compare(r.Objective, &crosscheck.Result{Objective: refObjective}); err != nil {
					return err
				}
			}

			a.log.Info("solved", "method", use, "elapsed", r.Elapsed.String())
			return r.Render(cmd.OutOrStdout(), a.cfg.Output)
		},
	}
}

func (a *app) solveSimplex(in *instance.Instance) (*report.Report, error) {
	s := simplex.New(in.Dictionary, a.simplexOptions()...)
	if err := s.Run(); err != nil {
		return nil, a.lpError(err)
	}

	r := report.New(report.Simplex, s.Status().String(), in.Objective(s.Objective()), s.Solution(), in.Names)
	r.Iterations = s.TotalIterations()
	return r, nil
}

func (a *app) solveILP(in *instance.Instance) (*report.Report, error) {
	s := ilp.New(in.Dictionary,
		ilp.WithLogger(a.log.WithName("ilp")),
		ilp.WithObserver(a.collector),
		ilp.WithMaxRounds(a.cfg.MaxRounds),
		ilp.WithSimplexOptions(a.simplexOptions()...))
	if err := s.Solve(); err != nil {
		return nil, a.ilpError(err)
	}

	r := report.New(report.ILP, s.Simplex().Status().String(), in.Objective(s.Objective()), s.Solution(), in.Names)
	r.Iterations = s.Rounds()
	r.Cuts = s.Cuts()
	return r, nil
}

func (a *app) solveInterior(in *instance.Instance) (*report.Report, error) {
	p, err := interior.FromDictionary(in.Dictionary)
	if err != nil {
		return nil, err
	}
	res, err := interior.New(p,
		interior.WithLogger(a.log.WithName("interior")),
		interior.WithMaxIterations(a.cfg.MaxInteriorIterations)).Solve()
	if err != nil {
		return nil, a.lpError(err)
	}

	objective := res.PrimalObjective + in.Dictionary.Objective()
	r := report.New(report.Interior, simplex.Optimal.String(), in.Objective(objective), res.X, in.Names)
	r.Iterations = res.Iterations
	return r, nil
}

func (a *app) simplexOptions() []simplex.Option {
	return []simplex.Option{
		simplex.WithLogger(a.log.WithName("simplex")),
		simplex.WithObserver(a.collector),
		simplex.WithMaxIterations(a.cfg.MaxIterations),
	}
}

func (a *app) lpError(err error) error {
	switch {
	case errors.Is(err, simplex.ErrInfeasible), errors.Is(err, interior.ErrInfeasible):
		a.log.V(1).Info("no optimum", "reason", err.Error())
		return ErrLPInfeasible
	case errors.Is(err, simplex.ErrUnbounded), errors.Is(err, interior.ErrUnbounded):
		a.log.V(1).Info("no optimum", "reason", err.Error())
		return ErrLPUnbounded
	}
	return err
}

func (a *app) ilpError(err error) error {
	switch {
	case errors.Is(err, ilp.ErrInfeasible):
		a.log.V(1).Info("no optimum", "reason", err.Error())
		return ErrILPInfeasible
	case errors.Is(err, ilp.ErrUnbounded):
		a.log.V(1).Info("no optimum", "reason", err.Error())
		return ErrILPUnbounded
	}
	return err
}
