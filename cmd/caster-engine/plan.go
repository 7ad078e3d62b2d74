package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"caster-engine/engine"
	"caster-engine/internal/errors"
)

type planOptions struct {
	dump bool
}

func newPlanCmd(a *app) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan <source> <target>",
		Short: "Show the execution plan for a source and target type",
		Example: `  caster-engine plan store.Order warehouse.Shipment
  caster-engine plan --dump "[]store.OrderItem" "[]warehouse.Line"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plan(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the plan structure")

	return cmd
}

// memberView is the printable form of a bound member.
type memberView struct {
	Name        string
	From        string
	Source      string
	Destination string
	Ignored     bool
	Rule        string
}

type planView struct {
	Request  string
	Strategy string
	Rule     string
	Mapper   string
	Members  []memberView
}

func (a *app) plan(out io.Writer, source, target string, opts planOptions) error {
	src, ok := a.registry.Lookup(source)
	if !ok {
		return errors.WithHintf(errors.Newf("unknown source type %q", source), "known types: %v", a.registry.Types())
	}

	dst, ok := a.registry.Lookup(target)
	if !ok {
		return errors.WithHintf(errors.Newf("unknown target type %q", target), "known types: %v", a.registry.Types())
	}

	e, err := a.engine()
	if err != nil {
		return err
	}

	p, err := e.ExecutionPlan(engine.NewMapRequest(engine.TypePair{Source: src, Destination: dst}))
	if err != nil {
		return err
	}

	view := describePlan(p)

	if opts.dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(out, view)

		return nil
	}

	fmt.Fprintln(out, p)

	for _, m := range view.Members {
		switch {
		case m.Ignored:
			fmt.Fprintf(out, "  %s: ignored\n", m.Name)
		case m.Rule != "":
			fmt.Fprintf(out, "  %s <- %s (%s via %s)\n", m.Name, m.From, m.Source, m.Rule)
		default:
			fmt.Fprintf(out, "  %s <- %s (%s -> %s)\n", m.Name, m.From, m.Source, m.Destination)
		}
	}

	return nil
}

func describePlan(p *engine.ExecutionPlan) planView {
	view := planView{
		Request:  p.Request.String(),
		Strategy: p.Strategy.String(),
		Mapper:   p.Mapper,
	}

	if p.TypeMap == nil {
		return view
	}

	view.Rule = p.TypeMap.String()

	for _, m := range p.TypeMap.Members() {
		mv := memberView{
			Name:        m.Name,
			From:        m.SourcePath,
			Destination: m.DestinationType.String(),
			Ignored:     m.Ignored,
		}

		if m.SourceType != nil {
			mv.Source = m.SourceType.String()
		}

		if m.Nested != nil {
			mv.Rule = m.Nested.String()
		}

		view.Members = append(view.Members, mv)
	}

	return view
}
