package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caster-engine/engine"
	"caster-engine/internal/config"
	"caster-engine/internal/errors"
	"caster-engine/internal/mapping"
	"caster-engine/mappers"
)

// app is the state shared by the subcommands.
type app struct {
	configPath  string
	mappingPath string

	settings *config.Settings
	log      *zap.Logger
	registry *mapping.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{registry: catalog()}

	root := &cobra.Command{
		Use:   "caster-engine",
		Short: "Check object mapping rules and inspect their execution plans",
		Long: `caster-engine loads mapping rules from YAML, builds the mapping engine from them
and reports what it found.

Without --mapping the built-in store -> warehouse demo rules are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "settings file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&a.mappingPath, "mapping", "", "mapping file")

	root.AddCommand(newCheckCmd(a), newPlanCmd(a))

	return root
}

func (a *app) init() error {
	settings, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	log, err := settings.Logger()
	if err != nil {
		return err
	}

	a.settings, a.log = settings, log

	return nil
}

func (a *app) mappingFile() (*mapping.MappingFile, error) {
	if a.mappingPath == "" {
		return mapping.Parse(demoMapping)
	}

	return mapping.LoadFile(a.mappingPath)
}

// engine builds the engine for the selected mapping file.
func (a *app) engine() (*engine.Engine, error) {
	mf, err := a.mappingFile()
	if err != nil {
		return nil, err
	}

	opts, err := a.settings.EngineOptions()
	if err != nil {
		return nil, err
	}

	opts = append(opts,
		engine.WithLogger(a.log),
		engine.WithObjectMappers(mappers.Flatten{}),
	)

	e, err := mapping.Engine(mf, a.registry, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build engine")
	}

	return e, nil
}
