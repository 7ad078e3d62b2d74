// Command caster-engine checks mapping files and shows the execution plans the engine builds
// for them.
//
//	caster-engine check --mapping map.yaml [--config caster.yaml]
//	caster-engine plan store.Order warehouse.Shipment [--dump]
package main

import (
	"fmt"
	"os"

	"caster-engine/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}

		os.Exit(1)
	}
}
