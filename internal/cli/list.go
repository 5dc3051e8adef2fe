package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/km/internal/ui"
	"github.com/rileyhilliard/km/internal/util"
)

// listCommand scans the key directory and prints every valid pair.
func listCommand(cmd *cobra.Command) error {
	records, err := current.store.Scan(cmd.Context())
	if err != nil {
		return err
	}

	// Directory enumeration order isn't stable; names are.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name() < records[j].Name()
	})

	if machineMode {
		return WriteJSONSuccess(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Printf("No keys in %s\n", current.store.Dir())
		fmt.Println("Generate one: km generate")
		return nil
	}

	fmt.Println(ui.RenderKeyTable(records))
	fmt.Printf("%d %s in %s\n",
		len(records),
		util.Pluralize(len(records), "key", "keys"),
		current.store.Dir())
	return nil
}
