package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/display"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

// StoreCmd reads and writes raw record arrays
var StoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Read and write raw record arrays",
	Long: `Inspect or replace the JSON arrays quality modules keep under well-known keys.

Examples:
  kys store keys
  kys store get dofRecords
  kys store set suppliers suppliers.json`,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the records under a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeSetCmd = &cobra.Command{
	Use:   "set <key> <file.json>",
	Short: "Replace the records under a key with a JSON array from a file (- for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreSet,
}

var storeKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys each domain reads, and the keys present in the store",
	RunE:  runStoreKeys,
}

func init() {
	StoreCmd.AddCommand(storeGetCmd)
	StoreCmd.AddCommand(storeSetCmd)
	StoreCmd.AddCommand(storeKeysCmd)
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	value, ok, err := rt.kv.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewNotFoundError("key %q", args[0])
	}
	var pretty any
	if err := json.Unmarshal(value, &pretty); err != nil {
		// not JSON: print as stored
		_, err = cmd.OutOrStdout().Write(append(value, '\n'))
		return err
	}
	return display.OutputJSON(cmd.OutOrStdout(), pretty)
}

func runStoreSet(cmd *cobra.Command, args []string) error {
	key, path := args[0], args[1]
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return errors.WithHint(errors.Wrapf(errors.ErrInvalidRequest, "%s is not a JSON array: %v", path, err),
			"every store key holds an array of record objects")
	}

	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.adapter.Write(ctx, key, records); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printf("Wrote %d records to %s\n", len(records), key)
	return nil
}

func runStoreKeys(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	present := map[string]bool{}
	lister, canList := rt.kv.(recordstore.Lister)
	if canList {
		keys, err := lister.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			present[k] = true
		}
	}

	rows := [][]string{}
	for _, d := range domainsOf(rt.adapter) {
		for i, key := range rt.adapter.Keys(d) {
			records := len(rt.adapter.ReadKey(ctx, key))
			role := "fallback"
			if i == 0 {
				role = "primary"
			}
			rows = append(rows, []string{string(d), key, role, fmt.Sprint(records)})
			delete(present, key)
		}
	}
	if err := renderTable(cmd.OutOrStdout(), []string{"Domain", "Key", "Role", "Records"}, rows); err != nil {
		return err
	}
	if len(present) > 0 {
		pterm.Info.WithWriter(cmd.OutOrStdout()).Printf("%d other keys in the store are not read by any domain\n", len(present))
	}
	return nil
}
