package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openboardtools/eaglesch/pkg/library"
)

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Symbol library store operations",
	Long:  `Commands for inspecting the symbol library store built from imported schematics.`,
}

var libListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored libraries",
	Args:  cobra.NoArgs,
	RunE:  runLibList,
}

var libFindCmd = &cobra.Command{
	Use:   "find <text>",
	Short: "Search stored parts by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibFind,
}

func init() {
	libCmd.AddCommand(libListCmd)
	libCmd.AddCommand(libFindCmd)
	rootCmd.AddCommand(libCmd)
}

func runLibList(cmd *cobra.Command, args []string) error {
	store, err := library.Open(storeDir())
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.Names()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		lib, err := store.Library(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%d parts)\n", name, lib.Len())
	}
	return nil
}

func runLibFind(cmd *cobra.Command, args []string) error {
	store, err := library.Open(storeDir())
	if err != nil {
		return err
	}
	defer store.Close()

	refs, err := store.Find(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(refs) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for _, ref := range refs {
		fmt.Fprintf(out, "%s/%s\n", ref.Library, ref.Part)
	}
	return nil
}
