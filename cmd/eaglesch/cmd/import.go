package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/eagle/importer"
	"github.com/openboardtools/eaglesch/pkg/library"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

var importProjectName string

var importCmd = &cobra.Command{
	Use:   "import <schematic.sch>",
	Short: "Import an Eagle schematic",
	Long: `Convert an Eagle XML schematic file into the internal schematic
model. The symbols resolved during the import are saved into the library
store.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importProjectName, "project", "", "companion library name (default: file base name)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !eagle.CheckHeader(path) {
		return fmt.Errorf("%s is not an Eagle schematic", path)
	}

	store, err := library.Open(storeDir())
	if err != nil {
		return err
	}
	defer store.Close()

	libs := &schematic.LibrarySet{}
	im := importer.New(importer.Options{
		ProjectName: importProjectName,
		Writer:      store,
		Libraries:   libs,
		Logger:      logger(),
	})

	root, err := im.ImportFile(path, nil)
	if err != nil {
		return err
	}

	printImportSummary(cmd, root, im.PartLibrary())
	return nil
}

func printImportSummary(cmd *cobra.Command, root *schematic.Sheet, lib *schematic.Library) {
	var components, wires, buses, junctions, labels, globals, entries, markers, sheets int

	var count func(s *schematic.Sheet)
	count = func(s *schematic.Sheet) {
		for _, it := range s.Screen.Items() {
			switch v := it.(type) {
			case *schematic.Component:
				components++
			case *schematic.Line:
				if v.Layer == schematic.LayerBus {
					buses++
				} else if v.Layer == schematic.LayerWire {
					wires++
				}
			case *schematic.Junction:
				junctions++
			case *schematic.Label:
				labels++
			case *schematic.GlobalLabel:
				globals++
			case *schematic.BusEntry:
				entries++
			case *schematic.Marker:
				markers++
			case *schematic.Sheet:
				sheets++
				count(v)
			}
		}
	}
	count(root)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported: %s\n", root.FileName)
	if sheets > 0 {
		fmt.Fprintf(out, "  Sheets: %d\n", sheets)
	}
	fmt.Fprintf(out, "  Components: %d\n", components)
	fmt.Fprintf(out, "  Symbols: %d\n", lib.Len())
	fmt.Fprintf(out, "  Wires: %d\n", wires)
	fmt.Fprintf(out, "  Buses: %d\n", buses)
	fmt.Fprintf(out, "  Junctions: %d\n", junctions)
	fmt.Fprintf(out, "  Labels: %d (local) %d (global)\n", labels, globals)
	fmt.Fprintf(out, "  Bus entries: %d\n", entries)
	if markers > 0 {
		fmt.Fprintf(out, "  Markers: %d (review needed)\n", markers)
	}
}
