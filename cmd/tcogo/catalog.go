package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dbPath string

func currentCatalog() (*catalog.Dataset, error) {
	path := catalogPath
	if path == "" {
		path = settings.Catalog
	}
	return catalog.Load(path)
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the vendors in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := currentCatalog()
		if err != nil {
			return err
		}
		profiles, err := ds.Profiles(nil)
		if err != nil {
			return err
		}

		if f := strings.ToLower(outputFormat()); f == output.FormatJSON || f == output.FormatYAML {
			summaries := make([]map[string]string, 0, len(profiles))
			for _, id := range ds.VendorIDs() {
				p := profiles[id]
				summaries = append(summaries, map[string]string{
					"id":           p.ID,
					"name":         p.Name,
					"architecture": string(p.Architecture),
					"pricingModel": string(p.Licensing.Model),
				})
			}
			text, err := output.Format(summaries, f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tARCHITECTURE\tPRICING")
		for _, id := range ds.VendorIDs() {
			p := profiles[id]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Architecture, p.Licensing.Model)
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "INDUSTRY\tFRAMEWORKS")
		for _, name := range ds.IndustryNames() {
			fws := ds.FrameworksFor(name)
			names := make([]string, len(fws))
			for i, fw := range fws {
				names[i] = string(fw)
			}
			fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(names, ", "))
		}
		return tw.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file and resolve the vendors it selects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnalysis(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d vendors, %d frameworks)\n",
			args[0], len(a.ids), len(a.cfg.ComplianceFrameworksRequired))
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the vendor reference catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [dataset-file]",
	Short: "Import a YAML/JSON dataset (or the built-in one) into a SQLite catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := ""
		if len(args) == 1 {
			src = args[0]
		}
		ds, err := catalog.Load(src)
		if err != nil {
			return err
		}
		// every record must resolve before it is stored
		if _, err := ds.Profiles(nil); err != nil {
			return err
		}

		target := dbPath
		if target == "" {
			target = settings.Database
		}
		store, err := catalog.OpenStore(target)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Import(ds)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported into %s: %d inserted, %d updated\n", target, stats.Inserts, stats.Updates)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the current catalog as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := currentCatalog()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	catalogImportCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from settings, tcogo.db)")
	catalogCmd.AddCommand(catalogImportCmd, catalogExportCmd)
}
