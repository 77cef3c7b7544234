// Package main implements the dfraws CLI: a thin cobra front end over
// the github.com/dfraws/dfraws library surface. Not part of the core
// ingestion/search scope (out of bounds per §1) — this is ambient
// tooling for exercising Parse and DbClient from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dfraws/dfraws"
	"github.com/dfraws/dfraws/internal/config"
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/search"
)

var (
	verbose    bool
	dbPath     string
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dfraws",
	Short: "Ingest and search Dwarf Fortress raws",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !cmd.Flags().Changed("db") && cfg.Database.Path != "" {
			dbPath = cfg.Database.Path
		}
		if !cmd.Flags().Changed("overwrite-raws") {
			overwriteRaws = cfg.Database.OverwriteRaws
		}
		if !cmd.Flags().Changed("vanilla") && cfg.Roots.Vanilla != "" {
			vanillaRoot = cfg.Roots.Vanilla
		}
		if !cmd.Flags().Changed("workshop") && cfg.Roots.Workshop != "" {
			workshopRoot = cfg.Roots.Workshop
		}
		if !cmd.Flags().Changed("installed") && cfg.Roots.Installed != "" {
			installedRoot = cfg.Roots.Installed
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	vanillaRoot string
	workshopRoot string
	installedRoot string
	resetDatabase bool
	overwriteRaws bool
	emitSummary   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse raw modules under the given location roots and persist them",
	RunE: func(cmd *cobra.Command, args []string) error {
		locationRoots := map[metadata.ModuleLocation][]string{}
		var locations []metadata.ModuleLocation
		if vanillaRoot != "" {
			locations = append(locations, metadata.LocationVanilla)
			locationRoots[metadata.LocationVanilla] = []string{vanillaRoot}
		}
		if workshopRoot != "" {
			locations = append(locations, metadata.LocationWorkshopMods)
			locationRoots[metadata.LocationWorkshopMods] = []string{workshopRoot}
		}
		if installedRoot != "" {
			locations = append(locations, metadata.LocationInstalledMods)
			locationRoots[metadata.LocationInstalledMods] = []string{installedRoot}
		}
		if len(locations) == 0 {
			return fmt.Errorf("no location roots given: pass at least one of --vanilla, --workshop, --installed")
		}

		result, err := dfraws.Parse(dfraws.Options{
			Locations:     locations,
			LocationRoots: locationRoots,
			EmitSummary:   emitSummary,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("parsing: %w", err)
		}

		client, overwrite, err := dfraws.OpenDbClient(dbPath, dfraws.InitDBOptions{
			ResetDatabase: resetDatabase,
			OverwriteRaws: overwriteRaws,
		}, logger)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer client.Close()

		if err := client.InsertParseResults(result, overwrite); err != nil {
			return fmt.Errorf("persisting parse results: %w", err)
		}

		fmt.Printf("parsed %d modules, %d creatures, %d other objects\n",
			len(result.Modules), len(result.Creatures), len(result.Others))
		return nil
	},
}

var (
	searchString    string
	identifierQuery string
	requiredFlags   []string
	favoritesOnly   bool
	pageLimit       uint32
	pageNumber      uint32
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a previously persisted raws database",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := dfraws.OpenDbClient(dbPath, dfraws.InitDBOptions{}, logger)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer client.Close()

		results, err := client.SearchRaws(search.Query{
			SearchString:    searchString,
			IdentifierQuery: identifierQuery,
			RequiredFlags:   requiredFlags,
			FavoritesOnly:   favoritesOnly,
			Limit:           pageLimit,
			Page:            pageNumber,
		})
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		fmt.Printf("%d of %d total matches\n", len(results.Matches), results.TotalCount)
		for _, m := range results.Matches {
			fmt.Printf("  id=%d bytes=%d\n", m.ID, len(m.Data))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "dfraws.sqlite3", "Path to the raws database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "dfraws.yaml", "Path to an optional YAML config file")

	parseCmd.Flags().StringVar(&vanillaRoot, "vanilla", "", "Vanilla raws root directory")
	parseCmd.Flags().StringVar(&workshopRoot, "workshop", "", "Steam Workshop mods root directory")
	parseCmd.Flags().StringVar(&installedRoot, "installed", "", "Installed mods root directory")
	parseCmd.Flags().BoolVar(&resetDatabase, "reset-database", false, "Drop and recreate the database schema before inserting the parsed raws")
	parseCmd.Flags().BoolVar(&overwriteRaws, "overwrite-raws", false, "Replace existing raws instead of skipping ones already stored")
	parseCmd.Flags().BoolVar(&emitSummary, "summary", true, "Log a summary after parsing")

	searchCmd.Flags().StringVar(&searchString, "text", "", "Full-text search string")
	searchCmd.Flags().StringVar(&identifierQuery, "identifier", "", "Identifier substring filter")
	searchCmd.Flags().StringSliceVar(&requiredFlags, "flag", nil, "Required flag (repeatable, AND-combined)")
	searchCmd.Flags().BoolVar(&favoritesOnly, "favorites-only", false, "Restrict to favorited identifiers")
	searchCmd.Flags().Uint32Var(&pageLimit, "limit", 50, "Page size")
	searchCmd.Flags().Uint32Var(&pageNumber, "page", 1, "Page number (1-indexed)")

	rootCmd.AddCommand(parseCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
