package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsndl/EditIndexHelper/internal/version"
	"github.com/jrsndl/EditIndexHelper/pkg/logging"
	"github.com/jrsndl/EditIndexHelper/pkg/pipeline"
	"github.com/jrsndl/EditIndexHelper/pkg/prefs"
)

var (
	verbosity int
	csvRoot   string
	mediaRoot string
	prefsPath string

	rootCmd = &cobra.Command{
		Use:   "editindexhelper",
		Short: "Match edit index csv lines to media files and export EDLs",
		Long: `editindexhelper reads Edit Index csv files exported from an editorial
timeline, finds media files on disk, matches media to csv lines through
configurable regex rules, and writes EDLs for the matches.

Without flags, the csv and media root folders are read from the
preferences file next to the executable.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().StringVarP(&csvRoot, "index-root", "i", "", "Root folder for Edit Index csv file(s)")
	rootCmd.Flags().StringVarP(&mediaRoot, "media-root", "m", "", "Root folder for media files")
	rootCmd.Flags().StringVarP(&prefsPath, "prefs", "p", "", "Path to preferences file (default: prefs.json next to the executable)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genConfigCmd)
	rootCmd.AddCommand(docsCmd)
}

func run(cmd *cobra.Command, args []string) error {
	p, err := loadPrefs()
	if err != nil {
		log.Error().Err(err).Msg("Preferences not usable, exiting")
		return err
	}

	// Command line root folders take precedence over the preferences.
	if csvRoot != "" {
		p.SearchCSV.RootFolder = csvRoot
	}
	if mediaRoot != "" {
		p.SearchMedia.RootFolder = mediaRoot
	}
	log.Info().
		Str("csv", p.SearchCSV.RootFolder).
		Str("media", p.SearchMedia.RootFolder).
		Msg("Starting run")

	runner, err := pipeline.New(p)
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid, exiting")
		return err
	}

	result, err := runner.Run(cmd.Context())
	if result != nil {
		fmt.Print(pipeline.Summary(result))
	}
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		return err
	}
	return nil
}

// loadPrefs loads the preferences from --prefs, or from prefs.json
// next to the executable when the flag is unset.
func loadPrefs() (*prefs.Prefs, error) {
	path := prefsPath
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(exe), "prefs.json")
	}
	return prefs.Load(path)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("editindexhelper version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
