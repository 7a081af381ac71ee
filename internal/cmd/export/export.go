// Package export implements the export subcommand, the main entry point
// for turning a password store into a CSV file.
package export

import (
	"os"

	"github.com/CompassSecurity/passcsv/pkg/export"
	"github.com/CompassSecurity/passcsv/pkg/format"
	"github.com/CompassSecurity/passcsv/pkg/gpg"
	"github.com/CompassSecurity/passcsv/pkg/logging"
	"github.com/CompassSecurity/passcsv/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML configuration file for extraction settings.
// Flags set on the command line take precedence over file values.
type fileConfig struct {
	LoginFields []string `yaml:"login_fields"`
	GetURL      *bool    `yaml:"get_url"`
	Exclude     []string `yaml:"exclude"`
}

var (
	options     = export.DefaultOptions()
	storeDir    string
	basePath    string
	outputPath  string
	configFile  string
	gpgBinary   string
	useAgent    bool
	maxFileSize string
)

func NewExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a password store to CSV",
		Long: `Decrypt every entry of a password store and write one CSV record per entry.

The default format has four columns: group, name, password, notes. With --kpx
the output grows to six columns (group, name, login, password, url, notes) and
login/url fields are pulled out of the notes, ready for the KeePassXC importer.

Logs go to stderr so the CSV can be piped or redirected safely.`,
		Example: `
# Export the default password store to stdout
passcsv export > passwords.csv

# Export in KeePassXC format with URL extraction
passcsv export --store ~/.password-store --kpx --get-url -o passwords.csv

# Only treat login and user as login fields and drop OTP seed lines from the notes
passcsv export -x -l login,user -e "^otpauth://" -o passwords.csv

# Export a store snapshot archive using 8 decryption threads
passcsv export --store backup.zip --threads 8 -o passwords.csv
		`,
		Run: Export,
	}

	exportCmd.Flags().StringVarP(&storeDir, "store", "s", store.DefaultPath(), "Path to the password store directory or a snapshot archive")
	exportCmd.Flags().StringVarP(&basePath, "base", "b", "", "Path prefix stripped when deriving the group, defaults to the store root")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the CSV to this file instead of stdout")
	exportCmd.Flags().BoolVarP(&options.KPX, "kpx", "x", false, "Use the KeePassXC format with login and url columns")
	exportCmd.Flags().StringSliceVarP(&options.Extract.LoginFields, "login-fields", "l", options.Extract.LoginFields, "Names of the fields to check for the login, first match wins")
	exportCmd.Flags().BoolVarP(&options.Extract.GetURL, "get-url", "u", false, "Pull an url field out of the notes")
	exportCmd.Flags().StringArrayVarP(&options.Extract.Exclude, "exclude", "e", nil, "Regexp of note lines to exclude, repeatable")
	exportCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML file with extraction settings (login_fields, get_url, exclude)")
	exportCmd.Flags().StringVar(&gpgBinary, "gpg-binary", "gpg", "Name or path of the gpg binary")
	exportCmd.Flags().BoolVar(&useAgent, "use-agent", false, "Pass --use-agent to gpg")
	exportCmd.Flags().StringVar(&options.Encoding, "encoding", "", "IANA character set for the CSV output, defaults to UTF-8")
	exportCmd.Flags().StringVar(&maxFileSize, "max-file-size", "", "Skip encrypted files larger than this size. Empty means no limit. Format: https://pkg.go.dev/github.com/docker/go-units#FromHumanSize")
	exportCmd.Flags().IntVarP(&options.Threads, "threads", "t", options.Threads, "Number of parallel gpg decryptions")

	return exportCmd
}

func Export(cmd *cobra.Command, args []string) {
	opts := options
	applyConfigFile(cmd, &opts)

	if basePath != "" {
		opts.Base = format.ExpandPath(basePath)
	}

	if maxFileSize != "" {
		size, err := format.ParseHumanSize(maxFileSize)
		if err != nil {
			log.Fatal().Err(err).Str("maxFileSize", maxFileSize).Msg("Invalid max file size")
		}
		opts.MaxFileSize = size
	}

	client, err := gpg.NewClient(gpgBinary, useAgent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed setting up gpg")
	}

	st, err := store.Open(format.ExpandPath(storeDir))
	if err != nil {
		log.Fatal().Err(err).Str("store", storeDir).Msg("Failed opening password store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed cleaning up extracted store")
		}
	}()

	exporter, err := export.New(st, client, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid export configuration")
	}

	logging.RegisterStatusHook(func() *zerolog.Event {
		return exporter.Status()
	})

	out := os.Stdout
	if outputPath != "" {
		// #nosec G304 - User-provided output path via --output flag, user controls their own filesystem
		f, err := os.OpenFile(format.ExpandPath(outputPath), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, format.FileUserReadWrite)
		if err != nil {
			log.Fatal().Err(err).Str("output", outputPath).Msg("Failed opening output file")
		}
		defer f.Close()
		out = f
	}

	stats, err := exporter.Run(cmd.Context(), out)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	log.Info().
		Int("records", stats.Records).
		Int("skipped", stats.Skipped).
		Int("warnings", stats.Warnings).
		Msg("Done, Bye Bye 🏳️‍🌈🔥")
}

func applyConfigFile(cmd *cobra.Command, opts *export.Options) {
	if configFile == "" {
		return
	}

	raw, err := os.ReadFile(format.ExpandPath(configFile))
	if err != nil {
		log.Fatal().Err(err).Str("config", configFile).Msg("Failed reading config file")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Fatal().Err(err).Str("config", configFile).Msg("Failed parsing config file")
	}

	flags := cmd.Flags()
	if len(fc.LoginFields) > 0 && !flags.Changed("login-fields") {
		opts.Extract.LoginFields = fc.LoginFields
	}
	if fc.GetURL != nil && !flags.Changed("get-url") {
		opts.Extract.GetURL = *fc.GetURL
	}
	if len(fc.Exclude) > 0 && !flags.Changed("exclude") {
		opts.Extract.Exclude = fc.Exclude
	}
}
