package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wiki2md/internal/fetch"
	"github.com/pdiddy/wiki2md/internal/httputil"
	"github.com/pdiddy/wiki2md/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "wiki2md/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Fetch a page and write its Markdown rendition",
	Long: `Fetch resolves the page URL to a page id or a space-and-title pair, retrieves
the page over the content REST API, converts the HTML body to Markdown, and
writes {title}.md plus a metadata record. Referenced images and draw.io
diagrams are downloaded into the images directory, which is cleared of files
at the start of each run.

Recognized URL shapes:

  .../pages/viewpage.action?pageId=123
  .../pages/viewpage.action?spaceKey=KEY&title=My+Page
  .../display/KEY/My+Page
  .../wiki/spaces/KEY/pages/123/My+Page`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("url", "", "page URL (default: PAGE_URL environment variable)")
	fetchCmd.Flags().String("token", "", "bearer token (default: BEARER_TOKEN environment variable)")
	fetchCmd.Flags().String("output-dir", ".", "directory the Markdown file is written to")
	fetchCmd.Flags().String("images-dir", "images", "directory downloaded assets are written to")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Bool("insecure", false, "disable TLS certificate verification")
	fetchCmd.Flags().Bool("metadata", true, "write a metadata record beside the Markdown file")
	fetchCmd.Flags().Bool("manual", false, "force interactive prompts for the page URL and bearer token, even if environment variables are set")

	// Config-file keys of the same names apply when the flag is not given.
	for _, name := range []string{"output-dir", "images-dir", "timeout", "insecure", "metadata"} {
		_ = viper.BindPFlag(name, fetchCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	manual, _ := cmd.Flags().GetBool("manual")
	var argURL string
	if len(args) > 0 {
		argURL = args[0]
	}
	flagURL, _ := cmd.Flags().GetString("url")
	flagToken, _ := cmd.Flags().GetString("token")

	pageURL, token, err := resolveInputs(argURL, flagURL, flagToken, manual)
	if err != nil {
		return err
	}

	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	insecure := viper.GetBool("insecure")
	outputDir := viper.GetString("output-dir")
	imagesDir := viper.GetString("images-dir")
	writeMetadata := viper.GetBool("metadata")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
			Insecure:  insecure,
		},
		OutputDir:     outputDir,
		ImagesDir:     imagesDir,
		WriteMetadata: writeMetadata,
	}

	client := httputil.NewClient(cfg.Timeout, cfg.Insecure)
	return fetch.Run(client, pageURL, token, cfg, os.Stdout)
}

// Prompt functions are variables so tests can substitute them.
var (
	promptURLFn   = promptURL
	promptTokenFn = promptToken
)

// resolveInputs determines the page URL and bearer token. Manual mode forces
// interactive prompts and ignores the argument, flags, and environment, even
// when they are set. Otherwise the URL comes from the argument, the --url
// flag, then the environment (PAGE_URL, a .env file counts), and the token
// from the --token flag, then the environment (BEARER_TOKEN). Missing inputs
// are fatal.
func resolveInputs(argURL, flagURL, flagToken string, manual bool) (pageURL, token string, err error) {
	if manual {
		if pageURL, err = promptURLFn(); err != nil {
			return "", "", err
		}
		if token, err = promptTokenFn(); err != nil {
			return "", "", err
		}
	} else {
		pageURL = argURL
		if pageURL == "" {
			pageURL = flagURL
		}
		if pageURL == "" {
			pageURL = envDefault("PAGE_URL")
		}
		token = flagToken
		if token == "" {
			token = envDefault("BEARER_TOKEN")
		}
	}

	if pageURL == "" || token == "" {
		fmt.Fprintln(os.Stderr, "No environment variables found.")
		fmt.Fprintln(os.Stderr, "Please set the PAGE_URL and BEARER_TOKEN environment variables or use --manual.")
		return "", "", fmt.Errorf("page URL and bearer token are required")
	}
	return pageURL, token, nil
}

// envDefault reads a plain environment variable, falling back to the
// WIKI2MD-prefixed viper key of the same name.
func envDefault(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return viper.GetString(name)
}
