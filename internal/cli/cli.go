// Package cli implements the sazito command-line interface, a thin shell
// over the storefront client for browsing a shop and managing the local
// session.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	sazito "github.com/Sazito/client-sdk"
	"github.com/Sazito/client-sdk/storage"
)

const appName = "sazito"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	domain     string
	baseURL    string
	redisURL   string
	stateDir   string
	debug      bool

	// newClient is replaced in tests.
	newClient func() (*sazito.Client, error)
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	c.newClient = c.buildClient
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.debug = level == log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Browse a Sazito storefront from the terminal",
		Version:      sazito.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(sazito.GetVersion() + "\n")

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML client configuration file")
	flags.StringVarP(&c.domain, "domain", "d", os.Getenv("SAZITO_DOMAIN"), "shop domain (env SAZITO_DOMAIN)")
	flags.StringVar(&c.baseURL, "base-url", "", "override the API base URL")
	flags.StringVar(&c.redisURL, "redis", os.Getenv("SAZITO_REDIS_URL"), "share the response cache through redis (env SAZITO_REDIS_URL)")
	flags.StringVar(&c.stateDir, "state-dir", "", "directory holding the session (default: user config dir)")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.productsCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.menuCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) buildClient() (*sazito.Client, error) {
	cfg := sazito.DefaultConfig()
	if c.configPath != "" {
		loaded, err := sazito.LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	dir, err := c.sessionDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewFile(dir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	opts := []sazito.Option{
		sazito.WithConfig(cfg),
		sazito.WithLogger(sdkLogger{c.Logger}),
		sazito.WithStorage(store),
		sazito.WithCookieStorage(storage.NewStorageCookies(store, nil)),
	}
	if c.domain != "" {
		opts = append(opts, sazito.WithDomain(c.domain))
	}
	if c.baseURL != "" {
		opts = append(opts, sazito.WithBaseURL(c.baseURL))
	}
	if c.debug {
		opts = append(opts, sazito.WithDebug())
	}
	if c.redisURL != "" {
		ropts, err := redis.ParseURL(c.redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = append(opts, sazito.WithCache(sazito.NewRedisCache(redis.NewClient(ropts), sazito.RedisCacheOptions{
			Prefix: appName + ":cache:",
			Logger: sdkLogger{c.Logger},
		})))
	}

	client := sazito.New(opts...)
	if !client.IsValid() {
		return nil, client.ValidationError()
	}
	return client, nil
}

// sessionDir returns where credentials and the auth token persist
// (~/.config/sazito/<domain> by default).
func (c *CLI) sessionDir() (string, error) {
	if c.stateDir != "" {
		return c.stateDir, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
	}
	domain := c.domain
	if domain == "" {
		domain = "default"
	}
	return filepath.Join(base, appName, domain), nil
}

// printResponse writes the payload as indented JSON or returns the failure.
func printResponse(w io.Writer, resp *sazito.Response) error {
	if !resp.OK() {
		return resp.Err
	}
	out, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
