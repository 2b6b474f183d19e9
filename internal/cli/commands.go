package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sazito "github.com/Sazito/client-sdk"
)

func (c *CLI) routeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Resolve a storefront URL path to its entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), client.EntityRoutes.Resolve(cmd.Context(), args[0]))
		},
	}
}

func (c *CLI) productsCommand() *cobra.Command {
	var (
		filters    sazito.ProductFilters
		categories string
		sort       string
	)

	cmd := &cobra.Command{
		Use:   "products [slug]",
		Short: "List products, or show one product by slug",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return printResponse(cmd.OutOrStdout(), client.Products.Get(cmd.Context(), args[0]))
			}

			if categories != "" {
				filters.Categories = strings.Split(categories, ",")
			}
			filters.Sort = sazito.ProductSort(sort)

			p := newProgress(c.Logger)
			resp := client.Products.List(cmd.Context(), filters)
			if resp.OK() {
				p.done("Fetched products")
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&categories, "categories", "", "comma separated category ids")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order")
	cmd.Flags().BoolVar(&filters.DiscountedOnly, "discounted", false, "only discounted products")
	cmd.Flags().IntVar(&filters.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filters.PageSize, "page-size", 20, "products per page")

	return cmd
}

func (c *CLI) searchCommand() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return printResponse(cmd.OutOrStdout(), client.Products.Search(cmd.Context(), query, page, pageSize))
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "results per page")
	return cmd
}

func (c *CLI) menuCommand() *cobra.Command {
	var identifier string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the header menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), client.Menu.HeaderMenu(cmd.Context(), identifier))
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "menu identifier")
	return cmd
}

func (c *CLI) loginCommand() *cobra.Command {
	var input sazito.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			resp := client.Users.Login(cmd.Context(), input)
			if !resp.OK() {
				return resp.Err
			}
			if !client.IsAuthenticated() {
				c.Logger.Warn("Login succeeded but no token was returned")
				return nil
			}
			c.Logger.Info("Logged in", "email", input.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *CLI) logoutCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			if all {
				client.ClearAll()
				c.Logger.Info("Cleared session, credentials and cache")
				return nil
			}
			client.Users.Logout()
			c.Logger.Info("Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also drop cart, invoice and payment credentials")
	return cmd
}

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.redisURL == "" {
				c.Logger.Info("Responses are cached in memory per invocation; nothing to clear")
				return nil
			}
			client, err := c.newClient()
			if err != nil {
				return err
			}
			client.ClearCache()
			c.Logger.Info("Cleared shared cache")
			return nil
		},
	})

	return cmd
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), sazito.GetVersion())
			return err
		},
	}
}
