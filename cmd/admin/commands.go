package main

import (
	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/auth"
	dashH "github.com/fekuna/omnipos-admin-console/internal/dashboard/handler"
	dashUCPkg "github.com/fekuna/omnipos-admin-console/internal/dashboard/usecase"
	homeH "github.com/fekuna/omnipos-admin-console/internal/homepage/handler"
	homeUCPkg "github.com/fekuna/omnipos-admin-console/internal/homepage/usecase"
	"github.com/fekuna/omnipos-admin-console/internal/journal"
	orderH "github.com/fekuna/omnipos-admin-console/internal/order/handler"
	orderUCPkg "github.com/fekuna/omnipos-admin-console/internal/order/usecase"
	prodH "github.com/fekuna/omnipos-admin-console/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-admin-console/internal/product/usecase"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Storefront admin console",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringP("output", "o", render.FormatYAML, "output format (yaml or json)")

	dashUC := dashUCPkg.NewDashboardUseCase(a.client, a.logger)
	homeUC := homeUCPkg.NewHomepageUseCase(a.client, a.observer, a.logger)
	prodUC := prodUCPkg.NewProductUseCase(a.client, a.redis, a.cfg.Redis.TTL, a.observer, a.logger)
	orderUC := orderUCPkg.NewOrderUseCase(a.client, a.session, a.observer, a.logger)

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		dashH.NewDashboardHandler(dashUC, a.logger).Command(),
		homeH.NewHomepageHandler(homeUC, a.logger).Command(),
		prodH.NewProductHandler(prodUC, a.logger).Command(),
		orderH.NewOrderHandler(orderUC, a.logger).Command(),
		a.journalCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) loginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			p, err := render.ForCommand(cmd)
			if err != nil {
				return err
			}

			admin, err := a.session.Login(cmd.Context(), a.client, email, password)
			if err != nil {
				return err
			}
			if !admin {
				// a non-admin token is kept but every screen stays closed
				return apperr.ForbiddenErr("Only admins can access the admin console")
			}
			p.Message("Logged in as %s", email)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (or ADMIN_PASSWORD)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if pw, _ := cmd.Flags().GetString("password"); pw == "" {
			_ = cmd.Flags().Set("password", a.cfg.Session.Password)
		}
	}
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			p, err := render.ForCommand(cmd)
			if err != nil {
				return err
			}
			p.Message("Logged out")
			return nil
		},
	}
}

type whoami struct {
	LoggedIn bool         `json:"loggedIn"`
	IsAdmin  bool         `json:"isAdmin"`
	Landing  auth.Route   `json:"landing"`
	Routes   []auth.Route `json:"routes"`
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session and the screens it can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := render.ForCommand(cmd)
			if err != nil {
				return err
			}
			out := whoami{
				LoggedIn: a.session.Token() != "",
				IsAdmin:  a.session.IsAdmin(),
				Landing:  a.session.Guard(auth.RouteRoot),
				Routes:   []auth.Route{},
			}
			if out.IsAdmin {
				out.Routes = auth.Routes
			}
			return p.Print(out)
		},
	}
}

func (a *app) journalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent mutation outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.recorder == nil {
				return apperr.InvalidErr("journal", "The mutation journal is disabled")
			}
			p, err := render.ForCommand(cmd)
			if err != nil {
				return err
			}
			f := &journal.Filters{}
			f.Feature, _ = cmd.Flags().GetString("feature")
			f.EntityID, _ = cmd.Flags().GetString("entity")
			f.Limit, _ = cmd.Flags().GetInt("limit")

			entries, err := a.recorder.Recent(cmd.Context(), f)
			if err != nil {
				return err
			}
			return p.Print(entries)
		},
	}
	cmd.Flags().String("feature", "", "only this feature (homepage, products, orders)")
	cmd.Flags().String("entity", "", "only this entity id")
	cmd.Flags().Int("limit", 20, "maximum entries")
	return cmd
}
