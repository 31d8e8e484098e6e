package handler

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/homepage"
	"github.com/fekuna/omnipos-admin-console/internal/homepage/dto"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type HomepageHandler struct {
	uc     homepage.UseCase
	logger logger.ZapLogger
}

func NewHomepageHandler(uc homepage.UseCase, log logger.ZapLogger) *HomepageHandler {
	return &HomepageHandler{
		uc:     uc,
		logger: log,
	}
}

type productRow struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Category string               `json:"category"`
	Brand    string               `json:"brand"`
	Pricing  *model.PriceSnapshot `json:"pricing,omitempty"`
}

type bannerRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
	Product     string `json:"product,omitempty"`
}

type homepageOutput struct {
	Banners  []bannerRow  `json:"banners"`
	Featured []productRow `json:"featured"`
	Offers   []productRow `json:"offers"`
}

func mapProductToRow(p model.Product) productRow {
	return productRow{ID: p.ID, Name: p.Name, Category: p.Category, Brand: p.Brand, Pricing: p.Pricing}
}

func mapBannerToRow(b model.Banner) bannerRow {
	row := bannerRow{ID: b.ID, Title: b.Title, Description: b.Description, Image: b.Image}
	if b.SearchProduct != nil {
		row.Product = b.SearchProduct.Name
	}
	return row
}

func mapProducts(list []model.Product) []productRow {
	rows := make([]productRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, mapProductToRow(p))
	}
	return rows
}

func (h *HomepageHandler) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homepage",
		Short: "Manage banners, featured products and today's offers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Require(cmd.Context(), auth.RouteHomepage); err != nil {
				return err
			}
			return h.uc.Load(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			h.uc.Close()
		},
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by name, category or brand",
		Args:  cobra.ExactArgs(1),
		RunE:  h.search,
	}
	search.Flags().String("region", homepage.RegionFeatured, "picker to search from")

	cmd.AddCommand(
		&cobra.Command{Use: "show", Short: "Show the homepage configuration", Args: cobra.NoArgs, RunE: h.show},
		search,
		h.bannerCommand(),
		h.listCommand("featured", "Featured products", h.uc.AddFeatured, h.uc.RemoveFeatured),
		h.listCommand("offers", "Today's offers", h.uc.AddOffer, h.uc.RemoveOffer),
	)
	return cmd
}

func (h *HomepageHandler) bannerCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "banner", Short: "Manage homepage banners"}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := bannerInput(cmd)
			if err != nil {
				return err
			}
			input.ProductID, _ = cmd.Flags().GetString("product")
			b, err := h.uc.AddBanner(cmd.Context(), input)
			return h.printBanner(cmd, b, err)
		},
	}
	bannerFlags(add)
	add.Flags().String("product", "", "id of the product the banner links to")

	update := &cobra.Command{
		Use:   "update <banner-id>",
		Short: "Edit a banner; the current image is kept unless --image is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := bannerInput(cmd)
			if err != nil {
				return err
			}
			b, err := h.uc.UpdateBanner(cmd.Context(), args[0], input)
			return h.printBanner(cmd, b, err)
		},
	}
	bannerFlags(update)

	cmd.AddCommand(
		add,
		update,
		&cobra.Command{
			Use:   "delete <banner-id>",
			Short: "Delete a banner (the last banner cannot be deleted)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := h.uc.DeleteBanner(cmd.Context(), args[0]); err != nil {
					return err
				}
				return h.show(cmd, nil)
			},
		},
		&cobra.Command{
			Use:   "attach <banner-id> <product-id>",
			Short: "Link a product to a banner",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := h.uc.AttachBannerProduct(cmd.Context(), args[0], args[1])
				return h.printBanner(cmd, b, err)
			},
		},
		&cobra.Command{
			Use:   "detach <banner-id>",
			Short: "Remove the product link from a banner",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := h.uc.DetachBannerProduct(cmd.Context(), args[0])
				return h.printBanner(cmd, b, err)
			},
		},
	)
	return cmd
}

func (h *HomepageHandler) listCommand(name, title string, add, remove func(ctx context.Context, productID string) error) *cobra.Command {
	cmd := &cobra.Command{Use: name, Short: "Manage " + title}
	run := func(op func(ctx context.Context, productID string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := op(cmd.Context(), args[0]); err != nil {
				return err
			}
			return h.show(cmd, nil)
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "add <product-id>", Short: "Add a product to " + title, Args: cobra.ExactArgs(1), RunE: run(add)},
		&cobra.Command{Use: "remove <product-id>", Short: "Remove a product from " + title, Args: cobra.ExactArgs(1), RunE: run(remove)},
	)
	return cmd
}

func bannerFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "banner title")
	cmd.Flags().String("description", "", "banner description")
	cmd.Flags().String("image", "", "path of an image file to upload")
}

func bannerInput(cmd *cobra.Command) (*dto.BannerInput, error) {
	input := &dto.BannerInput{}
	input.Title, _ = cmd.Flags().GetString("title")
	input.Description, _ = cmd.Flags().GetString("description")

	path, _ := cmd.Flags().GetString("image")
	if path == "" {
		return input, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.AppError{Kind: apperr.Invalid, Field: "image", PublicMsg: "Could not read image file", Err: err}
	}
	input.Image = &backend.ImageUpload{Filename: filepath.Base(path), Data: data}
	return input, nil
}

func (h *HomepageHandler) printBanner(cmd *cobra.Command, b *model.Banner, err error) error {
	if err != nil {
		return err
	}
	h.logger.Debug("banner saved", zap.String("banner_id", b.ID))
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(mapBannerToRow(*b))
}

func (h *HomepageHandler) show(cmd *cobra.Command, args []string) error {
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	hp := h.uc.View().Homepage
	out := homepageOutput{
		Banners:  make([]bannerRow, 0, len(hp.Banners)),
		Featured: mapProducts(hp.FeaturedProducts),
		Offers:   mapProducts(hp.TodayOffers),
	}
	for _, b := range hp.Banners {
		out.Banners = append(out.Banners, mapBannerToRow(b))
	}
	return p.Print(out)
}

func (h *HomepageHandler) search(cmd *cobra.Command, args []string) error {
	region, _ := cmd.Flags().GetString("region")
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(mapProducts(h.uc.SearchProducts(region, args[0])))
}
