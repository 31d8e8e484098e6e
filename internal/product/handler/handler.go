package handler

import (
	"os"
	"path/filepath"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/product"
	"github.com/fekuna/omnipos-admin-console/internal/product/dto"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

type productRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	SubCategory  string  `json:"subCategory"`
	CountInStock int     `json:"countInStock"`
	ShippingCost float64 `json:"shippingCost"`
	Rating       float64 `json:"rating"`
}

func mapProductToRow(p model.Product) productRow {
	return productRow{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		SubCategory:  p.SubCategory,
		CountInStock: p.CountInStock,
		ShippingCost: p.ShippingCost,
		Rating:       p.Rating,
	}
}

func (h *ProductHandler) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return auth.Require(cmd.Context(), auth.RouteProducts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			h.uc.Close()
		},
	}

	list := &cobra.Command{Use: "list", Short: "List products", Args: cobra.NoArgs, RunE: h.list}
	list.Flags().String("sort", "", "sort expression, e.g. -createdAt")
	list.Flags().Int("limit", 0, "maximum number of products")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product from a YAML form",
		Args:  cobra.NoArgs,
		RunE:  h.create,
	}
	formFlags(create)

	update := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Update a product from a YAML form",
		Long: `Update a product from a YAML form.

Current images are kept unless the form lists existingImages; new images are
added with --image. Use "products form <product-id>" to get a prefilled form.`,
		Args: cobra.ExactArgs(1),
		RunE: h.update,
	}
	formFlags(update)

	cmd.AddCommand(
		list,
		&cobra.Command{Use: "show <product-id>", Short: "Show a product", Args: cobra.ExactArgs(1), RunE: h.show},
		&cobra.Command{Use: "count", Short: "Count products", Args: cobra.NoArgs, RunE: h.count},
		&cobra.Command{Use: "form <product-id>", Short: "Print an editable form for a product", Args: cobra.ExactArgs(1), RunE: h.form},
		create,
		update,
		&cobra.Command{Use: "delete <product-id>", Short: "Delete a product", Args: cobra.ExactArgs(1), RunE: h.delete},
	)
	return cmd
}

func formFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "YAML product form")
	cmd.Flags().StringSlice("image", nil, "image file to upload (repeatable)")
	_ = cmd.MarkFlagRequired("file")
}

func readInput(cmd *cobra.Command) (*dto.ProductInput, error) {
	path, _ := cmd.Flags().GetString("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.AppError{Kind: apperr.Invalid, Field: "file", PublicMsg: "Could not read product form", Err: err}
	}
	var input dto.ProductInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, &apperr.AppError{Kind: apperr.Invalid, Field: "file", PublicMsg: "Product form is not valid YAML", Err: err}
	}

	images, _ := cmd.Flags().GetStringSlice("image")
	for _, img := range images {
		data, err := os.ReadFile(img)
		if err != nil {
			return nil, &apperr.AppError{Kind: apperr.Invalid, Field: "images", PublicMsg: "Could not read image " + img, Err: err}
		}
		input.NewImages = append(input.NewImages, backend.ImageUpload{Filename: filepath.Base(img), Data: data})
	}
	return &input, nil
}

func (h *ProductHandler) list(cmd *cobra.Command, args []string) error {
	filters := &dto.ProductFilters{}
	filters.SortBy, _ = cmd.Flags().GetString("sort")
	filters.Limit, _ = cmd.Flags().GetInt("limit")

	products, err := h.uc.ListProducts(cmd.Context(), filters)
	if err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	rows := make([]productRow, 0, len(products))
	for _, pr := range products {
		rows = append(rows, mapProductToRow(pr))
	}
	return p.Print(rows)
}

func (h *ProductHandler) show(cmd *cobra.Command, args []string) error {
	pr, err := h.uc.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(pr)
}

func (h *ProductHandler) count(cmd *cobra.Command, args []string) error {
	n, err := h.uc.CountProducts(cmd.Context())
	if err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(map[string]int{"totalProducts": n})
}

// form prints the product as a YAML form regardless of --output, since it
// is meant to be edited and fed back to update.
func (h *ProductHandler) form(cmd *cobra.Command, args []string) error {
	pr, err := h.uc.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(dto.FromProduct(pr)); err != nil {
		return err
	}
	return enc.Close()
}

func (h *ProductHandler) create(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd)
	if err != nil {
		return err
	}
	pr, err := h.uc.CreateProduct(cmd.Context(), input)
	if err != nil {
		return err
	}
	return h.printSaved(cmd, pr)
}

func (h *ProductHandler) update(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd)
	if err != nil {
		return err
	}
	pr, err := h.uc.UpdateProduct(cmd.Context(), args[0], input)
	if err != nil {
		return err
	}
	return h.printSaved(cmd, pr)
}

func (h *ProductHandler) delete(cmd *cobra.Command, args []string) error {
	if err := h.uc.DeleteProduct(cmd.Context(), args[0]); err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	p.Message("Product %s deleted", args[0])
	return nil
}

func (h *ProductHandler) printSaved(cmd *cobra.Command, pr *model.Product) error {
	h.logger.Debug("product saved", zap.String("product_id", pr.ID))
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(mapProductToRow(*pr))
}
