package main

import (
	"context"
	"fmt"
	"strconv"
	"voltedge_site_go/admin"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage product and gallery categories",
	}
	cmd.PersistentFlags().StringVarP(&kind, "type", "t", admin.CategoryTypeProduct, "Category type: product or gallery")

	// load signs in, then loads the categories together with the records
	// they are attached to so rename and delete cascade locally.
	load := func(ctx context.Context) (*admin.Categories, error) {
		if _, err := a.requireSession(ctx); err != nil {
			return nil, err
		}
		var cats *admin.Categories
		var err error
		switch kind {
		case admin.CategoryTypeProduct:
			cats = a.office.ProductCategories
			err = a.office.Products.Load(ctx)
		case admin.CategoryTypeGallery:
			cats = a.office.GalleryCategories
			err = a.office.Gallery.Load(ctx)
		default:
			return nil, fmt.Errorf("unknown category type %q", kind)
		}
		if err != nil {
			return nil, err
		}
		return cats, cats.Load(ctx)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories with usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := load(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, c := range cats.List() {
				rows = append(rows, []string{c.ID, c.Name, c.Slug, strconv.Itoa(c.Count)})
			}
			printTable([]string{"ID", "NAME", "SLUG", "IN USE"}, rows)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := load(cmd.Context())
			if err != nil {
				return err
			}
			_, err = cats.Create(cmd.Context(), args[0])
			return err
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category and every record filed under it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := load(cmd.Context())
			if err != nil {
				return err
			}
			_, err = cats.Rename(cmd.Context(), args[0], args[1])
			return err
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category, moving its records to Uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return cats.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, rename, remove)
	return cmd
}
