package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"voltedge_site_go/admin"

	"github.com/spf13/cobra"
)

// resource describes how one record type is listed and edited from the
// command line.
type resource[T admin.Record[T]] struct {
	name     string
	noun     string
	ctrl     func(a *app) *admin.Controller[T]
	headers  []string
	row      func(T) []string
	draft    func(T) admin.Draft
	before   func(ctx context.Context, a *app)
	readOnly bool
}

func newProductsCmd(a *app) *cobra.Command {
	return resourceCmd(a, resource[admin.Product]{
		name:    admin.ResourceProducts,
		noun:    "product",
		ctrl:    func(a *app) *admin.Controller[admin.Product] { return a.office.Products },
		headers: []string{"ID", "NAME", "CATEGORY", "PRICE", "STATUS"},
		row: func(p admin.Product) []string {
			return []string{p.ID, p.Name, p.Category, money(p.Price), p.Status}
		},
		draft: func(p admin.Product) admin.Draft {
			return admin.Draft{"name": p.Name, "desc": p.Description, "category": p.Category,
				"price": num(p.Price), "status": p.Status, "image": p.ImageURL}
		},
		before: func(ctx context.Context, a *app) { loadCategories(ctx, a.office.ProductCategories) },
	})
}

func newServicesCmd(a *app) *cobra.Command {
	return resourceCmd(a, resource[admin.Service]{
		name:    admin.ResourceServices,
		noun:    "service",
		ctrl:    func(a *app) *admin.Controller[admin.Service] { return a.office.Services },
		headers: []string{"ID", "TITLE", "CATEGORY", "PRICE", "PROJECTS", "STATUS"},
		row: func(s admin.Service) []string {
			return []string{s.ID, s.Title, s.Category, money(s.Price), strconv.Itoa(s.Projects), s.Status}
		},
		draft: func(s admin.Service) admin.Draft {
			return admin.Draft{"title": s.Title, "desc": s.Description, "category": s.Category,
				"price": num(s.Price), "projects": strconv.Itoa(s.Projects), "status": s.Status, "image": s.ImageURL}
		},
	})
}

func newClientsCmd(a *app) *cobra.Command {
	return resourceCmd(a, resource[admin.Client]{
		name:    admin.ResourceClients,
		noun:    "client",
		ctrl:    func(a *app) *admin.Controller[admin.Client] { return a.office.Clients },
		headers: []string{"ID", "NAME", "INDUSTRY", "SINCE", "RATING", "STATUS"},
		row: func(c admin.Client) []string {
			return []string{c.ID, c.Name, c.Industry, year(c.SinceYear), num(c.Rating), c.Status}
		},
		draft: func(c admin.Client) admin.Draft {
			return admin.Draft{"name": c.Name, "address": c.Address, "industry": c.Industry,
				"status": c.Status, "since": year(c.SinceYear), "rating": num(c.Rating), "logo": c.LogoURL}
		},
	})
}

func newGalleryCmd(a *app) *cobra.Command {
	return resourceCmd(a, resource[admin.GalleryImage]{
		name:    admin.ResourceGallery,
		noun:    "image",
		ctrl:    func(a *app) *admin.Controller[admin.GalleryImage] { return a.office.Gallery },
		headers: []string{"ID", "TITLE", "CATEGORY", "URL"},
		row: func(g admin.GalleryImage) []string {
			return []string{g.ID, g.Title, g.Category, g.URL}
		},
		draft: func(g admin.GalleryImage) admin.Draft {
			return admin.Draft{"title": g.Title, "url": g.URL, "category": g.Category,
				"desc": g.Description, "alt": g.AltText}
		},
		before: func(ctx context.Context, a *app) { loadCategories(ctx, a.office.GalleryCategories) },
	})
}

func newEnquiriesCmd(a *app) *cobra.Command {
	cmd := resourceCmd(a, resource[admin.Enquiry]{
		name:    admin.ResourceEnquiries,
		noun:    "enquiry",
		ctrl:    func(a *app) *admin.Controller[admin.Enquiry] { return a.office.Enquiries },
		headers: []string{"ID", "RECEIVED", "NAME", "EMAIL", "SUBJECT", "STATUS"},
		row: func(e admin.Enquiry) []string {
			return []string{e.ID, e.CreatedAt, e.Name, e.Email, e.Subject, e.Status}
		},
		draft: func(e admin.Enquiry) admin.Draft {
			return admin.Draft{"status": e.Status}
		},
		readOnly: true,
	})
	cmd.AddCommand(newExportCmd(a))
	return cmd
}

func resourceCmd[T admin.Record[T]](a *app, r resource[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.name),
	}
	cmd.AddCommand(r.listCmd(a))
	if !r.readOnly {
		cmd.AddCommand(r.createCmd(a))
	}
	cmd.AddCommand(r.updateCmd(a), r.deleteCmd(a))
	return cmd
}

// load signs in and fetches the canonical list.
func (r resource[T]) load(ctx context.Context, a *app) (*admin.Controller[T], error) {
	if _, err := a.requireSession(ctx); err != nil {
		return nil, err
	}
	if r.before != nil {
		r.before(ctx, a)
	}
	ctrl := r.ctrl(a)
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func (r resource[T]) listCmd(a *app) *cobra.Command {
	var search, category, status string
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.name),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := r.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			ctrl.SetFilter(admin.ViewPatch{Search: &search, Category: &category, Status: &status})
			ctrl.SetFilter(admin.ViewPatch{Page: &page})

			items := ctrl.Page()
			if len(items) == 0 {
				fmt.Printf("No %s found\n", r.name)
				return nil
			}
			rows := make([][]string, len(items))
			for i, item := range items {
				rows[i] = r.row(item)
			}
			printTable(r.headers, rows)
			fmt.Printf("\nPage %d of %d (%d matching)\n", ctrl.View().Page, ctrl.TotalPages(), len(ctrl.Filtered()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search")
	cmd.Flags().StringVarP(&category, "category", "c", admin.All, "Category filter")
	cmd.Flags().StringVar(&status, "status", admin.All, "Status filter")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	return cmd
}

func (r resource[T]) createCmd(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", r.noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := r.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			draft, err := applyFields(admin.Draft{}, fields)
			if err != nil {
				return err
			}
			rec, err := ctrl.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			if rec.RecordID() != "" {
				printTable(r.headers, [][]string{r.row(rec)})
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fields, "set", nil, "Field value as key=value (repeatable)")
	return cmd
}

func (r resource[T]) updateCmd(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", r.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := r.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			current, ok := ctrl.Get(args[0])
			if !ok {
				return admin.ErrNotFound
			}
			draft, err := applyFields(r.draft(current), fields)
			if err != nil {
				return err
			}
			rec, err := ctrl.Update(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			if rec.RecordID() != "" {
				printTable(r.headers, [][]string{r.row(rec)})
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fields, "set", nil, "Field value as key=value (repeatable)")
	return cmd
}

func (r resource[T]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", r.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := r.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			return ctrl.Delete(cmd.Context(), args[0])
		},
	}
}

func loadCategories(ctx context.Context, cats *admin.Categories) {
	if err := cats.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[WARNING] categories unavailable, category values are not checked: %v\n", err)
	}
}

// applyFields overlays key=value pairs onto draft.
func applyFields(draft admin.Draft, fields []string) (admin.Draft, error) {
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", f)
		}
		draft[key] = value
	}
	return draft, nil
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func money(v float64) string {
	if v == 0 {
		return "On request"
	}
	return fmt.Sprintf("$%.2f", v)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func sortedKeys(m admin.FieldErrors) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
