package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show record counts per resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Welcome back, %s\n\n", session.User.Name)

			stats := a.office.Dashboard.Refresh(cmd.Context())
			var rows [][]string
			for _, name := range a.office.Dashboard.Names() {
				if err, failed := stats.Failed[name]; failed {
					rows = append(rows, []string{name, "unavailable: " + describe(err)})
					continue
				}
				rows = append(rows, []string{name, strconv.Itoa(stats.Counts[name])})
			}
			printTable([]string{"RESOURCE", "TOTAL"}, rows)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every enquiry as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("enquiries_%s.xlsx", time.Now().Format("20060102"))
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			n, err := a.client.ExportEnquiries(cmd.Context(), f)
			if err != nil {
				os.Remove(output)
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", output, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default enquiries_YYYYMMDD.xlsx)")
	return cmd
}
