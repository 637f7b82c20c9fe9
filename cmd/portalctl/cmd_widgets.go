package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/investor-portal/internal/models"
)

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "Inspect and reset an investor dashboard",
}

var widgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the widgets on the dashboard",
	RunE:  runWidgetsList,
}

var widgetsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show the widget catalog",
	RunE:  runWidgetsTypes,
}

var widgetsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default dashboard layout",
	RunE:  runWidgetsReset,
}

var widgetsInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show portfolio insights derived from the dashboard",
	RunE:  runWidgetsInsights,
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runWidgetsList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	app, closeFn, err := boot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	widgets, err := app.Deps.DashboardSvc.GetDashboard(ctx, uid)
	if err != nil {
		return err
	}
	printWidgets(cmd.OutOrStdout(), widgets)
	return nil
}

func runWidgetsTypes(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	app, closeFn, err := boot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSIZE\tDEFAULT\tFORMATS")
	for _, e := range app.Deps.DashboardSvc.WidgetTypes() {
		formats := make([]string, len(e.Formats))
		for i, f := range e.Formats {
			formats[i] = string(f)
		}
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\t%s\n", e.Type, e.W, e.H, e.DefaultFormat, strings.Join(formats, ", "))
	}
	return tw.Flush()
}

func runWidgetsReset(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	app, closeFn, err := boot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	widgets, err := app.Deps.DashboardSvc.ResetDashboard(ctx, uid)
	if err != nil {
		return err
	}
	printWidgets(cmd.OutOrStdout(), widgets)
	return nil
}

func runWidgetsInsights(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	app, closeFn, err := boot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	insights, err := app.Deps.InsightsSvc.GetInsights(ctx, uid)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, in := range insights {
		fmt.Fprintf(out, "[%s] %s\n    %s\n", in.Priority, in.Title, in.Description)
	}
	return nil
}

func printWidgets(out io.Writer, widgets []models.Widget) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tX,Y\tWxH\tFORMAT")
	for _, w := range widgets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d,%d\t%dx%d\t%s\n", w.WidgetID, w.Type, w.Title, w.X, w.Y, w.W, w.H, w.VisualizationFormat)
	}
	_ = tw.Flush()
}
