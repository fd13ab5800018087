package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/resources"
	"github.com/spf13/cobra"
)

func newResourcesCmd(a *app) *cobra.Command {
	var filter, query, catalogPath string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Browse the wellness resource library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if catalogPath == "" {
				catalogPath = a.cfg.Resources.CatalogPath
			}

			var catalog []*models.Resource
			var err error
			if catalogPath != "" {
				catalog, err = resources.LoadCatalogFile(catalogPath)
			} else {
				catalog, err = resources.DefaultCatalog()
			}
			if err != nil {
				return err
			}

			svc, err := resources.New(&resources.Config{
				Catalog: catalog,
				Logger:  a.log,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			counts, err := svc.Counts(ctx)
			if err != nil {
				return err
			}

			list, err := svc.List(ctx, &resources.ListInput{
				Filter: filter,
				Query:  query,
			})
			if err != nil {
				return err
			}

			return printResources(cmd.OutOrStdout(), counts, list)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", resources.FilterAll, "resource type: all, exercise, article, audio or video")
	cmd.Flags().StringVar(&query, "query", "", "search titles and descriptions")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog (default from config, else built in)")

	return cmd
}

func printResources(w io.Writer, counts *resources.CountsOutput, list *resources.ListOutput) error {
	var b strings.Builder

	b.WriteString(chipStyle.Render(counts.Chip) + "\n")

	filters := make([]string, 0, len(models.ResourceTypes))
	for _, t := range models.ResourceTypes {
		filters = append(filters, fmt.Sprintf("%s (%d)", t, counts.ByType[t]))
	}
	b.WriteString(faintStyle.Render(strings.Join(filters, "  ")) + "\n")
	b.WriteString(headingStyle.Render(list.Label) + "\n")

	if list.Empty {
		b.WriteString("No resources found.\n")
	}

	for _, res := range list.Resources {
		b.WriteString(fmt.Sprintf("• %s %s\n", headingStyle.Render(res.Title), faintStyle.Render("("+res.Icon+")")))
		b.WriteString(fmt.Sprintf("   %s\n", res.Description))
		b.WriteString(faintStyle.Render(fmt.Sprintf("   %s • %s • %s", res.Type, res.Duration, res.Category)) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
