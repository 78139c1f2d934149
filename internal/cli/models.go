package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"Unbewohnte/BoldBriefing/internal/inference"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the configured Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if provider := strings.ToLower(rt.conf.Oracle.Provider); provider != "ollama" {
			return fmt.Errorf("models are only listed for the ollama provider, configured provider is %q", provider)
		}

		client, err := inference.NewOllama(inference.OllamaConfig{Host: rt.conf.Oracle.BaseURL})
		if err != nil {
			return err
		}
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Model", "Size", "Modified"})
		for _, m := range models {
			tw.AppendRow(table.Row{m.Name, formatBytes(m.Size), m.ModifiedAt.Format("2006-01-02 15:04")})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})
		fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
		return nil
	},
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
