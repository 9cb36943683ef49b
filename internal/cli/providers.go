package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/vibequota/internal/display"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers and their credential sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := newCatalog()
		fc := buildFetchContext("")

		configured := make(map[string]bool)
		for _, pid := range cat.ConfiguredIDs(fc, cat.IDs()) {
			configured[pid] = true
		}

		if jsonOutput || !isTerminal() {
			type providerJSON struct {
				ID         string   `json:"id"`
				Name       string   `json:"name"`
				Homepage   string   `json:"homepage,omitempty"`
				Dashboard  string   `json:"dashboard,omitempty"`
				Configured bool     `json:"configured"`
				CLIPaths   []string `json:"cli_paths,omitempty"`
				EnvVars    []string `json:"env_vars,omitempty"`
			}
			var list []providerJSON
			for _, pid := range cat.IDs() {
				p, _ := cat.Get(pid)
				meta := p.Meta()
				creds := p.CredentialSources()
				list = append(list, providerJSON{
					ID:         meta.ID,
					Name:       meta.Name,
					Homepage:   meta.Homepage,
					Dashboard:  meta.DashboardURL,
					Configured: configured[pid],
					CLIPaths:   creds.CLIPaths,
					EnvVars:    creds.EnvVars,
				})
			}
			return display.OutputJSON(outWriter, list)
		}

		var rows [][]string
		for _, pid := range cat.IDs() {
			p, _ := cat.Get(pid)
			meta := p.Meta()
			creds := p.CredentialSources()

			status := ""
			if configured[pid] {
				status = "configured"
			}
			sources := strings.Join(append(append([]string{}, creds.CLIPaths...), creds.EnvVars...), ", ")
			rows = append(rows, []string{meta.ID, meta.Name, status, sources})
		}

		outln(display.NewTable(
			[]string{"ID", "Name", "Status", "Credential Sources"},
			rows,
			display.TableOptions{Title: "Providers", NoColor: noColor},
		))
		return nil
	},
}
