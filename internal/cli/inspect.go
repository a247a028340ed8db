package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/graph"
)

// maxDiagnostics caps the diagnostics listed by inspect unless --all is set.
const maxDiagnostics = 10

// inspectCommand creates the inspect command, which summarizes a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var people, all bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a GEDCOM file and its parse diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			doc := src.Doc

			fmt.Println(StyleTitle.Render(src.Name))
			printKeyValue("document", src.ID)
			printCount("lines", doc.Lines)
			printCount("individuals", doc.NumIndividuals())
			printCount("families", doc.NumFamilies())
			printCount("media", doc.NumMedia())
			printCount("other", len(doc.Other))
			if first := doc.First(); first != nil {
				printKeyValue("first", first.ID+" "+StyleHighlight.Render(first.DisplayName()))
				for _, m := range doc.MediaFor(first) {
					printInfo("%s %s", m.ID, mediaLink(m))
				}
			}
			printNewline()

			if n := len(doc.Diagnostics); n == 0 {
				printSuccess("no diagnostics")
			} else {
				printWarning("%d diagnostics", n)
				for i, d := range doc.Diagnostics {
					if i == maxDiagnostics && !all {
						printDetail("... %d more (use --all)", n-maxDiagnostics)
						break
					}
					printDetail("%s", d.String())
				}
			}

			if people {
				summaries := make([]graph.PersonSummary, 0, doc.NumIndividuals())
				for _, ind := range doc.Individuals() {
					summaries = append(summaries, graph.Summarize(ind))
				}
				printNewline()
				writePeopleTable(os.Stdout, summaries)
			}

			if first := doc.First(); first != nil {
				printNewline()
				printNextStep("Explore around the first individual", fmt.Sprintf("%s hourglass %s %s", appName, args[0], first.ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&people, "people", false, "list every individual")
	cmd.Flags().BoolVar(&all, "all", false, "list every diagnostic")

	return cmd
}

// mediaLink renders a media object's URL, falling back to its file path.
func mediaLink(m *gedcom.Media) string {
	if m.URL != "" {
		return StyleLink.Render(m.URL)
	}
	return StyleValue.Render(orDash(m.File))
}
