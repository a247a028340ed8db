package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// personCommand prints one individual with its resolved relations.
func (c *CLI) personCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "person <file> [id]",
		Short: "Print an individual and its relations as JSON",
		Long:  "Print an individual and its relations as JSON. Without an id the first individual in the file is used.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p, err := runner.Person(src, optionalArg(args, 1))
			if err != nil {
				return err
			}
			return graph.WriteJSON(p, cmd.OutOrStdout())
		},
	}
}

// familyCommand prints one family unit.
func (c *CLI) familyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "family <file> <id>",
		Short: "Print a family unit as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := runner.Family(src, args[1])
			if err != nil {
				return err
			}
			return graph.WriteJSON(f, cmd.OutOrStdout())
		},
	}
}

// hierarchyCommand prints the canonical tree rooted at an individual.
func (c *CLI) hierarchyCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "hierarchy <file> [id]",
		Short: "Print the deduplicated family tree rooted at an individual",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := c.centralID(cmd.Context(), src, args, pick)
			if err != nil {
				return err
			}
			h, err := runner.Hierarchy(cmd.Context(), src, id)
			if err != nil {
				return err
			}
			return graph.WriteJSON(h, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose the root individual interactively")

	return cmd
}

// hourglassCommand prints ancestor and descendant layers around an individual.
func (c *CLI) hourglassCommand() *cobra.Command {
	var up, down int
	var pick bool

	cmd := &cobra.Command{
		Use:   "hourglass <file> [id]",
		Short: "Print ancestor and descendant generations around an individual",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			if cmd.Flags().Changed("up") {
				opts.Up = up
			}
			if cmd.Flags().Changed("down") {
				opts.Down = down
			}
			if err := opts.ValidateForQuery(); err != nil {
				return err
			}

			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := c.centralID(cmd.Context(), src, args, pick)
			if err != nil {
				return err
			}
			hg, err := runner.Hourglass(cmd.Context(), src, id, opts)
			if err != nil {
				return err
			}
			return graph.WriteJSON(hg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&up, "up", pipeline.DefaultUp, "ancestor generations")
	cmd.Flags().IntVar(&down, "down", pipeline.DefaultDown, "descendant generations")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the central individual interactively")

	return cmd
}

// connectionsCommand prints the typed connections around an individual.
func (c *CLI) connectionsCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "connections <file> [id]",
		Short: "Print typed parent/child/spouse connections as JSON",
		Long: `Print the typed connections between every individual reachable from id.

In strict mode A→B and B→A of one type collapse into a single entry. In
permissive mode directional duplicates are kept and only connections with
missing endpoints or self loops are dropped.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			if cmd.Flags().Changed("mode") {
				opts.Mode = mode
			}
			if err := pipeline.ValidateMode(opts.Mode); err != nil {
				return err
			}

			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			conns, err := runner.Connections(cmd.Context(), src, optionalArg(args, 1), opts)
			if err != nil {
				return err
			}
			return graph.WriteJSON(conns, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&mode, "mode", pipeline.DefaultMode, "dedup mode: strict, permissive")

	return cmd
}

// treeCommand prints a single-direction lineage tree.
func (c *CLI) treeCommand() *cobra.Command {
	var direction string
	var depth int
	var pick bool

	cmd := &cobra.Command{
		Use:   "tree <file> [id]",
		Short: "Print the ancestor or descendant tree of an individual",
		Long: `Print the ancestor or descendant tree of an individual as JSON.

Each relative appears once; a person reached again through pedigree
collapse is not expanded a second time. --depth 0 follows every generation.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateDirection(direction); err != nil {
				return err
			}
			if err := pipeline.ValidateDepth(depth); err != nil {
				return err
			}

			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := c.centralID(cmd.Context(), src, args, pick)
			if err != nil {
				return err
			}
			tree, err := runner.Tree(cmd.Context(), src, id, direction, depth)
			if err != nil {
				return err
			}
			return graph.WriteJSON(tree, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&direction, "direction", pipeline.DirectionDescendants, "ancestors or descendants")
	cmd.Flags().IntVar(&depth, "depth", 0, "generations to follow (0 = all)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the root individual interactively")

	return cmd
}

// rolesCommand prints the force-diagram input around an individual.
func (c *CLI) rolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <file> [id]",
		Short: "Print every individual's role relative to one person, with family links",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fd, err := runner.FamilyDiagram(cmd.Context(), src, optionalArg(args, 1))
			if err != nil {
				return err
			}
			return graph.WriteJSON(fd, cmd.OutOrStdout())
		},
	}
}

// centralID returns the id argument, or runs the picker when pick is set.
func (c *CLI) centralID(ctx context.Context, src *pipeline.Source, args []string, pick bool) (string, error) {
	if !pick {
		return optionalArg(args, 1), nil
	}
	people := make([]graph.PersonSummary, 0, src.Doc.NumIndividuals())
	for _, ind := range src.Doc.Individuals() {
		people = append(people, graph.Summarize(ind))
	}
	id, err := pickPerson(ctx, people)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no individual selected")
	}
	loggerFromContext(ctx).Debug("picked", "id", id)
	return id, nil
}

// optionalArg returns args[i] or "" when absent.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
