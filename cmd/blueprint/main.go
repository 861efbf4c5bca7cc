// Command blueprint validates a workspace of software-design documents and
// renders its activity diagrams as PlantUML.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"blueprint/internal/export"
	"blueprint/internal/flow"
	"blueprint/internal/handlers"
	"blueprint/internal/mcpserver"
	"blueprint/internal/metrics"
	"blueprint/internal/model"
	"blueprint/internal/workspace"
)

const version = "0.1.0"

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// prompt asks the user for missing values. Tests replace it.
var prompt = promptQuestions

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "blueprint",
		Short:        "Validate software-design documents and render activity diagrams",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newValidateCmd(),
		newRenderCmd(),
		newExportCmd(),
		newServeCmd(),
		newMCPCmd(),
	)
	return root
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a new workspace",
		Long: `Create a workspace in <dir> with a blueprint.yaml manifest and default
settings in .blueprint/settings.yaml.

Errors if the workspace already exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if name == "" {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				name = filepath.Base(abs)
			}
			if err := workspace.Init(dir, name, description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created workspace %q at %s\n", name, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the directory name)")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	return cmd
}

// ---------------------------------------------------------------------------
// add / remove
// ---------------------------------------------------------------------------

func newAddCmd() *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "add <dir> <kind> [name]",
		Short: "Add a skeleton document to a workspace",
		Long: fmt.Sprintf(`Write a minimal document of the given kind to <dir>/<name>.yaml.

Kinds: %v

Prompts for the diagram id and name when they are not given.`, workspace.Kinds),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			kind, err := workspace.ParseKind(args[1])
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			answers, err := prompt(addQuestions(!cmd.Flags().Changed("id"), name == ""))
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}
			if v, ok := answers["id"]; ok {
				if id, err = parseDiagramID(v); err != nil {
					return err
				}
			} else if id < 1 {
				return fmt.Errorf("invalid id %d: must be a positive integer", id)
			}
			if v, ok := answers["name"]; ok {
				name = v
			}
			if err := checkDocumentName(name); err != nil {
				return fmt.Errorf("invalid document name %q: %w", name, err)
			}

			rel, err := w.AddDocument(kind, id, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s document %s\n", kind, rel)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 1, "diagram id of the new document")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <dir> <document>",
		Short: "Remove a document from a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			if err := w.RemoveDocument(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[1])
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func newValidateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate every document in a workspace",
		Long: `Decode and validate every document in the workspace, upstream layers
first. Stops at the first violated invariant and reports it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p, err := w.Load()
			if err != nil {
				if f, ok := model.AsFinding(err); ok && asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					_ = enc.Encode(f)
				} else {
					fmt.Fprintln(out, errorStyle.Render("✗ invalid")+" "+err.Error())
				}
				return errors.New("validation failed")
			}

			s := p.Summary()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			fmt.Fprintln(out, okStyle.Render("✓ valid")+" "+s.Name)
			for _, row := range []struct {
				label string
				n     int
			}{
				{"use case diagrams", s.UseCaseDiagrams},
				{"descriptions", s.Descriptions},
				{"activity diagrams", s.ActivityDiagrams},
				{"requirements", s.Requirements},
				{"class diagrams", s.ClassDiagrams},
				{"object diagrams", s.ObjectDiagrams},
				{"crc cards", s.CRCCards},
			} {
				fmt.Fprintf(out, "  %s %d\n", subtleStyle.Render(fmt.Sprintf("%-18s", row.label)), row.n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary or finding as JSON")
	return cmd
}

// ---------------------------------------------------------------------------
// render / export
// ---------------------------------------------------------------------------

func newRenderCmd() *cobra.Command {
	var diagram int
	cmd := &cobra.Command{
		Use:   "render <dir>",
		Short: "Print activity diagrams as PlantUML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			p, err := w.Load()
			if err != nil {
				return err
			}

			diagrams := p.ActivityDiagrams()
			if cmd.Flags().Changed("diagram") {
				a, ok := p.ActivityDiagram(model.DiagramID(diagram))
				if !ok {
					return fmt.Errorf("activity diagram %d not found", diagram)
				}
				diagrams = []*model.ActivityModel{a}
			}
			if len(diagrams) == 0 {
				return errors.New("the workspace has no activity diagrams")
			}
			for _, a := range diagrams {
				fmt.Fprint(cmd.OutOrStdout(), flow.Document(a))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&diagram, "diagram", 0, "render only this activity diagram")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write PlantUML files and markdown notes for a workspace",
		Long: `Validate the workspace and write the export bundle: one .puml file per
activity diagram, an overview diagram, and index, traceability and
requirements notes. The default output directory comes from settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			p, err := w.Load()
			if err != nil {
				return err
			}
			b, err := export.GenerateBundle(p)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = w.OutputDir()
			}
			if err := export.WriteBundle(b, outDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d files → %s\n", len(b.Paths()), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	return cmd
}

// ---------------------------------------------------------------------------
// serve / mcp
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: "Serve the validation and rendering HTTP API",
		Long: `Serve POST /validate, POST /render, GET /project (the workspace in
<dir>), GET /health and GET /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = w.Settings.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			srv := &http.Server{
				Addr:              addr,
				Handler:           handlers.NewRouter(reg, w, w.Settings.Server.CORSOrigin),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Printf("Shutdown error: %v", err)
				}
			}()

			log.Printf("🚀 Server starting on %s (workspace %s)", addr, w.Dir)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Printf("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to settings server.addr)")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve validate_design and render_activity as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol.
			log.SetOutput(os.Stderr)
			return mcpserver.NewServer(version, metrics.New(prometheus.NewRegistry())).Serve()
		},
	}
}
