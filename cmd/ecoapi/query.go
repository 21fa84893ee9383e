package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
	"github.com/mimir-aip/eco-ontology-go/pkg/taln"
)

func searchCmd(flags *globalFlags) *cobra.Command {
	var (
		useLLM  bool
		execute bool
	)
	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Translate a question into SPARQL",
		Long: `Translate a French question into SPARQL with the keyword selector,
or with Gemini when --llm is set. With --execute the query is run against
Fuseki and the response is printed as the API would return it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			cfg, logger, err := flags.load(true)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !execute {
				if !useLLM {
					sel, err := search.NewSelector().Select(question)
					if err != nil {
						return err
					}
					fmt.Printf("# template: %s\n%s\n", sel.Template, sel.Query)
					return nil
				}
				if a.generator == nil {
					return search.ErrGeneratorUnavailable
				}
				gen := a.generator.FromQuestion(cmd.Context(), question)
				if gen.Err != nil {
					logger.Warn("generation fell back", "error", gen.Err)
				}
				fmt.Printf("# strategy: %s\n%s\n", gen.Strategy, gen.Query)
				return nil
			}

			if useLLM {
				resp, err := a.search.Semantic(cmd.Context(), models.SearchRequest{Question: question})
				if err != nil {
					return err
				}
				return printJSON(resp)
			}
			resp, err := a.search.Keyword(cmd.Context(), question)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().BoolVar(&useLLM, "llm", false, "Generate the query with Gemini")
	cmd.Flags().BoolVar(&execute, "execute", false, "Run the query against Fuseki")
	return cmd
}

func analyzeCmd(flags *globalFlags) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "analyze <question>",
		Short: "Extract entities, intent and hints from a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if local {
				return printJSON(taln.Fallback(question))
			}
			cfg, logger, err := flags.load(true)
			if err != nil {
				return err
			}
			svc := taln.NewService(taln.Config{
				APIKey:  cfg.TALN.APIKey,
				APIURL:  cfg.TALN.APIURL,
				Timeout: time.Duration(cfg.TALN.Timeout) * time.Second,
			}, logger)
			return printJSON(svc.Analyze(cmd.Context(), question))
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Use the built-in tables only")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
