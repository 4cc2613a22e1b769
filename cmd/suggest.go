/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/config"
	"github.com/josephgoksu/TaskQuest/internal/logger"
	"github.com/josephgoksu/TaskQuest/internal/suggest"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

// suggestTimeout bounds one coaching request including retries.
const suggestTimeout = 90 * time.Second

// newSuggestProvider is replaced in tests.
var newSuggestProvider = func() (suggest.Provider, func() error, error) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, nil, err
	}
	g := suggest.NewGenerator(cfg)
	return g, g.Close, nil
}

var suggestCmd = &cobra.Command{
	Use:     "suggest <message>",
	Aliases: []string{"coach", "ask"},
	Short:   "Ask the AI coach for task suggestions",
	Long: `Describe how your day is going and get a short reflection plus up to
ten suggested tasks. The coach sees your open task titles, priorities,
yesterday's completions and your streak.

Use --apply with suggestion numbers (e.g. --apply 1,3) to add them as
daily tasks due today.`,
	Example: `  taskquest suggest "I feel scattered, what should I tackle?"
  taskquest suggest "plan my afternoon" --apply 1,2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRaw, _ := cmd.Flags().GetString("apply")
		message := strings.Join(args, " ")
		logger.SetLastPrompt(message)

		return withSession(cmd.Context(), func(s *session) error {
			req, err := s.store.SuggestionRequest(message)
			if err != nil {
				return err
			}
			provider, closeProvider, err := newSuggestProvider()
			if err != nil {
				return wrapUser("AI coach is not configured; set llm.provider and an API key", err)
			}
			defer func() { _ = closeProvider() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), suggestTimeout)
			defer cancel()
			spin := ui.NewSpinner(cmd.ErrOrStderr(), "Thinking...", ui.IsInteractive())
			spin.Start()
			resp, err := provider.Suggest(ctx, req)
			spin.Stop()
			if err != nil {
				return wrapUser("the AI coach could not answer", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, ui.RenderSuggestions(resp))

			picks, err := parsePicks(applyRaw, len(resp.SuggestedTasks))
			if err != nil {
				return err
			}
			for _, i := range picks {
				t := s.store.ApplySuggestion(resp.SuggestedTasks[i])
				telemetry.TrackAll(s.telemetry, telemetry.SuggestionEvent(t))
				fmt.Fprintln(out, ui.StyleSuccess.Render(fmt.Sprintf("Added %s  %s", ui.ShortID(t.ID), t.Title)))
			}
			if len(picks) > 0 {
				return s.save(cmd.Context())
			}
			return nil
		})
	},
}

// parsePicks turns "1,3" into zero-based indexes below n.
func parsePicks(raw string, n int) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("invalid --apply value %q: pick numbers between 1 and %d", part, n)
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i-1)
		}
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().String("apply", "", "comma separated suggestion numbers to add as tasks")
}
