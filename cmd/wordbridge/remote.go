package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	apiv1 "github.com/at-ishikawa/wordbridge/internal/api/v1"
	"github.com/at-ishikawa/wordbridge/internal/client"
)

const passwordEnv = "WORDBRIDGE_PASSWORD"

// remoteOptions are the flags shared by commands that talk to a running server.
type remoteOptions struct {
	server   string
	username string
	password string
}

func (o *remoteOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.server, "server", "", "Server base URL (default: client.base_url)")
	flags.StringVar(&o.username, "username", "", "Log in as this user before the call")
	flags.StringVar(&o.password, "password", "", "Password for --username (default: $"+passwordEnv+")")
}

func (o *remoteOptions) connect(ctx context.Context) (*client.Client, error) {
	baseURL := o.server
	if baseURL == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, fmt.Errorf("loadConfig() > %w", err)
		}
		baseURL = cfg.Client.BaseURL
	}

	c := client.New(baseURL)
	if o.username == "" {
		return c, nil
	}
	password := o.password
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if _, err := c.Login(ctx, o.username, password); err != nil {
		return nil, fmt.Errorf("client.Login() > %w", err)
	}
	return c, nil
}

func newLanguagesCommand() *cobra.Command {
	var opts remoteOptions

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			languages, err := c.ListLanguages(ctx)
			if err != nil {
				return fmt.Errorf("client.ListLanguages() > %w", err)
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			for _, l := range languages {
				_, _ = bold.Fprintf(out, "%-4s", l.Code)
				if l.NativeName != "" && l.NativeName != l.Name {
					fmt.Fprintf(out, "%s (%s)\n", l.Name, l.NativeName)
					continue
				}
				fmt.Fprintln(out, l.Name)
			}
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func newSearchCommand() *cobra.Command {
	var opts remoteOptions
	var from, to string

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search words and print their meanings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.connect(ctx)
			if err != nil {
				return err
			}

			req := apiv1.SearchRequest{Word: args[0]}
			if from != "" || to != "" {
				ids, err := languageIDsByCode(ctx, c)
				if err != nil {
					return err
				}
				if req.FromLanguage, err = lookupLanguage(ids, from); err != nil {
					return err
				}
				if req.ToLanguage, err = lookupLanguage(ids, to); err != nil {
					return err
				}
			}

			words, err := c.Search(ctx, req)
			if err != nil {
				return fmt.Errorf("client.Search() > %w", err)
			}

			out := cmd.OutOrStdout()
			if len(words) == 0 {
				fmt.Fprintf(out, "No words match %q\n", args[0])
				return nil
			}
			printWords(out, words)
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "Only match words of this language code")
	cmd.Flags().StringVar(&to, "to", "", "Only show meanings in this language code")
	return cmd
}

func newWordsCommand() *cobra.Command {
	var opts remoteOptions
	var code string

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Browse words alphabetically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.connect(ctx)
			if err != nil {
				return err
			}

			var languageID string
			if code != "" {
				ids, err := languageIDsByCode(ctx, c)
				if err != nil {
					return err
				}
				if languageID, err = lookupLanguage(ids, code); err != nil {
					return err
				}
			}

			words, err := c.ListWords(ctx, languageID)
			if err != nil {
				return fmt.Errorf("client.ListWords() > %w", err)
			}
			out := cmd.OutOrStdout()
			if len(words) == 0 {
				fmt.Fprintln(out, "No words yet")
				return nil
			}
			printWords(out, words)
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&code, "language", "", "Only list words of this language code")
	return cmd
}

func printWords(w io.Writer, words []apiv1.Word) {
	bold := color.New(color.Bold)
	for _, word := range words {
		_, _ = bold.Fprint(w, word.Word)
		fmt.Fprintf(w, " [%s]\n", word.Language.Code)
		for _, m := range word.Meanings {
			fmt.Fprintf(w, "  %s: %s\n", m.Language.Code, m.Meaning)
		}
	}
}

func newContributionsCommand() *cobra.Command {
	var opts remoteOptions
	var userID string

	cmd := &cobra.Command{
		Use:   "contributions",
		Short: "List a contributor's ledger, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			contributions, err := c.ListContributions(ctx, userID)
			if err != nil {
				return fmt.Errorf("client.ListContributions() > %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d contribution(s)\n", len(contributions))
			for _, contrib := range contributions {
				target := contrib.WordID
				if target == "" {
					target = contrib.LanguageID
				}
				fmt.Fprintf(out, "%s  %-13s %s\n", contrib.CreatedAt.Format("2006-01-02 15:04:05"), contrib.ContributionType, target)
			}
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&userID, "user", "", "User id (default: the logged in user)")
	return cmd
}

func languageIDsByCode(ctx context.Context, c *client.Client) (map[string]string, error) {
	languages, err := c.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.ListLanguages() > %w", err)
	}
	ids := make(map[string]string, len(languages))
	for _, l := range languages {
		ids[l.Code] = l.ID
	}
	return ids, nil
}

func lookupLanguage(ids map[string]string, code string) (string, error) {
	if code == "" {
		return "", nil
	}
	id, ok := ids[strings.ToLower(code)]
	if !ok {
		return "", fmt.Errorf("unknown language code %q", code)
	}
	return id, nil
}
