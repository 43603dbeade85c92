package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"spendboard/internal/config"
	"spendboard/internal/filter"
	"spendboard/internal/log"
	"spendboard/internal/report"
)

// Env is passed to every command through subcommands' Execute arguments.
type Env struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer
}

// Commands returns the spendctl subcommands.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&viewCmd{name: "accounts", synopsis: "list bank accounts and balances", sections: []string{"accounts"}},
		&viewCmd{name: "expenses", synopsis: "list the expenses of the selection", sections: []string{"selection", "transactions"}},
		&viewCmd{name: "summary", synopsis: "show summary figures and charts for the selection", sections: []string{"selection", "summary", "charts"}},
		&viewCmd{name: "report", synopsis: "print the full dashboard report"},
	}
}

// viewCmd renders report sections for one dashboard selection. With no
// sections it renders the whole dashboard.
type viewCmd struct {
	name     string
	synopsis string
	sections []string

	account string
	mode    string
	raw     bool
}

func (c *viewCmd) Name() string     { return c.name }
func (c *viewCmd) Synopsis() string { return c.synopsis }
func (c *viewCmd) Usage() string {
	return fmt.Sprintf(`spendctl %s [-account <id>|all] [-mode all|month|average|category] [-raw]

  %s. Expenses start from the sample data unless SEED_SAMPLE_DATA=false.
`, c.name, c.synopsis)
}

func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "all", "Bank account id to filter by, or all.")
	f.StringVar(&c.mode, "mode", "all", "Time mode: all, month, average or category.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it for the terminal.")
}

func (c *viewCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	env, ok := envFrom(args)
	if !ok {
		fmt.Fprintln(os.Stderr, "spendctl: missing environment")
		return subcommands.ExitFailure
	}

	criteria, err := filter.ParseCriteria(c.account, c.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	app, err := Bootstrap(ctx, env.Config, env.Logger, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if criteria.AccountID != "" {
		if _, ok := app.Service.Registry().Lookup(criteria.AccountID); !ok {
			fmt.Fprintf(os.Stderr, "unknown account %q\n", criteria.AccountID)
			return subcommands.ExitUsageError
		}
	}

	v, err := app.Service.View(ctx, criteria)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	r, err := report.New(env.Config.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var buf bytes.Buffer
	if len(c.sections) == 0 {
		err = r.Dashboard(&buf, v)
	} else {
		err = r.Sections(&buf, v, c.sections...)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := printMarkdown(env.Out, buf.String(), c.raw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func envFrom(args []any) (*Env, bool) {
	if len(args) == 0 {
		return nil, false
	}
	env, ok := args[0].(*Env)
	if !ok || env.Config == nil {
		return nil, false
	}
	if env.Logger == nil {
		env.Logger = log.Discard()
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}
	return env, true
}

// printMarkdown renders md for the terminal through glamour, or writes it
// untouched when raw is set.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
