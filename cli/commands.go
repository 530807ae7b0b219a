package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"craftcalc/calculator"
	"craftcalc/input"
	"craftcalc/session"
	"craftcalc/ui"
)

// NewApp registers every command against sess. launchGUI opens the desktop
// window and may be nil when no display is available.
func NewApp(sess *session.Session, out io.Writer, launchGUI func() error) *Registry {
	r := NewRegistry(out)
	base := command{sess: sess, out: out, console: ui.NewConsole(out)}
	r.Register(&CalculateCommand{base})
	r.Register(&AddCommand{base})
	r.Register(&ClearCommand{base})
	r.Register(&ListCommand{base})
	r.Register(&RecipeCommand{base})
	r.Register(&RecipesCommand{base})
	r.Register(&ReverseCommand{base})
	r.Register(&HelpCommand{registry: r})
	r.Register(&GUICommand{launch: launchGUI})
	return r
}

type command struct {
	sess    *session.Session
	out     io.Writer
	console *ui.Console
}

func (c command) printNotices(notices []session.Notice) {
	for _, n := range notices {
		fmt.Fprintln(c.out, n.String())
	}
}

// splitQuantity reads "Item Name 25" as ("Item Name", 25). Without a trailing
// number the quantity is 1 and ok is false.
func splitQuantity(args []string) (name string, qty float64, ok bool) {
	if len(args) >= 2 {
		if q, err := input.ParseQuantity(args[len(args)-1]); err == nil {
			return strings.Join(args[:len(args)-1], " "), q, true
		}
	}
	return strings.Join(args, " "), 1, false
}

// CalculateCommand expands a request and prints the trees and summary.
type CalculateCommand struct{ command }

func (c *CalculateCommand) Name() string  { return "calculate" }
func (c *CalculateCommand) Usage() string { return "calculate [-policy atomic|per-item] [request]" }
func (c *CalculateCommand) Description() string {
	return "Calculate resources for 'Item, Qty; Item2' or 'Item Qty'; lists items when empty"
}

func (c *CalculateCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(c.out)
	policy := fs.String("policy", "", "how a failing request affects the batch: atomic or per-item")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()

	if len(args) == 0 {
		c.console.PrintItems(c.sess.Items(), c.sess.BaseItems())
		return nil
	}
	if *policy != "" {
		p, err := calculator.ParsePolicy(*policy)
		if err != nil {
			return err
		}
		c.sess.SetPolicy(p)
	}

	var (
		out *session.Outcome
		err error
	)
	text := strings.Join(args, " ")
	if name, qty, ok := splitQuantity(args); ok && !strings.ContainsAny(text, ",;") {
		out, err = c.sess.Calculate(ctx, []input.Entry{{Name: name, Quantity: qty}})
	} else {
		out, err = c.sess.CalculateText(ctx, text)
	}
	if out != nil {
		c.printNotices(out.Notices)
	}
	if out == nil || out.Result == nil {
		return err
	}

	c.console.PrintTrees(out.Result.Roots)
	c.console.PrintSummary(out.Result, out.Products)
	fmt.Fprintln(c.out, strings.Repeat("-", 40))
	return err
}

// AddCommand adds stock.
type AddCommand struct{ command }

func (c *AddCommand) Name() string        { return "add" }
func (c *AddCommand) Usage() string       { return "add <item> [quantity]" }
func (c *AddCommand) Description() string { return "Add an item to the inventory (quantity defaults to 1)" }

func (c *AddCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	name, qty, _ := splitQuantity(args)
	if err := c.sess.AddStock(ctx, name, qty); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %s of '%s' to inventory.\n", input.FormatQuantity(qty), name)
	return nil
}

// ClearCommand removes one item or the whole inventory.
type ClearCommand struct{ command }

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Usage() string       { return "clear [item]" }
func (c *ClearCommand) Description() string { return "Clear one item, or the whole inventory" }

func (c *ClearCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := c.sess.ClearAllStock(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Inventory cleared.")
		return nil
	}
	name, notices, err := c.sess.ClearStock(ctx, strings.Join(args, " "))
	c.printNotices(notices)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Cleared '%s' from inventory.\n", name)
	return nil
}

// ListCommand prints the inventory.
type ListCommand struct{ command }

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Usage() string       { return "list" }
func (c *ListCommand) Description() string { return "Show the current inventory" }

func (c *ListCommand) Run(ctx context.Context, args []string) error {
	c.console.PrintStock(c.sess.Stock())
	return nil
}

// RecipeCommand manages the catalog.
type RecipeCommand struct{ command }

func (c *RecipeCommand) Name() string  { return "recipe" }
func (c *RecipeCommand) Usage() string { return "recipe list|add <recipe>|delete <n>" }
func (c *RecipeCommand) Description() string {
	return "Manage recipes, e.g. recipe add 'Wood,2;Stone,1 -> Advanced Tool,1'"
}

func (c *RecipeCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	switch args[0] {
	case "list":
		c.console.PrintRecipes(c.sess.Recipes())
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: recipe add 'Input,Qty;... -> Output,Qty;...'")
		}
		r, err := input.ParseRecipe(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if err := c.sess.AddRecipe(ctx, r); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Recipe added: %s\n", input.FormatRecipe(r))
		return nil
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: recipe delete <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid recipe number '%s'", args[1])
		}
		removed, err := c.sess.DeleteRecipe(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Recipe deleted: %s\n", input.FormatRecipe(removed))
		return nil
	default:
		return fmt.Errorf("unknown recipe action %q", args[0])
	}
}

// RecipesCommand is short for "recipe list".
type RecipesCommand struct{ command }

func (c *RecipesCommand) Name() string        { return "recipes" }
func (c *RecipesCommand) Usage() string       { return "recipes" }
func (c *RecipesCommand) Description() string { return "List all recipes" }

func (c *RecipesCommand) Run(ctx context.Context, args []string) error {
	c.console.PrintRecipes(c.sess.Recipes())
	return nil
}

// ReverseCommand reports what the inventory can produce.
type ReverseCommand struct{ command }

func (c *ReverseCommand) Name() string  { return "reverse" }
func (c *ReverseCommand) Usage() string { return "reverse [item]" }
func (c *ReverseCommand) Description() string {
	return "Show how many of an item (or of every item) the inventory can craft"
}

func (c *ReverseCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		all, err := c.sess.AllCraftable()
		if err != nil {
			return err
		}
		c.console.PrintAllCraftable(all)
		return nil
	}
	name, n, notices, err := c.sess.MaxCraftable(strings.Join(args, " "))
	c.printNotices(notices)
	if err != nil {
		return err
	}
	c.console.PrintCraftable(name, n)
	return nil
}

// HelpCommand prints usage.
type HelpCommand struct{ registry *Registry }

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Usage() string       { return "help" }
func (c *HelpCommand) Description() string { return "Show this help" }

func (c *HelpCommand) Run(ctx context.Context, args []string) error {
	c.registry.PrintHelp()
	return nil
}

// GUICommand opens the desktop window.
type GUICommand struct{ launch func() error }

func (c *GUICommand) Name() string        { return "gui" }
func (c *GUICommand) Usage() string       { return "gui" }
func (c *GUICommand) Description() string { return "Open the desktop window" }

func (c *GUICommand) Run(ctx context.Context, args []string) error {
	if c.launch == nil {
		return fmt.Errorf("desktop window is not available")
	}
	slog.Info("Starting desktop window")
	return c.launch()
}
