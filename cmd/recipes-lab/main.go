package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"recipes-lab/internal/app"
	"recipes-lab/internal/auth"
	"recipes-lab/internal/catalog"
	"recipes-lab/internal/config"
	"recipes-lab/internal/database"
	"recipes-lab/internal/recipe"
	"recipes-lab/internal/userdata"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	users := userdata.NewStore(db.SQL)
	provider := auth.NewTokenProvider(cfg.Session.Secret, cfg.Session.TokenPath)
	application := app.New(catalog.NewClient(cfg), users, provider)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "recipes":
		recipesCmd := flag.NewFlagSet("recipes", flag.ExitOnError)
		live := recipesCmd.Bool("live", false, "Run a live catalog search instead of the seed pool")
		filter := recipesCmd.String("filter", "", "Client-side title filter")
		recipesCmd.Parse(os.Args[2:])

		if *live {
			if err := cfg.RequireCatalogKey(); err != nil {
				log.Fatalf("Cannot run a live search: %v", err)
			}
			application.Search(ctx)
		}
		application.SetFilter(*filter)
		printPool(application.Recipes())

	case "detail":
		detailCmd := flag.NewFlagSet("detail", flag.ExitOnError)
		detailCmd.Parse(os.Args[2:])
		rec := mustPoolRecipe(application, detailCmd.Arg(0))

		application.Select(ctx, rec)
		printSelection(application)

	case "favorites":
		favCmd := flag.NewFlagSet("favorites", flag.ExitOnError)
		page := favCmd.Int("page", 1, "Favorites page to show")
		favCmd.Parse(os.Args[2:])

		mustLogin(ctx, application)
		for i := 1; i < *page; i++ {
			application.NextPage()
		}
		slice, current, total := application.Favorites()
		fmt.Printf("My Favorites (%d)\n", application.FavoritesCount())
		printPool(slice)
		fmt.Printf("Page %d of %d\n", current, total)

	case "favorite":
		favCmd := flag.NewFlagSet("favorite", flag.ExitOnError)
		favCmd.Parse(os.Args[2:])
		rec := mustPoolRecipe(application, favCmd.Arg(0))

		mustLogin(ctx, application)
		if err := application.ToggleFavorite(ctx, rec); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if application.IsFavorite(rec.ID) {
			fmt.Printf("Added %q to favorites.\n", rec.Title)
		} else {
			fmt.Printf("Removed %q from favorites.\n", rec.Title)
		}

	case "plan":
		mustLogin(ctx, application)
		printPlan(application.MealPlan())

	case "plan-add":
		planCmd := flag.NewFlagSet("plan-add", flag.ExitOnError)
		planCmd.Parse(os.Args[2:])
		day, err := recipe.ParseDay(planCmd.Arg(0))
		if err != nil {
			log.Fatalf("Invalid day: %v", err)
		}
		rec := mustPoolRecipe(application, planCmd.Arg(1))

		mustLogin(ctx, application)
		if err := application.ChooseDay(ctx, day, rec); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		printPlan(application.MealPlan())

	case "plan-remove":
		planCmd := flag.NewFlagSet("plan-remove", flag.ExitOnError)
		planCmd.Parse(os.Args[2:])
		day, err := recipe.ParseDay(planCmd.Arg(0))
		if err != nil {
			log.Fatalf("Invalid day: %v", err)
		}
		id, err := strconv.ParseInt(planCmd.Arg(1), 10, 64)
		if err != nil {
			log.Fatalf("Invalid recipe id: %v", err)
		}

		mustLogin(ctx, application)
		if err := application.RemoveFromDay(ctx, day, id); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		printPlan(application.MealPlan())

	case "whoami":
		mustLogin(ctx, application)
		s := application.Session()
		fmt.Printf("%s <%s>\n", s.DisplayName, s.Email)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// mustLogin starts a session from the configured ID token. Commands that
// mutate per-user data cannot proceed anonymously.
func mustLogin(ctx context.Context, a *app.App) {
	if err := a.Login(ctx); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
}

// mustPoolRecipe resolves an id argument against the current pool; recipes
// outside the pool are never fabricated.
func mustPoolRecipe(a *app.App, arg string) recipe.Recipe {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatalf("Invalid recipe id %q: %v", arg, err)
	}
	for _, r := range a.Recipes() {
		if r.ID == id {
			return r
		}
	}
	log.Fatalf("Recipe %d is not in the current pool", id)
	return recipe.Recipe{}
}

func printPool(pool []recipe.Recipe) {
	for _, r := range pool {
		fmt.Printf("% 8d  %-28s %v (%d min, serves %d)\n", r.ID, r.Title, r.Tags, r.ReadyInMinutes, r.Servings)
	}
}

func printSelection(a *app.App) {
	sel, detail, loading := a.Selection()
	if sel == nil {
		fmt.Println("Nothing selected.")
		return
	}
	fmt.Printf("%s\nReady in: %d minutes | Servings: %d\n", sel.Title, sel.ReadyInMinutes, sel.Servings)
	if loading {
		fmt.Println("Loading full recipe details...")
		return
	}
	if detail == nil {
		fmt.Printf("\n%s\n", sel.PlainSummary())
		return
	}
	if detail.Summary != "" {
		fmt.Printf("\n%s\n", detail.PlainSummary())
	}
	if len(detail.Ingredients) > 0 {
		fmt.Println("\nIngredients:")
		for _, ing := range detail.Ingredients {
			fmt.Printf("  - %s\n", ing)
		}
	}
	for _, set := range detail.Instructions {
		fmt.Println("\nInstructions:")
		for _, step := range set.Steps {
			fmt.Printf("  %d. %s\n", step.Number, step.Text)
		}
	}
	if len(detail.Nutrients) > 0 {
		fmt.Println("\nNutrition (per serving):")
		for i, n := range detail.Nutrients {
			if i == 8 {
				break
			}
			fmt.Printf("  %-14s %.0f%s\n", n.Name, n.Amount, n.Unit)
		}
	}
}

func printPlan(plan map[recipe.Day][]recipe.Recipe) {
	for _, day := range recipe.Week {
		fmt.Printf("%s:\n", day)
		if len(plan[day]) == 0 {
			fmt.Println("  No meals planned")
			continue
		}
		for _, r := range plan[day] {
			fmt.Printf("  %d  %s\n", r.ID, r.Title)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: recipes-lab <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  recipes [-live] [-filter text]   Show the recipe pool")
	fmt.Println("  detail <id>                      Show full detail for a pool recipe")
	fmt.Println("  favorite <id>                    Toggle a pool recipe as favorite")
	fmt.Println("  favorites [-page N]              List stored favorites")
	fmt.Println("  plan                             Show the weekly meal plan")
	fmt.Println("  plan-add <day> <id>              Add a pool recipe to a day")
	fmt.Println("  plan-remove <day> <id>           Remove a recipe from a day")
	fmt.Println("  whoami                           Show the active session")
}
