package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/client"
	"github.com/pageza/fridgechef/backend/internal/session"
	"github.com/pageza/fridgechef/backend/internal/types"
	"github.com/pageza/fridgechef/backend/internal/view"
)

// app is the terminal front end. It owns the session state for its lifetime.
type app struct {
	api   *client.Client
	state *session.State
	nav   *view.Navigator
	in    *bufio.Scanner
	out   io.Writer
	p     painter

	sortOrder   view.SortOrder
	chatRecipes []types.Recipe
	readFile    func(string) ([]byte, error)
}

func newApp(api *client.Client, in io.Reader, out io.Writer, plain bool) *app {
	state := session.New()
	return &app{
		api:       api,
		state:     state,
		nav:       view.NewNavigator(state),
		in:        bufio.NewScanner(in),
		out:       out,
		p:         painter{plain: plain},
		sortOrder: view.SortMatch,
		readFile:  os.ReadFile,
	}
}

func (a *app) println(args ...any) { fmt.Fprintln(a.out, args...) }

func (a *app) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

// run loops until the input ends or the user quits
func (a *app) run(ctx context.Context) error {
	for {
		a.render()
		a.printf("%s ", a.p.muted(">"))
		if !a.in.Scan() {
			a.println()
			return a.in.Err()
		}
		if a.handle(ctx, strings.TrimSpace(a.in.Text())) {
			return nil
		}
	}
}

// handle applies one input line and reports whether to quit
func (a *app) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "restart":
		a.chatRecipes = nil
		a.nav.StartOver()
		return false
	case "back":
		a.enter(ctx, a.nav.Back())
		return false
	}

	switch a.nav.Current() {
	case view.ScreenLanding:
		a.enter(ctx, a.nav.Go(view.ScreenUpload))
	case view.ScreenUpload:
		a.handleUpload(ctx, strings.ToLower(cmd), arg, line)
	case view.ScreenModeSelect:
		switch strings.ToLower(line) {
		case "1", "browse":
			a.enter(ctx, a.nav.Go(view.ScreenBrowse))
		case "2", "chat":
			a.enter(ctx, a.nav.Go(view.ScreenChat))
		default:
			a.state.SetError("Choose 1 (browse) or 2 (chat).")
		}
	case view.ScreenBrowse:
		a.handleBrowse(ctx, strings.ToLower(cmd), arg, line)
	case view.ScreenChat:
		a.handleChat(ctx, strings.ToLower(cmd), arg, line)
	case view.ScreenDetail:
		if strings.EqualFold(line, "share") {
			if r, ok := a.state.Selected(); ok {
				a.println(a.p.box(view.ShareText(r)))
			}
		}
	}
	return false
}

// enter runs the side effects of arriving on a screen
func (a *app) enter(ctx context.Context, screen view.Screen) {
	if screen == view.ScreenBrowse && len(a.state.Recipes()) == 0 && !a.state.Loading() {
		a.generate(ctx)
	}
}

func (a *app) handleUpload(ctx context.Context, cmd, arg, line string) {
	switch cmd {
	case "photo":
		a.upload(ctx, arg)
	case "add":
		idx := a.state.AddIngredient(arg)
		if arg == "" {
			a.state.SetError(fmt.Sprintf("Added a blank ingredient at %d; use rename %d <name>.", idx+1, idx+1))
		}
	case "rm":
		if idx, ok := a.index(arg); ok {
			a.report(a.state.RemoveIngredient(idx))
		}
	case "rename", "qty", "cat":
		num, value, _ := strings.Cut(arg, " ")
		idx, ok := a.index(num)
		if !ok {
			return
		}
		a.report(a.state.UpdateIngredient(idx, func(ing *types.Ingredient) {
			switch cmd {
			case "rename":
				ing.Name = value
			case "qty":
				ing.Quantity = value
			case "cat":
				ing.Category = types.ParseCategory(value)
			}
		}))
	case "next":
		a.enter(ctx, a.nav.Go(view.ScreenModeSelect))
		if a.nav.Current() == view.ScreenUpload {
			a.state.SetError("Add a photo or at least one ingredient first.")
		}
	default:
		// A bare path is an upload
		if line != "" {
			a.upload(ctx, line)
		}
	}
}

func (a *app) upload(ctx context.Context, path string) {
	data, err := a.readFile(path)
	if err != nil {
		a.state.SetError(fmt.Sprintf("Could not read %s: %v", path, err))
		return
	}

	dataURL, mediaType := client.EncodeImage(data)
	a.state.SetImage(types.Image{Data: data, MediaType: mediaType})
	a.state.SetLoading(true)
	a.println(a.p.muted("Analyzing your fridge..."))

	ingredients, err := a.api.IdentifyIngredients(ctx, dataURL, mediaType)
	a.state.SetLoading(false)
	if err != nil {
		a.state.SetError(err.Error())
		return
	}
	a.state.SetIngredients(ingredients)
}

func (a *app) handleBrowse(ctx context.Context, cmd, arg, line string) {
	switch cmd {
	case "c", "cuisine":
		a.state.ToggleCuisine(arg)
	case "clear":
		for _, c := range a.state.Cuisines() {
			a.state.ToggleCuisine(c)
		}
	case "regen":
		a.generate(ctx)
	case "sort":
		switch order := view.SortOrder(strings.ToLower(arg)); order {
		case view.SortMatch, view.SortTime, view.SortDifficulty:
			a.sortOrder = order
		default:
			a.state.SetError("Sort by match, time or difficulty.")
		}
	case "chat":
		a.enter(ctx, a.nav.Go(view.ScreenChat))
	default:
		recipes := view.Sort(a.state.Recipes(), a.sortOrder)
		if idx, ok := a.pick(line, len(recipes)); ok {
			a.enter(ctx, a.nav.OpenRecipe(recipes[idx]))
		}
	}
}

func (a *app) generate(ctx context.Context) {
	seq := a.state.BeginRecipes()
	a.println(a.p.muted("Finding delicious recipes for you..."))
	recipes, err := a.api.GenerateRecipes(ctx, a.state.Ingredients(), a.state.Cuisines())
	if err != nil {
		a.state.FailRecipes(seq, err)
		return
	}
	a.state.ApplyRecipes(seq, recipes)
}

func (a *app) handleChat(ctx context.Context, cmd, arg, line string) {
	switch cmd {
	case "":
		return
	case "open":
		if idx, ok := a.pick(arg, len(a.chatRecipes)); ok {
			a.enter(ctx, a.nav.OpenRecipe(a.chatRecipes[idx]))
		}
		return
	case "browse":
		a.enter(ctx, a.nav.Go(view.ScreenBrowse))
		return
	}

	message := line
	if view.ShowQuickPrompts(a.state.Transcript()) {
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(view.QuickPrompts) {
			message = view.QuickPrompts[n-1]
		}
	}
	a.send(ctx, message)
}

func (a *app) send(ctx context.Context, message string) {
	a.state.AppendMessage(types.ChatMessage{Role: types.RoleUser, Content: message})
	a.state.SetLoading(true)
	a.println(a.p.muted("Thinking..."))

	reply, err := a.api.HealthChat(ctx, a.state.Transcript(), a.state.Ingredients())
	a.state.SetLoading(false)
	if err != nil {
		a.state.SetError(err.Error())
		return
	}
	a.state.AppendMessage(types.ChatMessage{Role: types.RoleAssistant, Content: reply.Response})
	a.chatRecipes = reply.Recipes
}

// index parses a 1-based ingredient number
func (a *app) index(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		a.state.SetError(fmt.Sprintf("%q is not a number.", s))
		return 0, false
	}
	return n - 1, true
}

// pick parses a 1-based choice among n items
func (a *app) pick(s string, n int) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || idx < 1 || idx > n {
		a.state.SetError(fmt.Sprintf("Pick a number between 1 and %d.", n))
		return 0, false
	}
	return idx - 1, true
}

func (a *app) report(err error) {
	if err != nil {
		a.state.SetError(err.Error())
	}
}

func (a *app) render() {
	a.println()
	switch a.nav.Current() {
	case view.ScreenLanding:
		a.println(a.p.box(a.p.title("FridgeChef") + "\nSnap your fridge, get recipes that use what you have."))
		a.println(a.p.muted("Press enter to start, quit to leave."))
	case view.ScreenUpload:
		a.println(a.p.title("Your ingredients"))
		a.println(a.p.ingredients(a.state.Ingredients()))
		a.println(a.p.muted("Commands: photo <path> | add <name> | rm <n> | rename <n> <name> | qty <n> <qty> | cat <n> <category> | next | back"))
	case view.ScreenModeSelect:
		a.printf("%s ingredients detected and ready to use\n", a.p.title(strconv.Itoa(len(a.state.Ingredients()))))
		a.println("  1. Browse recipes by cuisine")
		a.println("  2. Health assistant chat")
	case view.ScreenBrowse:
		a.println(a.p.title("Browse recipes"))
		a.println(a.p.cuisines(a.state.Cuisines()))
		recipes := view.Sort(a.state.Recipes(), a.sortOrder)
		if len(recipes) == 0 {
			a.println(a.p.muted("No recipes yet. Type regen to get suggestions."))
		}
		for i, r := range recipes {
			a.println(a.p.recipeSummary(i, r))
		}
		a.println(a.p.muted(fmt.Sprintf("Sorted by %s. Commands: <n> | c <cuisine> | clear | regen | sort match|time|difficulty | chat | back", a.sortOrder)))
	case view.ScreenChat:
		a.println(a.p.title("Health assistant"))
		transcript := a.state.Transcript()
		for _, msg := range transcript {
			a.println(a.p.chatLine(msg))
		}
		for i, r := range a.chatRecipes {
			a.println(a.p.recipeSummary(i, r))
		}
		if view.ShowQuickPrompts(transcript) {
			a.println(a.p.muted("Quick suggestions:"))
			for i, prompt := range view.QuickPrompts {
				a.printf("  %d. %s\n", i+1, prompt)
			}
		}
		a.println(a.p.muted(view.MedicalDisclaimer))
		a.println(a.p.muted("Type a message. Commands: open <n> | browse | back"))
	case view.ScreenDetail:
		if r, ok := a.state.Selected(); ok {
			a.println(a.p.recipeDetail(r))
		}
		a.println(a.p.muted("Commands: share | back"))
	}

	if msg := a.state.Error(); msg != "" {
		a.println(a.p.errText(msg))
		a.state.SetError("")
	}
}
