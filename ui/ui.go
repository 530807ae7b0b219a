package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"craftcalc/calculator"
	"craftcalc/input"
	"craftcalc/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// resultTree adapts a crafting forest to widget.Tree. Node IDs are index
// paths such as "0/2/1" so the same item can appear in many places.
type resultTree struct {
	widget *widget.Tree
	nodes  map[widget.TreeNodeID]*calculator.Node
	kids   map[widget.TreeNodeID][]widget.TreeNodeID
}

func newResultTree() *resultTree {
	t := &resultTree{
		nodes: make(map[widget.TreeNodeID]*calculator.Node),
		kids:  make(map[widget.TreeNodeID][]widget.TreeNodeID),
	}
	t.widget = widget.NewTree(t.children, t.isBranch, t.createNode, t.updateNode)
	return t
}

// setRoots replaces the data source and rebuilds the node map.
func (t *resultTree) setRoots(roots []*calculator.Node) {
	t.nodes = make(map[widget.TreeNodeID]*calculator.Node)
	t.kids = make(map[widget.TreeNodeID][]widget.TreeNodeID)
	var walk func(id widget.TreeNodeID, n *calculator.Node)
	walk = func(id widget.TreeNodeID, n *calculator.Node) {
		t.nodes[id] = n
		for i, child := range SortedChildren(n) {
			childID := id + "/" + strconv.Itoa(i)
			t.kids[id] = append(t.kids[id], childID)
			walk(childID, child)
		}
	}
	for i, root := range roots {
		if root == nil {
			continue
		}
		id := strconv.Itoa(i)
		t.kids[""] = append(t.kids[""], id)
		walk(id, root)
	}
	t.widget.Refresh()
	t.widget.OpenAllBranches()
}

func (t *resultTree) children(id widget.TreeNodeID) []widget.TreeNodeID {
	return t.kids[id]
}

func (t *resultTree) isBranch(id widget.TreeNodeID) bool {
	return id == "" || len(t.kids[id]) > 0
}

// createNode lays out a name on the left and the quantities on the right.
func (t *resultTree) createNode(isBranch bool) fyne.CanvasObject {
	nameLabel := widget.NewLabel("Item")
	qtyLabel := widget.NewLabel("0")
	qtyLabel.Alignment = fyne.TextAlignTrailing
	sourceLabel := widget.NewLabel("[recipe]")
	return container.NewHBox(nameLabel, layout.NewSpacer(), qtyLabel, sourceLabel)
}

func (t *resultTree) updateNode(id widget.TreeNodeID, isBranch bool, obj fyne.CanvasObject) {
	n, ok := t.nodes[id]
	if !ok {
		slog.Warn("Tree node not found", "id", id)
		return
	}
	box, ok := obj.(*fyne.Container)
	if !ok || len(box.Objects) < 4 {
		slog.Error("Invalid tree node widget structure", "id", id)
		return
	}
	nameLabel, okN := box.Objects[0].(*widget.Label)
	qtyLabel, okQ := box.Objects[2].(*widget.Label)
	sourceLabel, okS := box.Objects[3].(*widget.Label)
	if !okN || !okQ || !okS {
		slog.Error("Invalid tree node label types", "id", id)
		return
	}
	nameLabel.SetText(n.Item)
	nameLabel.TextStyle.Bold = isBranch
	nameLabel.Refresh()

	qty := input.FormatQuantity(n.Needed)
	if n.Source == calculator.SourceRecipe && n.Produced > calculator.Epsilon {
		qty += " / " + input.FormatQuantity(n.Produced) + " crafted"
	}
	if n.FromStock > calculator.Epsilon {
		qty += " (" + input.FormatQuantity(n.FromStock) + " from stock)"
	}
	qtyLabel.SetText(qty)
	sourceLabel.SetText("[" + string(n.Source) + "]")
}

// BuildUI creates and returns the main window of the application.
// It initializes all UI elements, sets up event handlers, and arranges the layout.
func BuildUI(app fyne.App, sess *session.Session) fyne.Window {
	win := app.NewWindow("Crafting Calculator")
	win.SetMaster()
	ctx := context.Background()

	statusLabel := widget.NewLabel("Enter items and press 'Calculate'.")
	statusLabel.Wrapping = fyne.TextWrapWord

	itemsLabel := widget.NewLabel("")
	itemsLabel.Wrapping = fyne.TextWrapWord
	refreshItems := func() {
		itemsLabel.SetText(fmt.Sprintf("Available items: %s\nBase resources: %s",
			strings.Join(sess.Items(), ", "), strings.Join(sess.BaseItems(), ", ")))
	}

	tree := newResultTree()
	textView := container.NewVBox()
	summary := NewDataTable([]string{"Category", "Item", "Quantity"}, 120, 220, 100)
	stockTable := NewDataTable([]string{"Item", "Quantity"}, 220, 100)
	craftTable := NewDataTable([]string{"Item", "Craftable"}, 220, 100)

	refreshStock := func() {
		stockTable.SetRows(StockRows(sess.Stock()))
	}

	// Request entry and calculation.
	requestEntry := widget.NewEntry()
	requestEntry.SetPlaceHolder("Planks, 5; Stick, 2")

	calculateButton := widget.NewButton("Calculate", func() {
		statusLabel.SetText("Calculating...")
		out, err := sess.CalculateText(ctx, requestEntry.Text)
		var msgs []string
		if out != nil {
			for _, n := range out.Notices {
				msgs = append(msgs, n.String())
			}
		}
		if out == nil || out.Result == nil {
			tree.setRoots(nil)
			textView.Objects = nil
			textView.Refresh()
			summary.SetRows(nil)
			msgs = append(msgs, fmt.Sprintf("Calculation error:\n%v", err))
			statusLabel.SetText(strings.Join(msgs, "\n"))
			return
		}
		tree.setRoots(out.Result.Roots)
		textView.Objects = RenderLines(FormatForest(out.Result.Roots)).Objects
		textView.Refresh()
		summary.SetRows(SummaryRows(out.Products))
		refreshStock()
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("Some items failed:\n%v", err))
		} else {
			msgs = append(msgs, fmt.Sprintf("Calculated %d item(s).", len(out.Result.Roots)))
		}
		statusLabel.SetText(strings.Join(msgs, "\n"))
	})
	requestEntry.OnSubmitted = func(string) { calculateButton.OnTapped() }

	// Inventory controls.
	stockItemEntry := widget.NewEntry()
	stockItemEntry.SetPlaceHolder("Item...")
	stockQtyEntry := widget.NewEntry()
	stockQtyEntry.SetPlaceHolder("Amount...")
	stockQtyEntry.Validator = validation.NewRegexp(`^\d+(\.\d+)?$`, "Number > 0")

	addStockButton := widget.NewButton("Add", func() {
		qty := 1.0
		if strings.TrimSpace(stockQtyEntry.Text) != "" {
			v, err := input.ParseQuantity(stockQtyEntry.Text)
			if err != nil {
				statusLabel.SetText(fmt.Sprintf("Error: %v", err))
				return
			}
			qty = v
		}
		item := strings.TrimSpace(stockItemEntry.Text)
		if err := sess.AddStock(ctx, item, qty); err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		statusLabel.SetText(fmt.Sprintf("Added %s of '%s' to inventory.", input.FormatQuantity(qty), item))
		refreshStock()
		refreshItems()
	})
	clearStockButton := widget.NewButton("Clear", func() {
		name, notices, err := sess.ClearStock(ctx, stockItemEntry.Text)
		var msgs []string
		for _, n := range notices {
			msgs = append(msgs, n.String())
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("Error: %v", err))
		} else {
			msgs = append(msgs, fmt.Sprintf("Cleared '%s' from inventory.", name))
		}
		statusLabel.SetText(strings.Join(msgs, "\n"))
		refreshStock()
	})
	clearAllButton := widget.NewButton("Clear All", func() {
		if err := sess.ClearAllStock(ctx); err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		statusLabel.SetText("Inventory cleared.")
		refreshStock()
	})
	stockControls := container.NewVBox(
		container.NewGridWithColumns(2, stockItemEntry, stockQtyEntry),
		container.NewGridWithColumns(3, addStockButton, clearStockButton, clearAllButton),
	)

	// Recipe catalog.
	var recipes []*calculator.Recipe
	selected := -1
	recipeList := widget.NewList(
		func() int { return len(recipes) },
		func() fyne.CanvasObject { return widget.NewLabel("recipe") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(fmt.Sprintf("%d. %s", id+1, input.FormatRecipe(recipes[id])))
		},
	)
	recipeList.OnSelected = func(id widget.ListItemID) { selected = id }
	recipeList.OnUnselected = func(widget.ListItemID) { selected = -1 }
	refreshRecipes := func() {
		recipes = sess.Recipes()
		selected = -1
		recipeList.UnselectAll()
		recipeList.Refresh()
		refreshItems()
	}

	recipeEntry := widget.NewEntry()
	recipeEntry.SetPlaceHolder("Wood,2;Stone,1 -> Advanced Tool,1")
	addRecipeButton := widget.NewButton("Add Recipe", func() {
		r, err := input.ParseRecipe(recipeEntry.Text)
		if err == nil {
			err = sess.AddRecipe(ctx, r)
		}
		if err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		statusLabel.SetText("Added recipe: " + input.FormatRecipe(r))
		recipeEntry.SetText("")
		refreshRecipes()
	})
	deleteRecipeButton := widget.NewButton("Delete Selected", func() {
		if selected < 0 {
			statusLabel.SetText("Select a recipe to delete.")
			return
		}
		removed, err := sess.DeleteRecipe(ctx, selected+1)
		if err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		statusLabel.SetText("Deleted recipe: " + input.FormatRecipe(removed))
		refreshRecipes()
	})
	recipePanel := container.NewBorder(
		nil,
		container.NewVBox(recipeEntry, container.NewGridWithColumns(2, addRecipeButton, deleteRecipeButton)),
		nil, nil,
		recipeList,
	)

	// Reverse calculation.
	craftButton := widget.NewButton("What can I craft?", func() {
		all, err := sess.AllCraftable()
		if err != nil {
			statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			return
		}
		rows := CraftableRows(all)
		craftTable.SetRows(rows)
		statusLabel.SetText(fmt.Sprintf("%d item(s) craftable from current stock.", len(rows)))
	})

	inputForm := container.NewVBox(
		widget.NewLabelWithStyle("Request:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		requestEntry,
		calculateButton,
		itemsLabel,
		widget.NewLabelWithStyle("Inventory:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		stockControls,
	)
	stockScroll := container.NewVScroll(stockTable.Table)
	stockScroll.SetMinSize(fyne.NewSize(0, 180))
	leftPanel := container.NewBorder(inputForm, craftButton, nil, nil, stockScroll)

	tabs := container.NewAppTabs(
		container.NewTabItem("Hierarchy", tree.widget),
		container.NewTabItem("Text", container.NewScroll(textView)),
		container.NewTabItem("Summary", summary.Table),
		container.NewTabItem("Recipes", recipePanel),
		container.NewTabItem("Craftable", craftTable.Table),
	)

	rightPanel := container.NewBorder(statusLabel, nil, nil, nil, tabs)

	split := container.NewHSplit(leftPanel, rightPanel)
	split.Offset = 0.35

	refreshStock()
	refreshRecipes()

	win.SetContent(split)
	win.Resize(fyne.NewSize(1000, 700))
	win.SetFixedSize(false)
	return win
}
