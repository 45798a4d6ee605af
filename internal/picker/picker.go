// Package picker renders the selection forest as an interactive terminal
// session with tri-state checkboxes and returns the confirmed file paths.
package picker

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/copytree/copytree/internal/tree"
	"github.com/copytree/copytree/internal/types"
)

// Result captures the outcome of one picker session. Cancelled sessions carry
// no selection; cancellation and window dismissal are equivalent.
type Result struct {
	SelectedPaths []string
	Cancelled     bool
}

// keyMap defines the keybindings used by the picker.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	Confirm     key.Binding
	StartFilter key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "export"),
		),
		StartFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "cancel"),
		),
	}
}

// pickerRow is one visible line of the rendered tree.
type pickerRow struct {
	node  *types.TreeNode
	depth int
}

// Model is the Bubble Tea model for one picker session.
type Model struct {
	forest    []*types.TreeNode
	selection *tree.Selection
	keys      keyMap

	rows            []pickerRow
	cursorIndex     int
	collapsedPaths  map[string]bool
	allFilePaths    []string
	filterActive    bool
	filterQuery     string
	confirming      bool
	maxFiles        int
	statusMessage   string
	windowHeight    int
	quitting        bool
	sessionResult   Result
	resultDelivered bool
}

// NewModel prepares a picker session over the provided forest. Every folder
// starts expanded and every file unchecked.
func NewModel(forest []*types.TreeNode, maxFilesThreshold int) *Model {
	pickerModel := &Model{
		forest:         forest,
		selection:      tree.NewSelection(forest),
		keys:           defaultKeyMap(),
		collapsedPaths: make(map[string]bool),
		maxFiles:       maxFilesThreshold,
	}
	var collectFiles func(node *types.TreeNode)
	collectFiles = func(node *types.TreeNode) {
		if node.Kind == types.ItemTypeFile {
			pickerModel.allFilePaths = append(pickerModel.allFilePaths, node.Path)
			return
		}
		for _, childNode := range node.Children {
			collectFiles(childNode)
		}
	}
	for _, rootNode := range forest {
		collectFiles(rootNode)
	}
	pickerModel.rebuildRows()
	return pickerModel
}

// Selection exposes the session's tri-state selection state.
func (pickerModel *Model) Selection() *tree.Selection {
	return pickerModel.selection
}

// Result returns the session outcome once the program has finished.
func (pickerModel *Model) Result() Result {
	if !pickerModel.resultDelivered {
		return Result{Cancelled: true}
	}
	return pickerModel.sessionResult
}

// rebuildRows recomputes the visible row list from the forest, the collapsed
// set, and the active filter query.
func (pickerModel *Model) rebuildRows() {
	pickerModel.rows = pickerModel.rows[:0]

	if pickerModel.filterActive && pickerModel.filterQuery != "" {
		ranks := fuzzy.RankFindFold(pickerModel.filterQuery, pickerModel.allFilePaths)
		sort.Sort(ranks)
		for _, rank := range ranks {
			pickerModel.rows = append(pickerModel.rows, pickerRow{
				node: &types.TreeNode{
					Name: rank.Target,
					Path: rank.Target,
					Kind: types.ItemTypeFile,
				},
			})
		}
	} else {
		var appendRows func(node *types.TreeNode, depth int)
		appendRows = func(node *types.TreeNode, depth int) {
			pickerModel.rows = append(pickerModel.rows, pickerRow{node: node, depth: depth})
			if node.Kind != types.ItemTypeFolder || pickerModel.collapsedPaths[node.Path] {
				return
			}
			for _, childNode := range node.Children {
				appendRows(childNode, depth+1)
			}
		}
		for _, rootNode := range pickerModel.forest {
			appendRows(rootNode, 0)
		}
	}

	if pickerModel.cursorIndex >= len(pickerModel.rows) {
		pickerModel.cursorIndex = len(pickerModel.rows) - 1
	}
	if pickerModel.cursorIndex < 0 {
		pickerModel.cursorIndex = 0
	}
}

// focusedRow returns the row under the cursor, or nil for an empty view.
func (pickerModel *Model) focusedRow() *pickerRow {
	if len(pickerModel.rows) == 0 || pickerModel.cursorIndex < 0 || pickerModel.cursorIndex >= len(pickerModel.rows) {
		return nil
	}
	return &pickerModel.rows[pickerModel.cursorIndex]
}

// Init implements tea.Model.
func (pickerModel *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Toggles are serialized through the single
// event stream, so no locking guards the selection state.
func (pickerModel *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.WindowSizeMsg:
		pickerModel.windowHeight = typedMessage.Height
		return pickerModel, nil
	case tea.KeyMsg:
		return pickerModel.handleKey(typedMessage)
	}
	return pickerModel, nil
}

func (pickerModel *Model) handleKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	if pickerModel.confirming {
		return pickerModel.handleConfirmationKey(keyMessage)
	}
	if pickerModel.filterActive {
		if handled, nextModel, command := pickerModel.handleFilterKey(keyMessage); handled {
			return nextModel, command
		}
	}

	switch {
	case key.Matches(keyMessage, pickerModel.keys.Quit):
		pickerModel.quitting = true
		pickerModel.sessionResult = Result{Cancelled: true}
		pickerModel.resultDelivered = true
		return pickerModel, tea.Quit

	case key.Matches(keyMessage, pickerModel.keys.Up):
		if pickerModel.cursorIndex > 0 {
			pickerModel.cursorIndex--
		}
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.Down):
		if pickerModel.cursorIndex < len(pickerModel.rows)-1 {
			pickerModel.cursorIndex++
		}
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.Toggle):
		pickerModel.toggleFocused()
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.Collapse):
		if focused := pickerModel.focusedRow(); focused != nil && focused.node.Kind == types.ItemTypeFolder {
			pickerModel.collapsedPaths[focused.node.Path] = true
			pickerModel.rebuildRows()
		}
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.Expand):
		if focused := pickerModel.focusedRow(); focused != nil && focused.node.Kind == types.ItemTypeFolder {
			delete(pickerModel.collapsedPaths, focused.node.Path)
			pickerModel.rebuildRows()
		}
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.StartFilter):
		pickerModel.filterActive = true
		pickerModel.filterQuery = ""
		pickerModel.rebuildRows()
		return pickerModel, nil

	case key.Matches(keyMessage, pickerModel.keys.Confirm):
		return pickerModel.attemptConfirm()
	}

	return pickerModel, nil
}

// handleFilterKey processes keys while the fuzzy filter is active. It reports
// whether the key was consumed.
func (pickerModel *Model) handleFilterKey(keyMessage tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch keyMessage.Type {
	case tea.KeyEsc:
		pickerModel.filterActive = false
		pickerModel.filterQuery = ""
		pickerModel.rebuildRows()
		return true, pickerModel, nil
	case tea.KeyBackspace:
		if len(pickerModel.filterQuery) > 0 {
			queryRunes := []rune(pickerModel.filterQuery)
			pickerModel.filterQuery = string(queryRunes[:len(queryRunes)-1])
			pickerModel.rebuildRows()
		}
		return true, pickerModel, nil
	case tea.KeyEnter:
		pickerModel.toggleFocused()
		return true, pickerModel, nil
	case tea.KeyUp, tea.KeyCtrlK:
		if pickerModel.cursorIndex > 0 {
			pickerModel.cursorIndex--
		}
		return true, pickerModel, nil
	case tea.KeyDown, tea.KeyCtrlJ:
		if pickerModel.cursorIndex < len(pickerModel.rows)-1 {
			pickerModel.cursorIndex++
		}
		return true, pickerModel, nil
	case tea.KeyCtrlC:
		pickerModel.quitting = true
		pickerModel.sessionResult = Result{Cancelled: true}
		pickerModel.resultDelivered = true
		return true, pickerModel, tea.Quit
	case tea.KeySpace:
		pickerModel.filterQuery += " "
		pickerModel.rebuildRows()
		return true, pickerModel, nil
	case tea.KeyRunes:
		pickerModel.filterQuery += string(keyMessage.Runes)
		pickerModel.rebuildRows()
		return true, pickerModel, nil
	}
	return false, pickerModel, nil
}

// handleConfirmationKey processes the large-selection confirmation modal.
func (pickerModel *Model) handleConfirmationKey(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "y", "Y", "enter":
		return pickerModel.finalize()
	case "n", "N", "esc", "q":
		pickerModel.confirming = false
		pickerModel.statusMessage = ""
		return pickerModel, nil
	case "ctrl+c":
		pickerModel.quitting = true
		pickerModel.sessionResult = Result{Cancelled: true}
		pickerModel.resultDelivered = true
		return pickerModel, tea.Quit
	}
	return pickerModel, nil
}

// toggleFocused flips the checkbox under the cursor. Folder toggles cascade to
// every descendant file.
func (pickerModel *Model) toggleFocused() {
	focused := pickerModel.focusedRow()
	if focused == nil {
		return
	}
	nextChecked := pickerModel.selection.State(focused.node.Path) != types.StateChecked
	pickerModel.selection.Toggle(focused.node.Path, nextChecked)
}

// attemptConfirm validates the selection and either finishes the session or
// raises the large-selection confirmation modal. Confirmation is unavailable
// while zero files are selected.
func (pickerModel *Model) attemptConfirm() (tea.Model, tea.Cmd) {
	checkedCount := pickerModel.selection.CheckedCount()
	if checkedCount == 0 {
		pickerModel.statusMessage = "No files selected"
		return pickerModel, nil
	}
	if checkedCount > pickerModel.maxFiles {
		pickerModel.confirming = true
		return pickerModel, nil
	}
	return pickerModel.finalize()
}

// finalize records the confirmed file set and quits the session.
func (pickerModel *Model) finalize() (tea.Model, tea.Cmd) {
	pickerModel.quitting = true
	pickerModel.sessionResult = Result{SelectedPaths: pickerModel.selection.CheckedFiles()}
	pickerModel.resultDelivered = true
	return pickerModel, tea.Quit
}

// Run executes a picker session over the forest and blocks until the user
// confirms or cancels.
func Run(forest []*types.TreeNode, maxFilesThreshold int) (Result, error) {
	pickerModel := NewModel(forest, maxFilesThreshold)
	program := tea.NewProgram(pickerModel, tea.WithAltScreen())
	finalModel, runError := program.Run()
	if runError != nil {
		return Result{Cancelled: true}, runError
	}
	finishedModel, isPickerModel := finalModel.(*Model)
	if !isPickerModel {
		return Result{Cancelled: true}, nil
	}
	return finishedModel.Result(), nil
}
