package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/copytree/copytree/internal/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	folderStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	checkboxEmpty = "[ ]"
	checkboxFull  = "[x]"
	checkboxMixed = "[-]"
)

const viewReservedLines = 6

// View implements tea.Model.
func (pickerModel *Model) View() string {
	if pickerModel.quitting {
		return ""
	}
	if pickerModel.confirming {
		return pickerModel.confirmationView()
	}

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Select files to export"))
	builder.WriteString("\n\n")

	visibleHeight := pickerModel.windowHeight - viewReservedLines
	if visibleHeight < 1 {
		visibleHeight = len(pickerModel.rows)
	}
	firstVisibleIndex := 0
	if pickerModel.cursorIndex >= visibleHeight {
		firstVisibleIndex = pickerModel.cursorIndex - visibleHeight + 1
	}
	lastVisibleIndex := firstVisibleIndex + visibleHeight
	if lastVisibleIndex > len(pickerModel.rows) {
		lastVisibleIndex = len(pickerModel.rows)
	}

	for rowIndex := firstVisibleIndex; rowIndex < lastVisibleIndex; rowIndex++ {
		builder.WriteString(pickerModel.renderRow(rowIndex))
		builder.WriteString("\n")
	}
	if len(pickerModel.rows) == 0 {
		builder.WriteString(helpStyle.Render("  (no matches)"))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if pickerModel.filterActive {
		builder.WriteString(filterStyle.Render(fmt.Sprintf("filter: %s▌", pickerModel.filterQuery)))
		builder.WriteString("\n")
		builder.WriteString(helpStyle.Render("type to filter · enter toggle · esc clear · ctrl+j/k move"))
	} else {
		builder.WriteString(statusStyle.Render(pickerModel.statusLine()))
		builder.WriteString("\n")
		builder.WriteString(helpStyle.Render("space toggle · ←/→ fold · / filter · enter export · q cancel"))
	}
	return builder.String()
}

// renderRow renders one tree row with its checkbox, indentation, and fold marker.
func (pickerModel *Model) renderRow(rowIndex int) string {
	row := pickerModel.rows[rowIndex]

	checkbox := checkboxEmpty
	switch pickerModel.selection.State(row.node.Path) {
	case types.StateChecked:
		checkbox = checkedStyle.Render(checkboxFull)
	case types.StateIndeterminate:
		checkbox = partialStyle.Render(checkboxMixed)
	}

	cursorMarker := "  "
	if rowIndex == pickerModel.cursorIndex {
		cursorMarker = cursorStyle.Render("> ")
	}

	label := row.node.Name
	if row.node.Kind == types.ItemTypeFolder {
		foldMarker := "▾ "
		if pickerModel.collapsedPaths[row.node.Path] {
			foldMarker = "▸ "
		}
		label = folderStyle.Render(foldMarker + row.node.Name + "/")
		if fileCount := pickerModel.selection.DescendantFileCount(row.node.Path); fileCount > 0 {
			label += helpStyle.Render(fmt.Sprintf(" (%d)", fileCount))
		}
	}

	indent := strings.Repeat("  ", row.depth)
	return cursorMarker + indent + checkbox + " " + label
}

// statusLine summarizes the current selection below the tree.
func (pickerModel *Model) statusLine() string {
	if pickerModel.statusMessage != "" {
		return pickerModel.statusMessage
	}
	return fmt.Sprintf("%d of %d files selected", pickerModel.selection.CheckedCount(), len(pickerModel.allFilePaths))
}

// confirmationView renders the large-selection confirmation modal.
func (pickerModel *Model) confirmationView() string {
	prompt := fmt.Sprintf(
		"Export %d files? This exceeds the configured threshold of %d.\n\n[y] export  [n] back",
		pickerModel.selection.CheckedCount(),
		pickerModel.maxFiles,
	)
	return modalStyle.Render(prompt)
}
