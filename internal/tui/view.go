package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lachiem1/tallyUp/internal/nav"
	"github.com/lachiem1/tallyUp/internal/source"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60"))
	contentStyle := lipgloss.NewStyle().Padding(1, 2, 0, 2)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}
	layoutWidth := max(1, m.width-frame.GetHorizontalFrameSize()-contentStyle.GetHorizontalFrameSize())

	header := renderBlockTitle()
	if m.width > 0 {
		header = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, header)
	}
	top := []string{header, "", m.renderStatusLine()}
	if m.statusText != "" {
		top = append(top, mutedStyle.Render(m.statusText))
	}
	top = append(top, "")
	topSection := strings.Join(top, "\n")

	bottom := m.help.View(m.contextKeys())
	if m.prompting {
		bottom = m.renderPrompt(layoutWidth) + "\n" + bottom
	}

	body := m.renderBody()
	if m.height > 0 {
		available := m.height - frame.GetVerticalFrameSize() - contentStyle.GetVerticalFrameSize() -
			lipgloss.Height(topSection) - lipgloss.Height(bottom) - 1
		body = m.clipBody(body, max(1, available))
	}

	return frame.Render(contentStyle.Render(topSection + "\n" + body + "\n\n" + bottom))
}

func (m model) renderStatusLine() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).Render("source: ")
	name := "no CSV file selected"
	if src := m.activeSource(); src != nil {
		name = src.Name()
	} else if m.active == source.KindQuickBooks {
		name = "QuickBooks (not configured)"
	}
	line := label + mutedStyle.Render(name)
	if m.loading {
		line += "  " + m.spinner.View() + " loading..."
	}
	return line
}

func (m model) renderPrompt(width int) string {
	input := m.pathInput
	input.Width = max(12, min(width-8, 72))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render("Open a CSV file\n\n" + input.View() + "\n\n" + mutedStyle.Render("Enter to load, Esc to cancel"))
}

func (m model) renderBody() string {
	if m.activeSource() == nil {
		if m.active == source.KindQuickBooks {
			return warnStyle.Render("QuickBooks is not configured.")
		}
		return strings.Join([]string{
			"Please upload a CSV file to proceed.",
			mutedStyle.Render("Press o to open a CSV file."),
		}, "\n")
	}
	if m.loading && m.snapshot.Partition.All().Empty() && m.loadErr == nil {
		return mutedStyle.Render("Loading invoices...")
	}

	var prefix string
	if m.loadErr != nil {
		prefix = warnStyle.Render(errorText(m.loadErr)) + "\n\n"
	} else if m.snapshot.Err != nil {
		prefix = warnStyle.Render(errorText(m.snapshot.Err)) + "\n\n"
	}

	switch m.state.View() {
	case nav.ViewCustomerDetail:
		return prefix + renderDetailBody(m.snapshot.CustomerDetail(m.detailCustomer()))
	default:
		body, _ := renderHomeBody(m.snapshot.Home(), m.cursor)
		return prefix + body
	}
}

// clipBody keeps the body within height lines. On Home the selected
// customer's block is scrolled into view; on the detail screen the manual
// offset applies.
func (m model) clipBody(body string, height int) string {
	lines := strings.Split(body, "\n")
	if len(lines) <= height {
		return body
	}

	offset := 0
	if m.activeSource() != nil && m.state.View() == nav.ViewHome {
		_, anchor := renderHomeBody(m.snapshot.Home(), m.cursor)
		if m.loadErr != nil || m.snapshot.Err != nil {
			anchor += 2
		}
		if anchor >= height/2 {
			offset = anchor - height/3
		}
	} else {
		offset = m.detailOffset
	}
	offset = max(0, min(offset, len(lines)-height))

	visible := lines[offset : offset+height]
	if offset > 0 {
		visible[0] = mutedStyle.Render(fmt.Sprintf("  ↑ %d more", offset))
	}
	if rest := len(lines) - offset - height; rest > 0 {
		visible[len(visible)-1] = mutedStyle.Render(fmt.Sprintf("  ↓ %d more", rest))
	}
	return strings.Join(visible, "\n")
}

// contextKeys returns the bindings live on the current screen.
func (m model) contextKeys() keyMap {
	km := m.keys
	onHome := m.state.View() == nav.ViewHome
	km.Select.SetEnabled(onHome && m.activeSource() != nil)
	km.Back.SetEnabled(!onHome)
	km.Reload.SetEnabled(m.activeSource() != nil)
	if !onHome {
		km.Up.SetHelp("↑/k", "scroll")
		km.Down.SetHelp("↓/j", "scroll")
	}
	return km
}
