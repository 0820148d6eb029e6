// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// TabStripHeight is the height of the tab strip above the messages panel
	TabStripHeight = 1

	// SidebarButtonsHeight is the row of New/Delete buttons under the tree
	SidebarButtonsHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/4 of total width)
	SidebarWidthRatio = 4

	// MinSidebarWidth keeps short session titles readable on narrow terminals
	MinSidebarWidth = 18

	// TextareaHeight is the number of lines for the chat input textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight clamp layout math on tiny terminals
	MinTerminalWidth  = 40
	MinTerminalHeight = 12

	// MaxTabLabelWidth caps a single tab label in the strip
	MaxTabLabelWidth = 24

	// ModalWidth is the outer width of popup dialogs
	ModalWidth = 56

	// ModalInputWidth is the width of text fields inside a modal
	ModalInputWidth = ModalWidth - 8
)

// Input limits
const (
	// InputCharLimit bounds a single prompt
	InputCharLimit = 32000

	// MaxTitleLength bounds a session title set by rename
	MaxTitleLength = 80
)
