// Package ui provides the widgets the parley TUI is assembled from.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├──────────────┬──────────────────────────────────────┤
//	│              │ Tab strip (1 line)                   │
//	│   Sidebar    ├──────────────────────────────────────┤
//	│   (tree)     │ Messages (active tab's MessageView)  │
//	│              ├──────────────────────────────────────┤
//	│ [+ New] [✕]  │ Input                                │
//	├──────────────┴──────────────────────────────────────┤
//	│ Footer / flash notice (1 line)                      │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: singleton holding layout math. All sizes go through it.
//
// Sidebar: the navigation tree. A "Chats" root with one leaf per chat.
// Selecting a row, by key, click or from code, calls the selection handler
// synchronously; callers that select programmatically must guard against
// the resulting re-entry.
//
// Tabs: the tab strip. Each Tab owns a MessageView. Tabs support Relabel.
//
// MessageView: scrollable list of bubbles backed by a viewport. Bubbles are
// addressed by handle so a placeholder can be removed later.
//
// Input: textarea composer with a grapheme counter.
//
// Footer: key hints, replaced by flash notices while one is showing.
//
// Modal: huh-based dialogs (delete confirmation, settings) and the help list.
//
// CopyView: read-only plain-text transcript overlay.
//
// # Styles
//
// styles.go derives every style from the current Theme. SetTheme regenerates
// them; widgets that cache rendered output expose Refresh.
package ui
